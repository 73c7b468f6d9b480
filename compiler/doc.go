/*

Process of analysis

ILOC Text ->
	parse ->
Instruction Sequence (ir) ->
	label, rename ->
Renamed Sequence ->
	build ->
Dependency Graph (dag) ->
	weigh ->
Weighted Graph ->
	format ->
Report

Scheduling itself (picking cycles by weight) is left to a later pass.

*/
package compiler
