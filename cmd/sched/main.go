package main

import (
	"context"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/ext/tlflag"

	"github.com/slowlang/sched/compiler"
	"github.com/slowlang/sched/compiler/config"
	"github.com/slowlang/sched/compiler/dag"
	"github.com/slowlang/sched/compiler/format"
	"github.com/slowlang/sched/compiler/ir"
	"github.com/slowlang/sched/compiler/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print parsed instructions",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name: "sched",
		Description: "sched performs the first half of instruction scheduling:\n" +
			"it builds a dependency graph of the ILOC code in each file\n" +
			"and computes latency weighted distances from every node to a root",
		Before: before,
		Action: graphAct,
		Args:   cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("format", "text", "output format: text or table"),
			cli.NewFlag("latency", "", "yaml file with opcode latencies"),
			cli.NewFlag("log", "stderr", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.FlagfileFlag,
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			parseCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	w, err := tlflag.OpenWriter(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	tlog.DefaultLogger = tlog.New(w)

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func graphAct(c *cli.Command) (err error) {
	if len(c.Args) == 0 {
		return errors.New("no input files")
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	lat, err := latencies(c.String("latency"))
	if err != nil {
		return err
	}

	var appendGraph func([]byte, *dag.Graph) []byte

	switch f := c.String("format"); f {
	case "text":
		appendGraph = format.Append
	case "table":
		appendGraph = format.AppendTable
	default:
		return errors.New("unsupported format: %q", f)
	}

	for _, a := range c.Args {
		g, err := compiler.AnalyzeFile(ctx, a, lat)
		if err != nil {
			return errors.Wrap(err, "analyze %v", a)
		}

		_, err = os.Stdout.Write(appendGraph(nil, g))
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		code, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		_, err = os.Stdout.Write(format.AppendCode(nil, code))
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func latencies(name string) (*ir.Latency, error) {
	if name == "" {
		return &ir.DefaultLatency, nil
	}

	cfg, err := config.Load(name)
	if err != nil {
		return nil, errors.Wrap(err, "load config %v", name)
	}

	lat, err := cfg.Latencies()
	if err != nil {
		return nil, errors.Wrap(err, "config %v", name)
	}

	return lat, nil
}
