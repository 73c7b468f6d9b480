package ir

import "tlog.app/go/errors"

// Latency is a per-opcode cost in cycles.
type Latency [NumOps]int

var DefaultLatency = Latency{
	Load:   3,
	LoadI:  1,
	Store:  3,
	Add:    1,
	Sub:    1,
	Mult:   2,
	LShift: 1,
	RShift: 1,
	Output: 1,
}

func (l *Latency) Of(op Op) int {
	return l[op]
}

// Check makes sure every opcode which can become a graph node costs
// at least one cycle. Zero weight means "not computed yet".
func (l *Latency) Check() error {
	for op, c := range l {
		if Op(op) == Nop {
			continue
		}

		if c < 1 {
			return errors.New("latency of %v: %d < 1", Op(op), c)
		}
	}

	return nil
}
