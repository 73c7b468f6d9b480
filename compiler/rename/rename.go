package rename

import (
	"fmt"

	"tlog.app/go/loc"

	"github.com/slowlang/sched/compiler/ir"
)

type (
	// BoundError is returned when a register operand lies outside
	// the register range the caller computed for the code.
	// It means the caller broke the contract, the run must stop.
	BoundError struct {
		Index  int
		Reg    int
		MaxReg int

		PC loc.PC
	}

	renamer struct {
		cur  []int // architectural -> virtual
		next int
	}
)

// Rename assigns virtual registers to every register operand of code
// in place, so that two operands share a virtual register iff they
// name the same value. maxReg is the highest architectural register
// in code. It returns the number of virtual registers used.
//
// Code is walked backwards: a definition closes the live range
// opened by later uses, a use with no open range starts a new one.
func Rename(code []ir.Instruction, maxReg int) (int, error) {
	r := renamer{
		cur: make([]int, maxReg+1),
	}

	for i := range r.cur {
		r.cur[i] = ir.None
	}

	for i := len(code) - 1; i >= 0; i-- {
		x := &code[i]

		if x.Dst.IsReg {
			if err := r.resolve(i, &x.Dst); err != nil {
				return r.next, err
			}

			r.cur[x.Dst.Reg] = ir.None
		}

		for _, o := range []*ir.Operand{&x.Src1, &x.Src2} {
			if !o.IsReg {
				continue
			}

			if err := r.resolve(i, o); err != nil {
				return r.next, err
			}
		}
	}

	return r.next, nil
}

func (r *renamer) resolve(i int, o *ir.Operand) error {
	if o.Reg < 0 || o.Reg >= len(r.cur) {
		return &BoundError{Index: i, Reg: o.Reg, MaxReg: len(r.cur) - 1, PC: loc.Caller(2)}
	}

	if r.cur[o.Reg] == ir.None {
		r.cur[o.Reg] = r.next
		r.next++
	}

	o.VR = r.cur[o.Reg]

	return nil
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("instruction %d: register r%d out of range 0..%d", e.Index, e.Reg, e.MaxReg)
}
