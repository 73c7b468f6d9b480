package ir

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Op int

	// Operand is one register-shaped slot of an instruction.
	// Reg holds the constant for immediate slots.
	Operand struct {
		Reg   int
		IsReg bool
		First bool

		VR int
		PR int `tlog:",omitempty"`
		NU int `tlog:",omitempty"`
	}

	Instruction struct {
		Op   Op
		Src1 Operand
		Src2 Operand
		Dst  Operand

		Label int
		Line  int
	}
)

const (
	Load Op = iota
	LoadI
	Store
	Add
	Sub
	Mult
	LShift
	RShift
	Output
	Nop

	NumOps int = iota
)

// None marks an unassigned register, label or operand slot.
const None = -1

var opNames = [NumOps]string{
	Load:   "load",
	LoadI:  "loadI",
	Store:  "store",
	Add:    "add",
	Sub:    "sub",
	Mult:   "mult",
	LShift: "lshift",
	RShift: "rshift",
	Output: "output",
	Nop:    "nop",
}

func ParseOp(s string) (Op, bool) {
	for op, n := range opNames {
		if n == s {
			return Op(op), true
		}
	}

	return 0, false
}

func (op Op) String() string {
	if op < 0 || int(op) >= NumOps {
		return fmt.Sprintf("Op(%d)", int(op))
	}

	return opNames[op]
}

func (op Op) Arith() bool {
	switch op {
	case Add, Sub, Mult, LShift, RShift:
		return true
	}

	return false
}

func (op Op) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, op.String())
}

func NoOperand() Operand {
	return Operand{Reg: None, VR: None, PR: None, NU: None}
}

func RegOperand(r int) Operand {
	return Operand{Reg: r, IsReg: true, VR: None, PR: None, NU: None}
}

func ConstOperand(c int) Operand {
	return Operand{Reg: c, VR: None, PR: None, NU: None}
}

// New builds an instruction with unassigned label and virtual registers.
// Src1 is tagged as the first source slot.
func New(op Op, src1, src2, dst Operand) Instruction {
	src1.First = true

	return Instruction{
		Op:    op,
		Src1:  src1,
		Src2:  src2,
		Dst:   dst,
		Label: None,
	}
}

// Operands returns pointers to src1, src2 and dst in that order.
func (x *Instruction) Operands() [3]*Operand {
	return [3]*Operand{&x.Src1, &x.Src2, &x.Dst}
}

// MaxReg returns the highest architectural register used by code or -1.
func MaxReg(code []Instruction) (r int) {
	r = -1

	for i := range code {
		for _, o := range code[i].Operands() {
			if o.IsReg && o.Reg > r {
				r = o.Reg
			}
		}
	}

	return r
}
