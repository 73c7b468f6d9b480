package ir

import (
	"strconv"
)

func (x Instruction) String() string {
	return string(x.Append(nil))
}

// Append renders x in ILOC syntax. Registers renamed by the
// renamer are printed as vN, others as rN.
func (x Instruction) Append(b []byte) []byte {
	b = append(b, x.Op.String()...)

	switch x.Op {
	case Nop:
		return b
	case Output:
		b = pad(b, x.Op)

		return strconv.AppendInt(b, int64(x.Src1.Reg), 10)
	}

	b = pad(b, x.Op)
	b = x.Src1.Append(b)

	if x.Op.Arith() {
		b = append(b, ", "...)
		b = x.Src2.Append(b)
	}

	b = append(b, " => "...)

	if x.Op == Store {
		return x.Src2.Append(b)
	}

	return x.Dst.Append(b)
}

func (o Operand) Append(b []byte) []byte {
	switch {
	case !o.IsReg && o.Reg == None:
		return append(b, '-')
	case !o.IsReg:
		return strconv.AppendInt(b, int64(o.Reg), 10)
	case o.VR != None:
		b = append(b, 'v')
		return strconv.AppendInt(b, int64(o.VR), 10)
	default:
		b = append(b, 'r')
		return strconv.AppendInt(b, int64(o.Reg), 10)
	}
}

func (o Operand) String() string {
	return string(o.Append(nil))
}

func pad(b []byte, op Op) []byte {
	const spaces = "        "

	return append(b, spaces[:8-len(op.String())]...)
}
