package parse

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/ir"
)

type (
	// Error is a syntax error at a position in the input.
	// Line and Col are 1-based.
	Error struct {
		File string
		Line int
		Col  int
		Msg  string
	}

	state struct {
		name string
		tr   tlog.Span

		line int
	}
)

func ParseFile(ctx context.Context, name string) ([]ir.Instruction, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, text)
}

// Parse reads ILOC text, one instruction per line.
// The first syntax error stops parsing and is returned as *Error.
func Parse(ctx context.Context, name string, text []byte) (code []ir.Instruction, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	s := &state{name: name, tr: tr}

	for st := 0; st < len(text); {
		end := Newline.Until(text, st)

		s.line++

		x, ok, err := s.parseLine(text[st:end])
		if err != nil {
			return nil, err
		}

		if ok {
			x.Line = s.line
			code = append(code, x)
		}

		st = end
		if st < len(text) {
			st++
		}
	}

	tr.Printw("parsed", "lines", s.line, "instructions", len(code))

	return code, nil
}

func (s *state) parseLine(b []byte) (x ir.Instruction, ok bool, err error) {
	i := Blank.Skip(b, 0)

	if i == len(b) || b[i] == '/' {
		return x, false, s.comment(b, i)
	}

	op, i, err := s.opcode(b, i)
	if err != nil {
		return x, false, err
	}

	src1, src2, dst := ir.NoOperand(), ir.NoOperand(), ir.NoOperand()

	switch op {
	case ir.Load:
		src1, i, err = s.reg(b, i)
		if err == nil {
			i, err = s.arrow(b, i)
		}
		if err == nil {
			dst, i, err = s.reg(b, i)
		}
	case ir.LoadI:
		src1, i, err = s.constant(b, i)
		if err == nil {
			i, err = s.arrow(b, i)
		}
		if err == nil {
			dst, i, err = s.reg(b, i)
		}
	case ir.Store:
		src1, i, err = s.reg(b, i)
		if err == nil {
			i, err = s.arrow(b, i)
		}
		if err == nil {
			src2, i, err = s.reg(b, i)
		}
	case ir.Output:
		src1, i, err = s.constant(b, i)
	case ir.Nop:
	default:
		src1, i, err = s.reg(b, i)
		if err == nil {
			i, err = s.punct(b, i, ",", "comma to separate register arguments")
		}
		if err == nil {
			src2, i, err = s.reg(b, i)
		}
		if err == nil {
			i, err = s.arrow(b, i)
		}
		if err == nil {
			dst, i, err = s.reg(b, i)
		}
	}
	if err != nil {
		return x, false, err
	}

	i = Blank.Skip(b, i)

	if i < len(b) && b[i] != '/' {
		return x, false, s.errorf(i, "unexpected %q after %v operands", b[i], op)
	}

	err = s.comment(b, i)
	if err != nil {
		return x, false, err
	}

	x = ir.New(op, src1, src2, dst)

	s.tr.V("tokens").Printw("instruction", "line", s.line, "op", op, "src1", src1, "src2", src2, "dst", dst)

	return x, true, nil
}

func (s *state) opcode(b []byte, st int) (op ir.Op, i int, err error) {
	i = st

	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z') {
		i++
	}

	if i == st {
		return op, st, s.errorf(st, "expected instruction opcode")
	}

	op, ok := ir.ParseOp(string(b[st:i]))
	if !ok {
		return op, st, s.errorf(st, "unknown opcode %q", b[st:i])
	}

	if i < len(b) && !Blank.Is(b[i]) && !(op == ir.Nop && b[i] == '/') {
		return op, i, s.errorf(i, "no whitespace following opcode %v", op)
	}

	if op != ir.Nop && Blank.Skip(b, i) == len(b) {
		return op, i, s.errorf(i, "missing operands for %v", op)
	}

	return op, Blank.Skip(b, i), nil
}

func (s *state) reg(b []byte, st int) (o ir.Operand, i int, err error) {
	if st == len(b) || b[st] != 'r' {
		return o, st, s.errorf(st, "expected register")
	}

	n, i, err := s.number(b, st+1, "expected register number")
	if err != nil {
		return o, i, err
	}

	return ir.RegOperand(n), Blank.Skip(b, i), nil
}

func (s *state) constant(b []byte, st int) (o ir.Operand, i int, err error) {
	n, i, err := s.number(b, st, "expected numerical constant")
	if err != nil {
		return o, i, err
	}

	return ir.ConstOperand(n), Blank.Skip(b, i), nil
}

func (s *state) number(b []byte, st int, what string) (n int, i int, err error) {
	const maxInt = int(^uint32(0) >> 1)

	i = st

	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int(b[i]-'0')
		if n > maxInt {
			return 0, st, s.errorf(st, "number is too big")
		}

		i++
	}

	if i == st {
		return 0, st, s.errorf(st, "%s", what)
	}

	return n, i, nil
}

func (s *state) arrow(b []byte, st int) (int, error) {
	return s.punct(b, st, "=>", "assignment arrow")
}

func (s *state) punct(b []byte, st int, p, what string) (i int, err error) {
	if len(b)-st < len(p) || string(b[st:st+len(p)]) != p {
		return st, s.errorf(st, "expected %s", what)
	}

	return Blank.Skip(b, st+len(p)), nil
}

func (s *state) comment(b []byte, st int) error {
	if st == len(b) {
		return nil
	}

	if st+1 < len(b) && b[st] == '/' && b[st+1] == '/' {
		return nil
	}

	return s.errorf(st, "invalid '/': expected comment")
}

func (s *state) errorf(col int, format string, args ...any) error {
	return &Error{
		File: s.name,
		Line: s.line,
		Col:  col + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}
