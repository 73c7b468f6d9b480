package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sched/compiler/dag"
	"github.com/slowlang/sched/compiler/ir"
	"github.com/slowlang/sched/compiler/parse"
	"github.com/slowlang/sched/compiler/sched"
)

func AnalyzeFile(ctx context.Context, name string, lat *ir.Latency) (*dag.Graph, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Analyze(ctx, name, text, lat)
}

func Analyze(ctx context.Context, name string, text []byte, lat *ir.Latency) (*dag.Graph, error) {
	code, err := parse.Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	g, err := sched.Analyze(ctx, code, lat)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	return g, nil
}
