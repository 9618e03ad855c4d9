package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"incfix/internal/directive"
	"incfix/internal/driver"
	"incfix/internal/plan"
	"incfix/internal/source"
	"incfix/internal/ui"
)

var (
	noticeColor = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed, color.Bold)
	planColor   = color.New(color.FgCyan)
)

// reporter prints per-file outcomes. Notices and errors go to errOut,
// explanations and dry-run plans to out. Stdout carries the filtered text
// when stdin is edited, so that file reports on errOut only.
type reporter struct {
	out      io.Writer
	errOut   io.Writer
	quiet    bool
	align    int
	dryRun   bool
	pathMode string
	log      *zap.Logger
}

func (r *reporter) report(op driver.Op, target directive.Target, res driver.FileResult) {
	out := r.out
	if res.Path == driver.StdinPath {
		out = r.errOut
	}
	name := r.displayPath(res.Path)
	switch {
	case res.Err != nil:
		printError(r.errOut, res.Err)
	case res.Plan == nil:
		return
	case !res.Plan.Changes():
		r.notice(op, target, name, res)
	case r.dryRun:
		planColor.Fprintf(out, "%s: %s\n", name, res.Plan.Describe())
		if anchor := res.Plan.Anchor(); anchor != "" {
			fmt.Fprintf(out, "    before: %s\n", anchor)
		}
	case res.Changed() && target.Explanation != "":
		fmt.Fprintf(out, "%s %s\n", ui.PadRight(name, r.align), target.Explanation)
	}
}

func (r *reporter) displayPath(path string) string {
	if path == driver.StdinPath {
		return "<stdin>"
	}
	return source.FormatPath(path, r.pathMode, "")
}

func (r *reporter) notice(op driver.Op, target directive.Target, name string, res driver.FileResult) {
	var msg string
	switch res.Plan.Reason {
	case plan.ReasonAlreadyPresent:
		msg = fmt.Sprintf("%s: %s already there", name, target.Text)
	case plan.ReasonNoDirectives:
		msg = fmt.Sprintf("%s: No headers found.", name)
	case plan.ReasonNotPresent:
		msg = fmt.Sprintf("%s: Not having %s", name, target.Text)
	default:
		// уже на месте: молчим
		r.log.Debug("left unchanged", zap.String("file", res.Path), zap.String("op", op.String()),
			zap.Stringer("reason", res.Plan.Reason))
		return
	}
	if r.quiet {
		return
	}
	noticeColor.Fprintln(r.errOut, msg)
}

func printError(w io.Writer, err error) {
	errorColor.Fprintln(w, err.Error())
}
