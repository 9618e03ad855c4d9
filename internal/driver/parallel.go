package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"incfix/internal/directive"
	"incfix/internal/logging"
	"incfix/internal/observ"
	"incfix/internal/plan"
	"incfix/internal/rewrite"
	"incfix/internal/source"
)

// Op selects the per-file edit.
type Op uint8

const (
	// OpInsert adds Target when it is missing.
	OpInsert Op = iota
	// OpFront moves Target in front of the first directive.
	OpFront
)

// StdinPath names standard input in a path list. Its result goes to
// Request.Stdout instead of replacing a file.
const StdinPath = "-"

func (o Op) String() string {
	if o == OpFront {
		return "front"
	}
	return "insert"
}

// Request describes one batch.
type Request struct {
	Op     Op
	Target directive.Target
	// Jobs bounds parallel files; <= 0 means GOMAXPROCS.
	Jobs    int
	Rewrite rewrite.Options
	// DryRun plans every file without writing anything.
	DryRun   bool
	Logger   *zap.Logger
	Progress ProgressSink
	// Stdin and Stdout serve StdinPath; nil means os.Stdin and os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path   string
	Plan   *plan.Plan // nil when the file could not be loaded
	Write  rewrite.Result
	Err    error
	Timing observ.Report
}

// Changed reports whether the file was rewritten.
func (r FileResult) Changed() bool { return r.Err == nil && r.Write.Changed }

// NoOp reports whether the plan left the file alone.
func (r FileResult) NoOp() bool { return r.Err == nil && r.Plan != nil && !r.Plan.Changes() }

// Run processes paths with at most req.Jobs files in flight. Each file is
// loaded, planned and rewritten on its own; a failing file is recorded in its
// FileResult and never stops the others. Duplicate paths are collapsed so two
// workers never replace the same file. The returned error is only set when
// ctx is cancelled; results are in input order (after dedup).
func Run(ctx context.Context, paths []string, req Request) ([]FileResult, error) {
	files := DedupPaths(paths)
	if len(files) == 0 {
		return nil, nil
	}

	log := logging.OrNop(req.Logger)
	sink := req.Progress
	if sink == nil {
		sink = nopSink{}
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		sink.OnEvent(Event{File: path, Status: StatusQueued})
	}

	// индекс i уникален для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = FileResult{Path: path, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			results[i] = processFile(path, req, log.With(zap.String("file", path)), sink)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// processFile runs load → plan → write for a single path.
// Every pass owns its FileSet, nothing is shared between workers.
func processFile(path string, req Request, log *zap.Logger, sink ProgressSink) (res FileResult) {
	res.Path = path
	started := time.Now()
	timer := observ.NewTimer()
	defer func() { res.Timing = timer.Report() }()

	fail := func(stage Stage, err error) FileResult {
		res.Err = err
		log.Debug("file failed", zap.String("stage", string(stage)), zap.Error(err))
		sink.OnEvent(Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}
	done := func(stage Stage, changed bool) FileResult {
		sink.OnEvent(Event{File: path, Stage: stage, Status: StatusDone, Changed: changed, Elapsed: time.Since(started)})
		return res
	}

	sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})
	idx := timer.Begin(string(StageLoad))
	file, err := load(path, req)
	timer.End(idx, "")
	if err != nil {
		return fail(StageLoad, &LoadError{Path: path, Err: err})
	}

	sink.OnEvent(Event{File: path, Stage: StagePlan, Status: StatusWorking})
	idx = timer.Begin(string(StagePlan))
	var p *plan.Plan
	switch req.Op {
	case OpFront:
		p = plan.MoveToFront(file, req.Target)
	default:
		p = plan.Insert(file, req.Target)
	}
	res.Plan = p
	timer.End(idx, p.Kind.String())
	log.Debug("planned", zap.String("op", req.Op.String()), zap.String("plan", p.Describe()),
		zap.Stringer("flags", file.Flags), zap.Int("size", len(file.Content)), zap.Int("expected", p.ExpectedSize()))

	if req.DryRun {
		// на диск не пишем, но размер проверяем так же, как при записи
		if _, err := rewrite.Verify(p); err != nil {
			return fail(StagePlan, err)
		}
		res.Write = rewrite.Result{Path: path}
		return done(StagePlan, false)
	}

	virtual := file.Flags&source.FileVirtual != 0
	if !p.Changes() && !virtual {
		res.Write = rewrite.Result{Path: path}
		return done(StagePlan, false)
	}

	sink.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusWorking})
	idx = timer.Begin(string(StageWrite))
	var out rewrite.Result
	if virtual {
		out, err = rewrite.Stream(p, stdoutOf(req))
	} else {
		out, err = rewrite.Apply(p, req.Rewrite)
	}
	timer.End(idx, "")
	res.Write = out
	if err != nil {
		return fail(StageWrite, err)
	}
	log.Debug("rewritten", zap.Int("bytes", out.Written), zap.Bool("stdout", virtual))
	return done(StageWrite, out.Changed)
}

// load reads path into a fresh FileSet; StdinPath becomes a virtual file.
func load(path string, req Request) (*source.File, error) {
	fileSet := source.NewFileSet()
	if path == StdinPath {
		in := req.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return fileSet.Get(fileSet.AddVirtual(path, data)), nil
	}
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	return fileSet.Get(id), nil
}

func stdoutOf(req Request) io.Writer {
	if req.Stdout != nil {
		return req.Stdout
	}
	return os.Stdout
}

// DedupPaths drops repeated paths, comparing cleaned absolute forms and
// keeping the first spelling. StdinPath is kept at most once.
func DedupPaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := p
		if p != StdinPath {
			key = filepath.Clean(p)
			if abs, err := filepath.Abs(key); err == nil {
				key = abs
			}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
