package rewrite

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"incfix/internal/plan"
)

// Options configures how a rewrite is committed.
type Options struct {
	// CheckUnchanged re-reads the target right before the rename and refuses
	// to replace it when its hash differs from the one taken at load time.
	CheckUnchanged bool
	// WrapWriter, when set, wraps the temp file writer. Tests use it to
	// simulate short writes.
	WrapWriter func(io.Writer) io.Writer
}

// Result describes one committed (or skipped) rewrite.
type Result struct {
	Path    string
	Changed bool
	Written int
}

// Apply executes p. No-op plans return immediately without touching the disk.
func Apply(p *plan.Plan, opts Options) (Result, error) {
	res := Result{Path: p.File.Path}
	if !p.Changes() {
		return res, nil
	}

	var guard func() error
	if opts.CheckUnchanged {
		guard = func() error { return ensureUnchanged(p) }
	}
	written, err := writeAtomic(p.File.Path, p.File.Mode, p.Segments(), p.ExpectedSize(), guard, opts)
	res.Written = written
	if err != nil {
		return res, err
	}
	res.Changed = true
	return res, nil
}

// WriteFile atomically replaces path with content.
func WriteFile(path string, content []byte, mode os.FileMode) error {
	_, err := writeAtomic(path, mode, [][]byte{content}, len(content), nil, Options{})
	return err
}

// writeAtomic writes segments into a temp file next to path and renames it
// over path once the byte count matches expected. On any failure the temp
// file is removed and path keeps its old content.
func writeAtomic(path string, mode os.FileMode, segments [][]byte, expected int, guard func() error, opts Options) (written int, err error) {
	// temp рядом с целевым файлом: rename остаётся в пределах одной ФС
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%s: create temp file: %w", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	var w io.Writer = tmp
	if opts.WrapWriter != nil {
		w = opts.WrapWriter(tmp)
	}
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		n, werr := w.Write(seg)
		written += n
		if werr != nil {
			return written, fmt.Errorf("%s: write temp file: %w", path, werr)
		}
	}
	if written != expected {
		return written, &SizeMismatchError{Path: path, Written: written, Expected: expected}
	}

	if err := tmp.Sync(); err != nil {
		return written, fmt.Errorf("%s: sync temp file: %w", path, err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return written, fmt.Errorf("%s: stat temp file: %w", path, err)
	}
	if info.Size() != int64(expected) {
		return written, &SizeMismatchError{Path: path, Written: int(info.Size()), Expected: expected}
	}
	if mode != 0 {
		if err := tmp.Chmod(mode); err != nil {
			return written, fmt.Errorf("%s: chmod temp file: %w", path, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return written, fmt.Errorf("%s: close temp file: %w", path, err)
	}

	if guard != nil {
		if err := guard(); err != nil {
			return written, err
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return written, &RenameError{Path: path, TempPath: tmpName, Err: err}
	}
	committed = true
	return written, nil
}

func ensureUnchanged(p *plan.Plan) error {
	// #nosec G304 -- path comes from the loaded file
	current, err := os.ReadFile(p.File.Path)
	if err != nil {
		return fmt.Errorf("%s: re-read before replace: %w", p.File.Path, err)
	}
	if len(current) != len(p.File.Content) || sha256.Sum256(current) != p.File.Hash {
		return fmt.Errorf("%s: %w", p.File.Path, ErrModifiedSinceLoad)
	}
	return nil
}

// Render returns the content p would write, without touching the disk.
func Render(p *plan.Plan) []byte {
	return bytes.Join(p.Segments(), nil)
}

// Verify renders p in memory and checks the result against ExpectedSize.
func Verify(p *plan.Plan) ([]byte, error) {
	out := Render(p)
	if len(out) != p.ExpectedSize() {
		return nil, &SizeMismatchError{Path: p.File.Path, Written: len(out), Expected: p.ExpectedSize()}
	}
	return out, nil
}

// Stream writes the content p produces to w instead of replacing the file.
// No-op plans copy the original content, so Stream works as a filter.
func Stream(p *plan.Plan, w io.Writer) (Result, error) {
	res := Result{Path: p.File.Path}
	out, err := Verify(p)
	if err != nil {
		return res, err
	}
	n, err := w.Write(out)
	res.Written = n
	if err != nil {
		return res, fmt.Errorf("%s: write output: %w", p.File.Path, err)
	}
	if n != len(out) {
		return res, &SizeMismatchError{Path: p.File.Path, Written: n, Expected: len(out)}
	}
	res.Changed = p.Changes()
	return res, nil
}
