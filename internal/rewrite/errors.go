package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeMismatch is matched by *SizeMismatchError.
	ErrSizeMismatch = errors.New("unexpected final size")
	// ErrModifiedSinceLoad is returned when the target changed on disk after it was planned.
	ErrModifiedSinceLoad = errors.New("file changed since it was read")
)

// SizeMismatchError reports a temp file whose size differs from the predicted one.
// The original file is left untouched.
type SizeMismatchError struct {
	Path     string
	Written  int
	Expected int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s: unexpected final size (%d vs. %d)", e.Path, e.Written, e.Expected)
}

func (e *SizeMismatchError) Is(target error) bool {
	return target == ErrSizeMismatch
}

// RenameError reports a failed replace of the original by the temp file.
type RenameError struct {
	Path     string
	TempPath string
	Err      error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("%s: replace failed: %v", e.Path, e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}
