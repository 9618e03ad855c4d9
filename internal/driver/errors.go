package driver

import (
	"errors"
	"fmt"
	"io/fs"
)

// LoadError reports a file that could not be read. The batch goes on.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	reason := e.Err
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		reason = pe.Err
	}
	return fmt.Sprintf("%s: can't open: %v", e.Path, reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
