package batch

import (
	"errors"
	"fmt"
)

var ErrOutputRoot = errors.New("cannot create output folder")

// SubfolderError is a row whose per-initial folder could not be created.
type SubfolderError struct {
	Dir string
	Err error
}

func (e *SubfolderError) Error() string {
	return fmt.Sprintf("create subfolder %s: %v", e.Dir, e.Err)
}

func (e *SubfolderError) Unwrap() error { return e.Err }

// ExportError is a row whose layer update or export failed.
type ExportError struct {
	Name string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %q: %v", e.Name, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ItemFailure records one row that was counted as failed.
type ItemFailure struct {
	Row  int
	Name string
	Err  error
}
