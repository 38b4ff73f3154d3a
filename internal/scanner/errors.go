package scanner

import (
	"errors"
	"fmt"
)

// Fatal scan errors. Scan returns them wrapped with the offending path.
var (
	ErrRootNotFound = errors.New("scan root does not exist")
	ErrRootNotDir   = errors.New("scan root is not a directory")
)

// EntryError records a directory or entry that could not be read. The scan
// skips it and continues.
type EntryError struct {
	Path string
	Op   string // "readdir" or "lstat"
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
