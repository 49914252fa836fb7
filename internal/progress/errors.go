package progress

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by ParseAddInput for input the add form rejects.
var ErrInvalidInput = errors.New("invalid input")

// NotFoundError indicates the backing file does not exist. The document is
// never scaffolded, so this is fatal at startup.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("progress file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// CorruptDataError indicates the backing file could not be parsed or does
// not match the document schema.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt progress file %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }
