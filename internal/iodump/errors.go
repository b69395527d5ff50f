package iodump

import "fmt"

// CreateDirError is returned when the dump directory cannot be
// created.
type CreateDirError struct {
	Path string
	Err  error
}

// NewCreateDirError creates a CreateDirError.
func NewCreateDirError(path string, err error) error {
	return &CreateDirError{Path: path, Err: err}
}

func (e *CreateDirError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Err)
}

func (e *CreateDirError) Unwrap() error { return e.Err }

// WriteError is returned when a dump file cannot be written.
type WriteError struct {
	Path string
	Err  error
}

// NewWriteError creates a WriteError.
func NewWriteError(path string, err error) error {
	return &WriteError{Path: path, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
