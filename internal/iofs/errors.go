package iofs

import "fmt"

// CreateDirError is returned when one of the application directories
// cannot be created.
type CreateDirError struct {
	Dir string
	Err error
}

// NewCreateDirError creates a CreateDirError.
func NewCreateDirError(dir string, err error) error {
	return &CreateDirError{Dir: dir, Err: err}
}

func (e *CreateDirError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Dir, e.Err)
}

func (e *CreateDirError) Unwrap() error { return e.Err }

// CopyFileError is returned when an embedded template cannot be
// written to its destination.
type CopyFileError struct {
	Path string
	Err  error
}

// NewCopyFileError creates a CopyFileError.
func NewCopyFileError(path string, err error) error {
	return &CopyFileError{Path: path, Err: err}
}

func (e *CopyFileError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *CopyFileError) Unwrap() error { return e.Err }
