package iologger

import "fmt"

// LogFileError is returned when the log file cannot be created.
type LogFileError struct {
	Path string
	Err  error
}

// NewLogFileError creates a LogFileError.
func NewLogFileError(path string, err error) error {
	return &LogFileError{Path: path, Err: err}
}

func (e *LogFileError) Error() string {
	return fmt.Sprintf("failed to create log file %s: %v", e.Path, e.Err)
}

func (e *LogFileError) Unwrap() error { return e.Err }
