package iodb

import "fmt"

// ConnectionError is returned when the database connection fails.
type ConnectionError struct {
	Host     string
	Port     int
	Database string
	User     string
	Err      error
}

// NewConnectionError creates a connection error carrying the
// connection parameters that were used.
func NewConnectionError(
	host string, port int,
	database, user string,
	err error,
) error {
	return &ConnectionError{
		Host:     host,
		Port:     port,
		Database: database,
		User:     user,
		Err:      err,
	}
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf(
		"failed to connect to %s:%d/%s as %s: %v",
		e.Host, e.Port, e.Database, e.User, e.Err,
	)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NotConnectedError is returned when an operation requires an open
// pool but Connect was never called or Close already ran.
type NotConnectedError struct{}

// NewNotConnectedError creates a NotConnectedError.
func NewNotConnectedError() error {
	return &NotConnectedError{}
}

func (e *NotConnectedError) Error() string {
	return "database is not connected"
}

// VersionProbeError is returned when the server version query fails
// during Connect.
type VersionProbeError struct {
	Err error
}

// NewVersionProbeError creates a VersionProbeError.
func NewVersionProbeError(err error) error {
	return &VersionProbeError{Err: err}
}

func (e *VersionProbeError) Error() string {
	return fmt.Sprintf("failed to probe server version: %v", e.Err)
}

func (e *VersionProbeError) Unwrap() error { return e.Err }

// BeginError is returned when opening a transaction fails.
type BeginError struct {
	Err error
}

// NewBeginError creates a BeginError.
func NewBeginError(err error) error {
	return &BeginError{Err: err}
}

func (e *BeginError) Error() string {
	return fmt.Sprintf("failed to begin transaction: %v", e.Err)
}

func (e *BeginError) Unwrap() error { return e.Err }
