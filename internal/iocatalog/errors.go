package iocatalog

import "fmt"

// IntrospectionError is returned when a catalog query or row scan
// fails. Op names the lookup; Object is the relation it targeted, if
// any.
type IntrospectionError struct {
	Op     string
	Object string
	Err    error
}

// NewIntrospectionError creates an IntrospectionError.
func NewIntrospectionError(op, object string, err error) error {
	return &IntrospectionError{Op: op, Object: object, Err: err}
}

func (e *IntrospectionError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("introspection failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf(
		"introspection failed: %s on %q: %v", e.Op, e.Object, e.Err,
	)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }
