package ioviews

import "fmt"

// Feature names carried by UnsupportedFeatureError.
const (
	FeatureMaterializedViews = "materialized views"
	FeatureConcurrentRefresh = "concurrent materialized view refreshes"
)

// UnsupportedFeatureError is returned when an operation needs a backend
// capability the connected server does not have. It is raised before any
// statement is sent, so a failed call leaves no partial side effects.
type UnsupportedFeatureError struct {
	Feature string
}

// NewUnsupportedFeatureError creates an UnsupportedFeatureError for the
// named feature.
func NewUnsupportedFeatureError(feature string) error {
	return &UnsupportedFeatureError{Feature: feature}
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf(
		"the connected database does not support %s", e.Feature,
	)
}
