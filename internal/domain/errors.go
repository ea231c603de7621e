package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals a filter argument that cannot be used to build a filter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnresolvedProperty signals a property that has no backend field.
	ErrUnresolvedProperty = errors.New("unresolved property")
)

// ResolutionError wraps ErrUnresolvedProperty with the property that failed to resolve.
type ResolutionError struct {
	Property string
	Reason   string
}

func (e *ResolutionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", ErrUnresolvedProperty.Error(), e.Property)
	}
	return fmt.Sprintf("%s: %q: %s", ErrUnresolvedProperty.Error(), e.Property, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return ErrUnresolvedProperty }

// NewResolutionError creates a resolution error for the named property.
func NewResolutionError(property, reason string) error {
	return &ResolutionError{Property: property, Reason: reason}
}

// InvalidArgument wraps ErrInvalidArgument with a message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
