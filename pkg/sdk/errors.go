package propquery

import "github.com/kailas-cloud/propquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidArgument    = domain.ErrInvalidArgument
	ErrUnresolvedProperty = domain.ErrUnresolvedProperty
)

// ResolutionError names the property that could not be mapped to a backend field.
// Use errors.As() to extract it.
type ResolutionError = domain.ResolutionError
