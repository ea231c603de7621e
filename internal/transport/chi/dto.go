package chi

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/propquery/internal/domain/search/filter"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
	"github.com/kailas-cloud/propquery/internal/usecase/compile"
	"github.com/kailas-cloud/propquery/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnresolvedProperty ErrorCode = "unresolved_property"
	ErrorCodePropertyNotFound   ErrorCode = "property_not_found"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Property string    `json:"property,omitempty"`
}

// ClauseRequest is one filter of a compile request.
type ClauseRequest struct {
	Occur    string         `json:"occur,omitempty"`
	Kind     string         `json:"kind"`
	Property string         `json:"property"`
	Range    map[string]any `json:"range,omitempty"`
	Value    any            `json:"value,omitempty"`
	Boost    *float64       `json:"boost,omitempty"`
}

// CompileRequest is the body of POST /queries/compile.
type CompileRequest struct {
	Clauses []ClauseRequest `json:"clauses"`
}

// CompileResponse carries the compiled query DSL.
type CompileResponse struct {
	ID    string              `json:"id"`
	Query jsoniter.RawMessage `json:"query"`
}

// PropertyRequest is the body of PUT /properties/{name}.
type PropertyRequest struct {
	ID   *int   `json:"id"`
	Type string `json:"type"`
}

// PropertyResponse describes one catalog entry.
type PropertyResponse struct {
	Name  string `json:"name"`
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Field string `json:"field"`
}

// PropertyListResponse is the body of GET /properties.
type PropertyListResponse struct {
	Items []PropertyResponse `json:"items"`
	Total int                `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	Properties int               `json:"properties"`
	Build      version.Info      `json:"build"`
}

func (r CompileRequest) toDomain() compile.Request {
	clauses := make([]compile.Clause, len(r.Clauses))
	for i, c := range r.Clauses {
		var bounds map[filter.Param]any
		if c.Range != nil {
			bounds = make(map[filter.Param]any, len(c.Range))
			for k, v := range c.Range {
				bounds[filter.Param(k)] = v
			}
		}
		clauses[i] = compile.Clause{
			Occur:    query.Occur(c.Occur),
			Kind:     compile.Kind(c.Kind),
			Property: c.Property,
			Range:    bounds,
			Value:    c.Value,
			Boost:    c.Boost,
		}
	}
	return compile.Request{Clauses: clauses}
}
