package compile

import (
	"github.com/kailas-cloud/propquery/internal/domain/search/filter"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
)

// Kind selects the filter built for a clause.
type Kind string

// Filter kinds.
const (
	KindRange  Kind = "range"
	KindValue  Kind = "value"
	KindExists Kind = "exists"
)

// Clause is one filter of a compile request.
type Clause struct {
	Occur    query.Occur // must, should or must_not; empty means must
	Kind     Kind
	Property string
	Range    map[filter.Param]any // KindRange only
	Value    any                  // KindValue only
	Boost    *float64             // nil means filter.DefaultBoost
}

// Request is a list of clauses compiled into one boolean query.
type Request struct {
	Clauses []Clause
}

// Result is a compiled query.
type Result struct {
	ID    string
	Query *query.Bool
	JSON  []byte
}
