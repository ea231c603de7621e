package filter

import (
	"fmt"

	"github.com/kailas-cloud/propquery/internal/domain"
	"github.com/kailas-cloud/propquery/internal/domain/property"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
)

// MaxFiltersPerGroup is the maximum number of filters per expression group.
const MaxFiltersPerGroup = 32

// DefaultBoost is the boost applied when WithBoost is not given.
const DefaultBoost = 1.0

// Filter converts itself into a boolean query node.
type Filter interface {
	Query() (*query.Bool, error)
}

type config struct {
	boost    float64
	resolver property.Resolver
}

// Option configures filter construction.
type Option func(*config)

// WithBoost sets the relevance boost.
func WithBoost(b float64) Option {
	return func(c *config) { c.boost = b }
}

// WithResolver sets the resolver used to wrap named property refs.
func WithResolver(r property.Resolver) Option {
	return func(c *config) {
		if r != nil {
			c.resolver = r
		}
	}
}

func newConfig(opts []Option) config {
	c := config{boost: DefaultBoost, resolver: property.Convention{}}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Expression composes filters with must/should/must_not boolean semantics.
type Expression struct {
	must    []Filter
	should  []Filter
	mustNot []Filter
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Filter) (Expression, error) {
	groups := []struct {
		name    string
		filters []Filter
	}{
		{"must", must},
		{"should", should},
		{"must_not", mustNot},
	}
	for _, g := range groups {
		if len(g.filters) > MaxFiltersPerGroup {
			return Expression{}, domain.InvalidArgument("too many %s filters (max %d)", g.name, MaxFiltersPerGroup)
		}
		for i, f := range g.filters {
			if f == nil {
				return Expression{}, domain.InvalidArgument("%s filter %d is nil", g.name, i)
			}
		}
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must filters.
func (e Expression) Must() []Filter { return e.must }

// Should returns the should filters.
func (e Expression) Should() []Filter { return e.should }

// MustNot returns the must-not filters.
func (e Expression) MustNot() []Filter { return e.mustNot }

// IsEmpty reports whether the expression has no filters.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Query merges every filter's boolean node into one parent node.
// When should filters are present at least one of them has to match.
func (e Expression) Query() (*query.Bool, error) {
	b := query.NewBool()
	if err := addGroup(b, query.Must, e.must); err != nil {
		return nil, err
	}
	if err := addGroup(b, query.Should, e.should); err != nil {
		return nil, err
	}
	if err := addGroup(b, query.MustNot, e.mustNot); err != nil {
		return nil, err
	}
	if len(e.should) > 0 {
		b.SetMinimumShouldMatch(1)
	}
	return b, nil
}

func addGroup(b *query.Bool, o query.Occur, filters []Filter) error {
	for i, f := range filters {
		q, err := f.Query()
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", o, i, err)
		}
		if err := b.Add(q, o); err != nil {
			return err
		}
	}
	return nil
}
