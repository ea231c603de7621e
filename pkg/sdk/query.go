package propquery

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/kailas-cloud/propquery/internal/domain/search/filter"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
	compileuc "github.com/kailas-cloud/propquery/internal/usecase/compile"
)

// Clause is one filter of a query. Build clauses with Range, Value and Exists.
type Clause interface {
	clause() compileuc.Clause
}

// RangeClause matches documents whose property lies within the given bounds.
type RangeClause struct {
	property string
	bounds   map[filter.Param]any
	boost    *float64
}

// Range starts a range clause on property.
func Range(property string) *RangeClause {
	return &RangeClause{property: property, bounds: make(map[filter.Param]any, 2)}
}

// GT sets an exclusive lower bound.
func (r *RangeClause) GT(v any) *RangeClause { return r.set(filter.GT, v) }

// GTE sets an inclusive lower bound.
func (r *RangeClause) GTE(v any) *RangeClause { return r.set(filter.GTE, v) }

// LT sets an exclusive upper bound.
func (r *RangeClause) LT(v any) *RangeClause { return r.set(filter.LT, v) }

// LTE sets an inclusive upper bound.
func (r *RangeClause) LTE(v any) *RangeClause { return r.set(filter.LTE, v) }

// Format sets the date format used to parse the bounds.
func (r *RangeClause) Format(f string) *RangeClause { return r.set(filter.Format, f) }

// TimeZone sets the time zone applied to date bounds.
func (r *RangeClause) TimeZone(tz string) *RangeClause { return r.set(filter.TimeZone, tz) }

// Boost sets the relevance weight of the clause. Default: 1.
func (r *RangeClause) Boost(b float64) *RangeClause {
	r.boost = &b
	return r
}

func (r *RangeClause) set(p filter.Param, v any) *RangeClause {
	r.bounds[p] = v
	return r
}

func (r *RangeClause) clause() compileuc.Clause {
	return compileuc.Clause{Kind: compileuc.KindRange, Property: r.property, Range: maps.Clone(r.bounds), Boost: r.boost}
}

// ValueClause matches documents whose property equals a value.
type ValueClause struct {
	property string
	value    any
	boost    *float64
}

// Value starts an exact-match clause.
func Value(property string, v any) *ValueClause {
	return &ValueClause{property: property, value: v}
}

// Boost sets the relevance weight of the clause. Default: 1.
func (c *ValueClause) Boost(b float64) *ValueClause {
	c.boost = &b
	return c
}

func (c *ValueClause) clause() compileuc.Clause {
	return compileuc.Clause{Kind: compileuc.KindValue, Property: c.property, Value: c.value, Boost: c.boost}
}

// ExistsClause matches documents that carry the property at all.
type ExistsClause struct {
	property string
	boost    *float64
}

// Exists starts a presence clause.
func Exists(property string) *ExistsClause {
	return &ExistsClause{property: property}
}

// Boost sets the relevance weight of the clause. Default: 1.
func (c *ExistsClause) Boost(b float64) *ExistsClause {
	c.boost = &b
	return c
}

func (c *ExistsClause) clause() compileuc.Clause {
	return compileuc.Clause{Kind: compileuc.KindExists, Property: c.property, Boost: c.boost}
}

// CompiledQuery is a boolean query in the backend DSL.
type CompiledQuery struct {
	ID   string
	JSON []byte
}

// QueryBuilder is a fluent builder for boolean queries.
type QueryBuilder struct {
	client  *Client
	clauses []compileuc.Clause
}

// Must adds clauses every match has to satisfy.
func (b *QueryBuilder) Must(cs ...Clause) *QueryBuilder { return b.add(query.Must, cs) }

// Should adds clauses of which at least one has to match.
func (b *QueryBuilder) Should(cs ...Clause) *QueryBuilder { return b.add(query.Should, cs) }

// MustNot adds clauses no match may satisfy.
func (b *QueryBuilder) MustNot(cs ...Clause) *QueryBuilder { return b.add(query.MustNot, cs) }

func (b *QueryBuilder) add(o query.Occur, cs []Clause) *QueryBuilder {
	for _, c := range cs {
		cl := c.clause()
		cl.Occur = o
		b.clauses = append(b.clauses, cl)
	}
	return b
}

// Do resolves every property and compiles the query.
func (b *QueryBuilder) Do(ctx context.Context) (_ CompiledQuery, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe(ctx, "query.compile", start, err, slog.Int("clauses", len(b.clauses))) }()

	res, err := b.client.compiler.Compile(ctx, compileuc.Request{Clauses: b.clauses})
	if err != nil {
		return CompiledQuery{}, err
	}
	return CompiledQuery{ID: res.ID, JSON: res.JSON}, nil
}
