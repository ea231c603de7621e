package filter

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/propquery/internal/domain/property"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
)

// Param is a range query parameter key.
type Param string

// Bound kinds.
const (
	GT  Param = "gt"
	GTE Param = "gte"
	LT  Param = "lt"
	LTE Param = "lte"
)

// Pass-through range parameters understood by the backend.
const (
	Format   Param = "format"
	TimeZone Param = "time_zone"
	Relation Param = "relation"
	Boost    Param = "boost"
)

// IsBound reports whether p is one of gt/gte/lt/lte.
func (p Param) IsBound() bool {
	switch p {
	case GT, GTE, LT, LTE:
		return true
	}
	return false
}

// RangeOptions is an immutable set of range parameters. Boost is always present.
// Redundant bounds (gt with gte) are kept as given; the backend decides.
type RangeOptions struct {
	params map[Param]any
}

// newRangeOptions copies in and then sets boost, replacing any caller value.
func newRangeOptions(in map[Param]any, boost float64) RangeOptions {
	params := make(map[Param]any, len(in)+1)
	for k, v := range in {
		params[k] = v
	}
	params[Boost] = boost
	return RangeOptions{params: params}
}

// Get returns a single parameter.
func (o RangeOptions) Get(p Param) (any, bool) {
	v, ok := o.params[p]
	return v, ok
}

// Boost returns the boost parameter.
func (o RangeOptions) Boost() float64 {
	b, _ := o.params[Boost].(float64)
	return b
}

// Bounds returns the bound kinds present, sorted.
func (o RangeOptions) Bounds() []Param {
	var out []Param
	for p := range o.params {
		if p.IsBound() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of parameters including boost.
func (o RangeOptions) Len() int { return len(o.params) }

func (o RangeOptions) source() map[string]any {
	m := make(map[string]any, len(o.params))
	for k, v := range o.params {
		m[string(k)] = v
	}
	return m
}

// PropertyRange requires a property value to fall inside a range.
type PropertyRange struct {
	prop property.Property
	opts RangeOptions
}

var _ Filter = PropertyRange{}

// NewPropertyRange builds a range filter over ref.
// Named refs are wrapped with the configured resolver (property.Convention by default).
// A ref that is neither a name nor a valid Property fails with domain.ErrInvalidArgument.
func NewPropertyRange(ref property.Ref, opts map[Param]any, options ...Option) (PropertyRange, error) {
	cfg := newConfig(options)
	p, err := ref.Property(cfg.resolver)
	if err != nil {
		return PropertyRange{}, fmt.Errorf("property range: %w", err)
	}
	return PropertyRange{prop: p, opts: newRangeOptions(opts, cfg.boost)}, nil
}

// Property returns the filtered property.
func (f PropertyRange) Property() property.Property { return f.prop }

// Options returns the stored range parameters.
func (f PropertyRange) Options() RangeOptions { return f.opts }

// Query emits {bool: {must: [{range: {<field>: {...params, boost}}}]}}.
func (f PropertyRange) Query() (*query.Bool, error) {
	field, err := f.prop.FieldName()
	if err != nil {
		return nil, err
	}
	rq, err := query.NewRange(field, f.opts.source())
	if err != nil {
		return nil, err
	}
	b := query.NewBool()
	if err := b.Add(rq, query.Must); err != nil {
		return nil, err
	}
	return b, nil
}
