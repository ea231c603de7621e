package filter

import (
	"fmt"

	"github.com/kailas-cloud/propquery/internal/domain"
	"github.com/kailas-cloud/propquery/internal/domain/property"
	"github.com/kailas-cloud/propquery/internal/domain/search/query"
)

// PropertyValue requires a property to hold an exact value.
type PropertyValue struct {
	prop  property.Property
	value any
	boost float64
}

var _ Filter = PropertyValue{}

// NewPropertyValue builds a term filter over ref.
func NewPropertyValue(ref property.Ref, value any, options ...Option) (PropertyValue, error) {
	cfg := newConfig(options)
	p, err := ref.Property(cfg.resolver)
	if err != nil {
		return PropertyValue{}, fmt.Errorf("property value: %w", err)
	}
	if value == nil {
		return PropertyValue{}, fmt.Errorf("property value: %w",
			domain.InvalidArgument("value is required for property %q", p.Name()))
	}
	return PropertyValue{prop: p, value: value, boost: cfg.boost}, nil
}

// Property returns the filtered property.
func (f PropertyValue) Property() property.Property { return f.prop }

// Value returns the matched value.
func (f PropertyValue) Value() any { return f.value }

// Query emits {bool: {must: [{term: {<field>: {value, boost}}}]}}.
func (f PropertyValue) Query() (*query.Bool, error) {
	field, err := f.prop.FieldName()
	if err != nil {
		return nil, err
	}
	tq, err := query.NewTerm(field, f.value, f.boost)
	if err != nil {
		return nil, err
	}
	b := query.NewBool()
	if err := b.Add(tq, query.Must); err != nil {
		return nil, err
	}
	return b, nil
}

// HasProperty requires a property to have any value.
type HasProperty struct {
	prop property.Property
}

var _ Filter = HasProperty{}

// NewHasProperty builds an exists filter over ref.
func NewHasProperty(ref property.Ref, options ...Option) (HasProperty, error) {
	cfg := newConfig(options)
	p, err := ref.Property(cfg.resolver)
	if err != nil {
		return HasProperty{}, fmt.Errorf("has property: %w", err)
	}
	return HasProperty{prop: p}, nil
}

// Property returns the filtered property.
func (f HasProperty) Property() property.Property { return f.prop }

// Query emits {bool: {must: [{exists: {field}}]}}.
func (f HasProperty) Query() (*query.Bool, error) {
	field, err := f.prop.FieldName()
	if err != nil {
		return nil, err
	}
	eq, err := query.NewExists(field)
	if err != nil {
		return nil, err
	}
	b := query.NewBool()
	if err := b.Add(eq, query.Must); err != nil {
		return nil, err
	}
	return b, nil
}
