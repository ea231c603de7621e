package query

import "fmt"

// Range is a leaf condition asserting a field lies within bounds.
type Range struct {
	field  string
	params map[string]any
}

// NewRange creates a range condition. params are copied.
func NewRange(field string, params map[string]any) (*Range, error) {
	if field == "" {
		return nil, fmt.Errorf("range field is required")
	}
	p := make(map[string]any, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Range{field: field, params: p}, nil
}

// Field returns the field name.
func (r *Range) Field() string { return r.field }

// Param returns a single range parameter.
func (r *Range) Param(key string) (any, bool) {
	v, ok := r.params[key]
	return v, ok
}

// Source implements Node.
func (r *Range) Source() (any, error) {
	p := make(map[string]any, len(r.params))
	for k, v := range r.params {
		p[k] = v
	}
	return map[string]any{"range": map[string]any{r.field: p}}, nil
}

// Term is a leaf condition matching an exact value.
type Term struct {
	field string
	value any
	boost float64
}

// NewTerm creates a term condition.
func NewTerm(field string, value any, boost float64) (*Term, error) {
	if field == "" {
		return nil, fmt.Errorf("term field is required")
	}
	if value == nil {
		return nil, fmt.Errorf("term value is required for field %q", field)
	}
	return &Term{field: field, value: value, boost: boost}, nil
}

// Source implements Node.
func (t *Term) Source() (any, error) {
	return map[string]any{"term": map[string]any{
		t.field: map[string]any{"value": t.value, "boost": t.boost},
	}}, nil
}

// Exists matches documents that have any value for a field.
type Exists struct {
	field string
}

// NewExists creates an exists condition.
func NewExists(field string) (*Exists, error) {
	if field == "" {
		return nil, fmt.Errorf("exists field is required")
	}
	return &Exists{field: field}, nil
}

// Source implements Node.
func (e *Exists) Source() (any, error) {
	return map[string]any{"exists": map[string]any{"field": e.field}}, nil
}
