package property

import (
	"errors"

	"github.com/kailas-cloud/propquery/internal/domain"
)

// Resolver maps a property name to the backend field it is indexed under.
type Resolver interface {
	ResolveField(name string) (string, error)
}

// Property is an immutable reference to a searchable field.
// Many filters may share the same Property.
type Property struct {
	name     string
	resolver Resolver
}

// New validates and creates a Property resolved through r.
func New(name string, r Resolver) (Property, error) {
	if name == "" {
		return Property{}, domain.InvalidArgument("property name is required")
	}
	if r == nil {
		return Property{}, domain.InvalidArgument("resolver is required for property %q", name)
	}
	return Property{name: name, resolver: r}, nil
}

// Name returns the property name.
func (p Property) Name() string { return p.name }

// IsValid reports whether the property was built through New.
func (p Property) IsValid() bool { return p.name != "" && p.resolver != nil }

// FieldName resolves the backend field name.
// Failures always unwrap to domain.ErrUnresolvedProperty.
func (p Property) FieldName() (string, error) {
	if !p.IsValid() {
		return "", domain.NewResolutionError(p.name, "property has no resolver")
	}
	field, err := p.resolver.ResolveField(p.name)
	if err != nil {
		if errors.Is(err, domain.ErrUnresolvedProperty) {
			return "", err
		}
		return "", domain.NewResolutionError(p.name, err.Error())
	}
	if field == "" {
		return "", domain.NewResolutionError(p.name, "empty field name")
	}
	return field, nil
}

type refKind uint8

const (
	refNone refKind = iota
	refNamed
	refResolved
)

// Ref points at a property either by name or by an already built Property.
// The zero Ref is invalid.
type Ref struct {
	kind refKind
	name string
	prop Property
}

// Named refers to a property by name. The name is wrapped into a Property
// when the filter is built.
func Named(name string) Ref { return Ref{kind: refNamed, name: name} }

// Resolved refers to an existing Property.
func Resolved(p Property) Ref { return Ref{kind: refResolved, prop: p} }

// Property turns the reference into a Property, wrapping names with r.
func (r Ref) Property(res Resolver) (Property, error) {
	switch r.kind {
	case refNamed:
		return New(r.name, res)
	case refResolved:
		if !r.prop.IsValid() {
			return Property{}, domain.InvalidArgument("resolved property is not initialized")
		}
		return r.prop, nil
	default:
		return Property{}, domain.InvalidArgument("property reference is empty")
	}
}

// String returns the referenced property name.
func (r Ref) String() string {
	if r.kind == refResolved {
		return r.prop.Name()
	}
	return r.name
}
