package propquery

import (
	"context"
	"log/slog"
	"time"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// Property is a catalog entry together with the backend field it maps to.
type Property struct {
	Name  string
	ID    int
	Type  string
	Field string
}

func propertyFromDomain(name string, d domprop.Descriptor) Property {
	return Property{Name: name, ID: d.ID, Type: d.Type, Field: d.Field()}
}

// PropertyService manages the property catalog.
type PropertyService struct {
	svc propertyUseCase
	obs *observer
}

// Register stores or replaces the descriptor of a property.
func (s *PropertyService) Register(ctx context.Context, name string, id int, typ string) (_ Property, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "property.register", start, err, slog.String("property", name)) }()

	d, err := s.svc.Register(ctx, name, id, typ)
	if err != nil {
		return Property{}, err
	}
	return propertyFromDomain(name, d), nil
}

// Get returns a single property. Missing names fail with ErrNotFound.
func (s *PropertyService) Get(ctx context.Context, name string) (_ Property, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "property.get", start, err, slog.String("property", name)) }()

	d, err := s.svc.Get(ctx, name)
	if err != nil {
		return Property{}, err
	}
	return propertyFromDomain(name, d), nil
}

// List returns every registered property sorted by name.
func (s *PropertyService) List(ctx context.Context) (_ []Property, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "property.list", start, err) }()

	c, err := s.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	names := c.Names()
	out := make([]Property, 0, len(names))
	for _, name := range names {
		d, _ := c.Lookup(name)
		out = append(out, propertyFromDomain(name, d))
	}
	return out, nil
}

// Delete removes a property. Missing names fail with ErrNotFound.
func (s *PropertyService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "property.delete", start, err, slog.String("property", name)) }()

	return s.svc.Delete(ctx, name)
}
