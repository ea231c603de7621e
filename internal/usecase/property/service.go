package property

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/propquery/internal/domain"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// MaxNameLength bounds property names.
const MaxNameLength = 255

// Service manages the property catalog.
type Service struct {
	repo Repository
}

// New creates a property service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates and stores a property descriptor.
func (s *Service) Register(ctx context.Context, name string, id int, typ string) (domprop.Descriptor, error) {
	if name == "" {
		return domprop.Descriptor{}, domain.InvalidArgument("property name is required")
	}
	if len(name) > MaxNameLength {
		return domprop.Descriptor{}, domain.InvalidArgument("property name too long (max %d)", MaxNameLength)
	}
	d, err := domprop.NewDescriptor(id, typ)
	if err != nil {
		return domprop.Descriptor{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	if err := s.repo.Save(ctx, name, d); err != nil {
		return domprop.Descriptor{}, fmt.Errorf("register property: %w", err)
	}
	return d, nil
}

// Get returns a single descriptor.
func (s *Service) Get(ctx context.Context, name string) (domprop.Descriptor, error) {
	d, err := s.repo.Get(ctx, name)
	if err != nil {
		return domprop.Descriptor{}, fmt.Errorf("get property: %w", err)
	}
	return d, nil
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) (domprop.Catalog, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return domprop.Catalog{}, fmt.Errorf("list properties: %w", err)
	}
	return c, nil
}

// Delete removes a property.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}
