package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/propquery/internal/db"
	"github.com/kailas-cloud/propquery/internal/domain"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// store is the consumer interface for the property catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
}

// Repo keeps the property catalog in a single hash: field = name, value = descriptor JSON.
type Repo struct {
	store store
	key   string
}

// New creates a property catalog repository under keyPrefix.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, key: keyPrefix + "properties"}
}

// Save registers or replaces a property descriptor.
func (r *Repo) Save(ctx context.Context, name string, d domprop.Descriptor) error {
	v, err := descriptorToValue(d)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.key, map[string]string{name: v}); err != nil {
		return fmt.Errorf("save property %q: %w", name, err)
	}
	return nil
}

// Get returns a single descriptor.
func (r *Repo) Get(ctx context.Context, name string) (domprop.Descriptor, error) {
	v, err := r.store.HGet(ctx, r.key, name)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return domprop.Descriptor{}, fmt.Errorf("property %q: %w", name, domain.ErrNotFound)
		}
		return domprop.Descriptor{}, fmt.Errorf("get property %q: %w", name, err)
	}
	return descriptorFromValue(v)
}

// Delete removes a property. Missing properties yield domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, name string) error {
	n, err := r.store.HDel(ctx, r.key, name)
	if err != nil {
		return fmt.Errorf("delete property %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("property %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

// Load reads the whole catalog.
func (r *Repo) Load(ctx context.Context) (domprop.Catalog, error) {
	m, err := r.store.HGetAll(ctx, r.key)
	if err != nil {
		return domprop.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	entries := make(map[string]domprop.Descriptor, len(m))
	for name, v := range m {
		d, err := descriptorFromValue(v)
		if err != nil {
			return domprop.Catalog{}, fmt.Errorf("property %q: %w", name, err)
		}
		entries[name] = d
	}
	return domprop.NewCatalog(entries), nil
}
