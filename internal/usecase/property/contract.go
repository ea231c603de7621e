package property

import (
	"context"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// Repository defines the storage contract for the property catalog.
type Repository interface {
	Save(ctx context.Context, name string, d domprop.Descriptor) error
	Get(ctx context.Context, name string) (domprop.Descriptor, error)
	Delete(ctx context.Context, name string) error
	Load(ctx context.Context) (domprop.Catalog, error)
}
