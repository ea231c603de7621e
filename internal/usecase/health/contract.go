package health

import (
	"context"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogLoader reads the property catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (domprop.Catalog, error)
}
