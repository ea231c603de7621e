package compile

import (
	"context"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// CatalogLoader reads the current property catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (domprop.Catalog, error)
}
