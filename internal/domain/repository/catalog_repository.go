package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

// CatalogRepository returns menu data already normalised to strict shapes.
type CatalogRepository interface {
	ListMenu(ctx context.Context) ([]entity.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
}
