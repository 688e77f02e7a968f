package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
)

type catalogRepository struct {
	client *Client
}

// NewCatalogRepository reads menu data from GET /menu and GET /categories.
func NewCatalogRepository(client *Client) repository.CatalogRepository {
	return &catalogRepository{client: client}
}

func (r *catalogRepository) ListMenu(ctx context.Context) ([]entity.MenuItem, error) {
	var raw any
	if _, err := r.client.do(ctx, http.MethodGet, "/menu", nil, nil, &raw); err != nil {
		return nil, err
	}

	rows := asList(raw, "menu", "items", "data")
	items := make([]entity.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, normalizeMenuItem(row))
	}
	return items, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	var raw any
	if _, err := r.client.do(ctx, http.MethodGet, "/categories", nil, nil, &raw); err != nil {
		return nil, err
	}

	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries, _ = v["categories"].([]any)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := normalizeCategory(e); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
