package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
)

// Menu grid filter values.
const (
	CategoryAll        = "all"
	CategoryFavourites = "__favs__"

	VegAll     = "all"
	VegOnly    = "veg"
	NonVegOnly = "nonveg"
)

// CatalogFilter narrows the menu grid.
type CatalogFilter struct {
	Category string `form:"category"`
	Veg      string `form:"veg"`
	Search   string `form:"search"`
}

// CatalogService keeps the last good menu snapshot in memory. A failed
// refresh keeps serving the previous snapshot.
type CatalogService struct {
	catalogRepo   repository.CatalogRepository
	favouriteRepo repository.FavouriteRepository
	log           *logger.Logger
	now           func() time.Time

	mu      sync.RWMutex
	catalog *entity.Catalog
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	favouriteRepo repository.FavouriteRepository,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		catalogRepo:   catalogRepo,
		favouriteRepo: favouriteRepo,
		log:           log,
		now:           time.Now,
		catalog:       &entity.Catalog{Items: []entity.MenuItem{}, Categories: []string{}},
	}
}

// Load fetches menu and categories and swaps in the new snapshot only if
// both calls succeed.
func (s *CatalogService) Load(ctx context.Context) (*entity.Catalog, error) {
	requestID := logger.RequestID(ctx)

	items, err := s.catalogRepo.ListMenu(ctx)
	if err != nil {
		s.log.Warn("catalog_load", requestID, "menu fetch failed, keeping previous snapshot", err)
		return s.Snapshot(), apperror.ErrCatalogUnavailable
	}
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		s.log.Warn("catalog_load", requestID, "category fetch failed, keeping previous snapshot", err)
		return s.Snapshot(), apperror.ErrCatalogUnavailable
	}

	if items == nil {
		items = []entity.MenuItem{}
	}
	if categories == nil {
		categories = []string{}
	}
	next := &entity.Catalog{Items: items, Categories: categories, LoadedAt: s.now().UTC()}

	s.mu.Lock()
	s.catalog = next
	s.mu.Unlock()

	s.log.Debug("catalog_load", requestID, "catalog refreshed")
	return next, nil
}

// Snapshot returns the current catalog. Snapshots are never mutated after
// they are stored, so the pointer is safe to share.
func (s *CatalogService) Snapshot() *entity.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Lookup resolves a menu item by id from the current snapshot.
func (s *CatalogService) Lookup(id string) (entity.MenuItem, error) {
	item, ok := s.Snapshot().Find(id)
	if !ok {
		return entity.MenuItem{}, apperror.ErrMenuItemNotFound
	}
	return item, nil
}

// Filter returns the items matching the category, veg and search filters.
func (s *CatalogService) Filter(ctx context.Context, f CatalogFilter) ([]entity.MenuItem, error) {
	var favourites map[string]bool
	if f.Category == CategoryFavourites {
		ids, err := s.favouriteRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		favourites = make(map[string]bool, len(ids))
		for _, id := range ids {
			favourites[id] = true
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []entity.MenuItem{}
	for _, item := range s.Snapshot().Items {
		switch {
		case f.Category == "" || f.Category == CategoryAll:
		case f.Category == CategoryFavourites:
			if !favourites[item.ID] {
				continue
			}
		case item.Category != f.Category:
			continue
		}

		switch f.Veg {
		case VegOnly:
			if !item.IsVeg {
				continue
			}
		case NonVegOnly:
			if item.IsVeg {
				continue
			}
		}

		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Favourites returns the favourite item ids.
func (s *CatalogService) Favourites(ctx context.Context) ([]string, error) {
	return s.favouriteRepo.List(ctx)
}

// ToggleFavourite adds the item to favourites, or removes it if already
// there, and returns the new list.
func (s *CatalogService) ToggleFavourite(ctx context.Context, itemID string) ([]string, error) {
	ids, err := s.favouriteRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == itemID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, itemID)
	}

	if err := s.favouriteRepo.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Run reloads the catalog every interval until ctx is cancelled. Failures
// are logged by Load and the loop carries on.
func (s *CatalogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("catalog_refresh", "", "catalog refresh stopped")
			return
		case <-ticker.C:
			_, _ = s.Load(ctx)
		}
	}
}
