package repository

import (
	"context"
	"encoding/json"
	"strconv"

	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

type favouriteRepository struct {
	store kvstore.Store
	log   *logger.Logger
}

// NewFavouriteRepository creates a new favourite repository
func NewFavouriteRepository(store kvstore.Store, log *logger.Logger) domainRepo.FavouriteRepository {
	return &favouriteRepository{store: store, log: log}
}

// List accepts ids stored as strings or numbers; older terminals kept the
// backend's numeric ids.
func (r *favouriteRepository) List(ctx context.Context) ([]string, error) {
	var raw []json.RawMessage
	ok, err := loadJSON(ctx, r.store, r.log, keyFavourites, &raw)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if !ok {
		return ids, nil
	}
	for _, item := range raw {
		var s string
		if json.Unmarshal(item, &s) == nil {
			ids = append(ids, s)
			continue
		}
		var n json.Number
		if json.Unmarshal(item, &n) == nil {
			if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
				ids = append(ids, strconv.FormatInt(i, 10))
			}
		}
	}
	return ids, nil
}

func (r *favouriteRepository) Save(ctx context.Context, itemIDs []string) error {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	return saveJSON(ctx, r.store, keyFavourites, itemIDs, 0)
}
