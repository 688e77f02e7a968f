package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

// Fixed keys of the counter state.
const (
	keyTill        = "till:state"
	keyHeldOrders  = "held_orders"
	keyFavourites  = "favourites"
	keySession     = "auth:session"
	keyIdempotency = "idempotency:"
)

// loadJSON decodes the value under key into dst. It reports false when the
// key is absent or holds something that no longer decodes; callers treat
// both as the empty default.
func loadJSON(ctx context.Context, store kvstore.Store, log *logger.Logger, key string, dst any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("state_load", logger.RequestID(ctx), "discarding unreadable "+key+" entry", err)
		return false, nil
	}
	return true, nil
}

func saveJSON(ctx context.Context, store kvstore.Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
