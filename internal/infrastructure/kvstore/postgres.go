package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValue is one stored entry.
type KeyValue struct {
	Key       string     `gorm:"primaryKey;size:255"`
	Value     []byte     `gorm:"type:bytea;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// TableName returns the table name for KeyValue
func (KeyValue) TableName() string {
	return "counter_state"
}

type postgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var kv KeyValue
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if kv.ExpiresAt != nil && time.Now().After(*kv.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return nil, ErrNotFound
	}
	return kv.Value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	kv := KeyValue{Key: key, Value: value}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		kv.ExpiresAt = &expires
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&kv).Error
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&KeyValue{}).Error
}
