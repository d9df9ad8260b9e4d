package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of kv_entries.
type Entry struct {
	Key       string         `gorm:"primaryKey;type:varchar(64)"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "kv_entries" }

type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

func (s *gormStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	var entry Entry
	err := s.db.WithContext(ctx).Where(&Entry{Key: key}).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *gormStore) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	entry := Entry{
		Key:       key,
		Value:     datatypes.JSON(payload),
		UpdatedAt: s.now().UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
