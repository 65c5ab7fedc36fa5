package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrStoreUnavailable is returned for any write attempted while no database
// is configured. Reads in that state return empty results instead.
var ErrStoreUnavailable = errors.New("submission store is not configured")

// CollectionStore is the boundary to the document collection: append one
// record, or read back the most recent records for a collection path. Records
// are never updated or deleted through this interface.
type CollectionStore interface {
	AddRecord(ctx context.Context, path string, rec *Submission) (string, error)
	ListRecords(ctx context.Context, path string, orderByField string, limit int) ([]Submission, error)
}

// GormStore implements CollectionStore on a sqlite database. A GormStore with
// a nil handle is the inert store used when no backend descriptor is
// configured.
type GormStore struct {
	db *gorm.DB
}

var _ CollectionStore = (*GormStore)(nil)

// OpenStore opens (or creates) the sqlite database at path and migrates the
// schema. An empty path yields the inert store and no error.
func OpenStore(path string) (*GormStore, error) {
	if path == "" {
		return &GormStore{}, nil
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.AutoMigrate(&Submission{}, &AdminUser{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormStore{db: db}, nil
}

// DB exposes the underlying handle for the identity service and tests.
// It is nil when the store is inert.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// AddRecord appends rec to the collection at path and returns the assigned id.
// The id and creation time always come from the store, never from the caller.
func (s *GormStore) AddRecord(ctx context.Context, path string, rec *Submission) (string, error) {
	if s.db == nil {
		return "", ErrStoreUnavailable
	}
	rec.ID = 0
	rec.CreatedAt = time.Time{}
	rec.CollectionPath = path
	result := s.db.WithContext(ctx).Create(rec)
	if result.Error != nil {
		return "", result.Error
	}
	return strconv.FormatUint(uint64(rec.ID), 10), nil
}

// ListRecords returns up to limit records from the collection at path,
// ordered by orderByField descending.
func (s *GormStore) ListRecords(ctx context.Context, path string, orderByField string, limit int) ([]Submission, error) {
	if s.db == nil {
		return nil, nil
	}
	var records []Submission
	result := s.db.WithContext(ctx).
		Where("collection_path = ?", path).
		Order(orderByField + " DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
