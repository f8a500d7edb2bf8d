// Package store is the gorm-backed persistence layer for users, groups,
// participants and votes. Session codes deliberately never touch it.
package store

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/voxlive/vox-backend/internal/models"
)

// ErrNotFound is returned whenever a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// Page size for every listing endpoint.
const pageSize = 10

type Store struct {
	db *gorm.DB
}

// Open connects to postgres and migrates the schema.
func Open(url string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an existing gorm handle (tests hand in sqlite) and migrates.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Participant{},
		&models.Vote{},
	); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for process shutdown.
func (s *Store) DB() *gorm.DB { return s.db }

func asStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
