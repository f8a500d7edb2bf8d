package store

import (
	"context"

	"github.com/voxlive/vox-backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, asStoreErr(err)
}

// UserByEmail returns ErrNotFound for unknown addresses; registration uses
// that to tell "free" from "taken".
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return u, asStoreErr(err)
}

func (s *Store) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}
