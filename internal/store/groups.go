package store

import (
	"context"

	"github.com/voxlive/vox-backend/internal/models"
)

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *Store) GroupByID(ctx context.Context, id string) (models.Group, error) {
	var g models.Group
	err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return g, asStoreErr(err)
}

// RootGroupsByOwner pages through an owner's top-level groups, name
// ascending.
func (s *Store) RootGroupsByOwner(ctx context.Context, ownerID string, page int) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND parent_id IS NULL", ownerID).
		Order("name asc").
		Offset(pageSize * page).
		Limit(pageSize).
		Find(&groups).Error
	return groups, err
}

// Subgroups pages through a group's direct children, name ascending.
func (s *Store) Subgroups(ctx context.Context, parentID string, page int) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name asc").
		Offset(pageSize * page).
		Limit(pageSize).
		Find(&groups).Error
	return groups, err
}

// GroupsByOwner returns the owner's whole group tree unpaged. The
// hierarchy resolver classifies these rows in memory.
func (s *Store) GroupsByOwner(ctx context.Context, ownerID string) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&groups).Error
	return groups, err
}

func (s *Store) UpdateGroup(ctx context.Context, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Group{}, "id = ?", id).Error
}
