package store

import (
	"context"

	"github.com/voxlive/vox-backend/internal/models"
)

func (s *Store) CreateParticipant(ctx context.Context, p *models.Participant) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) ParticipantByID(ctx context.Context, id string) (models.Participant, error) {
	var p models.Participant
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return p, asStoreErr(err)
}

// ParticipantsByGroup returns every participant of one group, unpaged, for
// the tally engine.
func (s *Store) ParticipantsByGroup(ctx context.Context, groupID string) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Find(&participants).Error
	return participants, err
}

// ParticipantsByGroupPaged is the listing endpoint's view, name ascending.
func (s *Store) ParticipantsByGroupPaged(ctx context.Context, groupID string, page int) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name asc").
		Offset(pageSize * page).
		Limit(pageSize).
		Find(&participants).Error
	return participants, err
}

// ParticipantsByGroups materializes the participants of many groups at
// once for the hierarchy resolver.
func (s *Store) ParticipantsByGroups(ctx context.Context, groupIDs []string) ([]models.Participant, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var participants []models.Participant
	err := s.db.WithContext(ctx).Where("group_id IN ?", groupIDs).Find(&participants).Error
	return participants, err
}

func (s *Store) UpdateParticipant(ctx context.Context, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&models.Participant{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteParticipant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Participant{}, "id = ?", id).Error
}
