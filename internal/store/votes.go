package store

import (
	"context"

	"github.com/voxlive/vox-backend/internal/models"
)

func (s *Store) CreateVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).Create(v).Error
}

// VotesByParticipants returns every vote cast for the given participants.
// The tally engine counts them in memory.
func (s *Store) VotesByParticipants(ctx context.Context, participantIDs []string) ([]models.Vote, error) {
	if len(participantIDs) == 0 {
		return nil, nil
	}
	var votes []models.Vote
	err := s.db.WithContext(ctx).Where("participant_id IN ?", participantIDs).Find(&votes).Error
	return votes, err
}
