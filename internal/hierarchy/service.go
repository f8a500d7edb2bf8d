package hierarchy

import (
	"context"

	"github.com/voxlive/vox-backend/internal/models"
)

// Store is the slice of the persistence layer the resolver reads.
type Store interface {
	GroupsByOwner(ctx context.Context, ownerID string) ([]models.Group, error)
	ParticipantsByGroups(ctx context.Context, groupIDs []string) ([]models.Participant, error)
}

// Resolver materializes an owner's groups and participants once per query
// and classifies them with the pure functions above. Results are computed
// fresh on every call.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) LeafGroups(ctx context.Context, ownerID string) ([]View, error) {
	groups, err := r.store.GroupsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Leaves(groups), nil
}

func (r *Resolver) GroupsWithoutParticipants(ctx context.Context, ownerID string) ([]View, error) {
	groups, participants, err := r.materialize(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return WithoutParticipants(groups, participants), nil
}

func (r *Resolver) GroupsWithParticipants(ctx context.Context, ownerID string) ([]View, error) {
	groups, participants, err := r.materialize(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return WithParticipants(groups, participants), nil
}

func (r *Resolver) materialize(ctx context.Context, ownerID string) ([]models.Group, []models.Participant, error) {
	groups, err := r.store.GroupsByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	participants, err := r.store.ParticipantsByGroups(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return groups, participants, nil
}
