// Package tally computes ranked vote counts for a group. Counts are never
// cached or incrementally maintained; every call re-reads the rows
// persisted at that moment.
package tally

import (
	"context"
	"sort"

	"github.com/voxlive/vox-backend/internal/models"
)

// Store is the slice of the persistence layer the engine reads. GroupByID
// is expected to surface store.ErrNotFound for unknown ids.
type Store interface {
	GroupByID(ctx context.Context, id string) (models.Group, error)
	ParticipantsByGroup(ctx context.Context, groupID string) ([]models.Participant, error)
	VotesByParticipants(ctx context.Context, participantIDs []string) ([]models.Vote, error)
}

type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Standing struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

// Result ranks a group's participants by votes descending, name ascending
// on ties (case-sensitive byte order).
type Result struct {
	Group        GroupRef   `json:"group"`
	Participants []Standing `json:"participants"`
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Result resolves group -> participants -> votes by id-string equality and
// returns the ranking. A group with no participants yields an empty list,
// not an error.
func (e *Engine) Result(ctx context.Context, groupID string) (Result, error) {
	group, err := e.store.GroupByID(ctx, groupID)
	if err != nil {
		return Result{}, err
	}

	participants, err := e.store.ParticipantsByGroup(ctx, groupID)
	if err != nil {
		return Result{}, err
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	votes, err := e.store.VotesByParticipants(ctx, ids)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Group:        GroupRef{ID: group.ID, Name: group.Name},
		Participants: Rank(participants, votes),
	}, nil
}

// Rank joins participants to their votes and orders them. Pure; exported
// for direct use over already-materialized rows.
func Rank(participants []models.Participant, votes []models.Vote) []Standing {
	counts := make(map[string]int, len(participants))
	for _, v := range votes {
		counts[v.ParticipantID]++
	}

	standings := make([]Standing, 0, len(participants))
	for _, p := range participants {
		standings = append(standings, Standing{
			ID:    p.ID,
			Name:  p.Name,
			Votes: counts[p.ID],
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Votes != standings[j].Votes {
			return standings[i].Votes > standings[j].Votes
		}
		return standings[i].Name < standings[j].Name
	})
	return standings
}
