// Package hierarchy classifies an owner's groups for display. The source
// rows carry foreign keys as opaque id strings, so all joins here are
// string-equality joins over materialized slices; nothing depends on the
// storage engine's query language.
package hierarchy

import (
	"sort"

	"github.com/voxlive/vox-backend/internal/models"
)

// View is a group prepared for display: the raw parent id is replaced by
// the parent's name, and IsSubgroup flags non-root groups.
type View struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Parent     string `json:"parent,omitempty"`
	IsSubgroup bool   `json:"isSubgroup"`
}

// Leaves returns the groups no other group names as parent.
func Leaves(groups []models.Group) []View {
	hasChild := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.ParentID != nil {
			hasChild[*g.ParentID] = true
		}
	}

	var out []View
	for _, g := range groups {
		if !hasChild[g.ID] {
			out = append(out, makeView(g, groups))
		}
	}
	sortViews(out)
	return out
}

// WithoutParticipants returns the groups no participant belongs to.
func WithoutParticipants(groups []models.Group, participants []models.Participant) []View {
	populated := populatedSet(participants)

	var out []View
	for _, g := range groups {
		if !populated[g.ID] {
			out = append(out, makeView(g, groups))
		}
	}
	sortViews(out)
	return out
}

// WithParticipants returns the groups at least one participant belongs to.
func WithParticipants(groups []models.Group, participants []models.Participant) []View {
	populated := populatedSet(participants)

	var out []View
	for _, g := range groups {
		if populated[g.ID] {
			out = append(out, makeView(g, groups))
		}
	}
	sortViews(out)
	return out
}

func populatedSet(participants []models.Participant) map[string]bool {
	set := make(map[string]bool, len(participants))
	for _, p := range participants {
		set[p.GroupID] = true
	}
	return set
}

// makeView resolves the parent's display name with a single lookup. A
// parent id that matches no group (or a cycle further up the chain) is not
// chased: the view keeps whatever one step of resolution yields.
func makeView(g models.Group, groups []models.Group) View {
	v := View{ID: g.ID, Name: g.Name}
	if g.ParentID == nil {
		return v
	}
	v.IsSubgroup = true
	for _, candidate := range groups {
		if candidate.ID == *g.ParentID {
			v.Parent = candidate.Name
			break
		}
	}
	return v
}

// Sort order groups siblings under their parent's display name, lists
// top-level groups before subgroups on equal keys, then goes alphabetical.
// Comparisons are case-sensitive byte order.
func sortViews(views []View) {
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		if a.IsSubgroup != b.IsSubgroup {
			return !a.IsSubgroup
		}
		return a.Name < b.Name
	})
}
