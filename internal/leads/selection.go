package leads

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

// Selection tracks lead ids chosen for a bulk action. Callers must resolve it
// against the currently visible set via VisibleIDs before acting, so hidden
// ids can never leak into a batch.
type Selection map[uuid.UUID]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{}
}

// SelectAll returns a selection holding exactly the visible leads.
func SelectAll(visible []models.Lead) Selection {
	s := make(Selection, len(visible))
	for _, lead := range visible {
		s[lead.ID] = struct{}{}
	}
	return s
}

// Toggle flips membership of a single id.
func (s Selection) Toggle(id uuid.UUID) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Has reports membership.
func (s Selection) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s)
}

// Clear empties the selection in place.
func (s Selection) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// VisibleIDs intersects the selection with the visible leads, returning ids
// in visible order. Selected ids that fell out of view are dropped.
func (s Selection) VisibleIDs(visible []models.Lead) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for _, lead := range visible {
		if s.Has(lead.ID) {
			ids = append(ids, lead.ID)
		}
	}
	return ids
}
