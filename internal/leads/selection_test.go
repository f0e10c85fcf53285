package leads

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

func TestSelectAllTracksVisibleSetExactly(t *testing.T) {
	visible := []models.Lead{testLead(nil), testLead(nil), testLead(nil)}
	hidden := testLead(nil)

	s := SelectAll(visible)
	require.Equal(t, len(visible), s.Len())
	for _, lead := range visible {
		assert.True(t, s.Has(lead.ID))
	}
	assert.False(t, s.Has(hidden.ID))
}

func TestSelectAllThenClearIsEmpty(t *testing.T) {
	visible := []models.Lead{testLead(nil), testLead(nil)}
	s := SelectAll(visible)
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestToggleFlipsMembership(t *testing.T) {
	s := NewSelection()
	id := uuid.New()

	s.Toggle(id)
	assert.True(t, s.Has(id))

	s.Toggle(id)
	assert.False(t, s.Has(id))
}

func TestVisibleIDsDropsHiddenSelections(t *testing.T) {
	a, b, c := testLead(nil), testLead(nil), testLead(nil)

	s := SelectAll([]models.Lead{a, b, c})

	// Filter change hides b; the actionable set must shrink with it.
	ids := s.VisibleIDs([]models.Lead{a, c})
	require.Len(t, ids, 2)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, ids)
}
