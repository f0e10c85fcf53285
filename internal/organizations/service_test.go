package organizations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

func setupOrgTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS organizations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  auto_assign_paused INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestGetRequiresSeededRow(t *testing.T) {
	db := setupOrgTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSetAutoAssignPausedTogglesAndPersists(t *testing.T) {
	db := setupOrgTestDB(t)
	svc := NewService(db, nil)

	require.NoError(t, db.Create(&models.Organization{ID: uuid.New(), Name: "PackFinderz Realty"}).Error)

	org, err := svc.SetAutoAssignPaused(context.Background(), "admin@x.com", true)
	require.NoError(t, err)
	assert.True(t, org.AutoAssignPaused)

	reloaded, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded.AutoAssignPaused)

	// idempotent when already in the requested state
	org, err = svc.SetAutoAssignPaused(context.Background(), "admin@x.com", true)
	require.NoError(t, err)
	assert.True(t, org.AutoAssignPaused)
}
