package savedfilters

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
)

func setupSavedFiltersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS saved_filters (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  owner_email TEXT NOT NULL,
  is_global INTEGER NOT NULL DEFAULT 0,
  stages TEXT NOT NULL DEFAULT '{}',
  sources TEXT NOT NULL DEFAULT '{}',
  assigned_to TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupSavedFiltersTestDB(t)
	return NewService(NewRepository(db), nil), db
}

var (
	admin = Viewer{Email: "admin@x.com", IsAdmin: true}
	agent = Viewer{Email: "Agent@X.com"}
	other = Viewer{Email: "other@x.com"}
)

func TestListReturnsOwnAndGlobal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, CreateInput{Name: "Hot pipeline", IsGlobal: true, Stages: []string{"qualified"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, agent, CreateInput{Name: "Mine", Sources: []string{"facebook"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, CreateInput{Name: "Someone else's"})
	require.NoError(t, err)

	visible, err := svc.List(ctx, agent)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "Hot pipeline", visible[0].Name)
	assert.Equal(t, "Mine", visible[1].Name)
	assert.Equal(t, "agent@x.com", visible[1].OwnerEmail, "owner email folds to lower case")

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3, "admins see every preset")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, agent, CreateInput{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, agent, CreateInput{Name: "Bad stage", Stages: []string{"bogus"}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, agent, CreateInput{Name: "Global", IsGlobal: true})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdateRequiresOwnershipOrAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, agent, CreateInput{Name: "Mine"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(ctx, other, created.ID, UpdateInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.Update(ctx, admin, created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	stages := []string{"contacted"}
	updated, err = svc.Update(ctx, agent, created.ID, UpdateInput{Stages: stages})
	require.NoError(t, err)
	assert.Equal(t, stages, updated.Stages)
}

func TestUpdateGlobalToggleIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, agent, CreateInput{Name: "Mine"})
	require.NoError(t, err)

	global := true
	_, err = svc.Update(ctx, agent, created.ID, UpdateInput{IsGlobal: &global})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.Update(ctx, admin, created.ID, UpdateInput{IsGlobal: &global})
	require.NoError(t, err)
	assert.True(t, updated.IsGlobal)
}

func TestDeleteOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, agent, CreateInput{Name: "Mine"})
	require.NoError(t, err)

	err = svc.Delete(ctx, other, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	require.NoError(t, svc.Delete(ctx, agent, created.ID))

	err = svc.Delete(ctx, agent, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), admin, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
