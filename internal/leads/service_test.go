package leads

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/outbox"
	"github.com/angelmondragon/leadflow-backend/pkg/pagination"
)

func setupLeadsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  lead_name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  status TEXT NOT NULL DEFAULT 'new',
  contact_status TEXT NOT NULL DEFAULT 'not_contacted',
  source TEXT NOT NULL,
  assigned_to TEXT,
  notes TEXT,
  fb_page_id TEXT,
  fb_form_id TEXT,
  fb_created_time DATETIME,
  next_follow_up DATETIME,
  last_contact_date DATETIME,
  is_cold INTEGER NOT NULL DEFAULT 0,
  location TEXT,
  budget TEXT,
  requirements TEXT,
  timeline TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS lead_activities (
  id TEXT PRIMARY KEY,
  lead_id TEXT NOT NULL,
  type TEXT NOT NULL,
  message TEXT NOT NULL,
  actor_email TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`}
	for _, ddl := range statements {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type testRecorder struct{}

func (testRecorder) RecordTx(tx *gorm.DB, leadID uuid.UUID, activityType enums.ActivityType, message, actorEmail string) error {
	return tx.Create(&models.LeadActivity{
		ID:         uuid.New(),
		LeadID:     leadID,
		Type:       activityType,
		Message:    message,
		ActorEmail: actorEmail,
	}).Error
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupLeadsTestDB(t)
	svc := NewService(ServiceParams{
		Repository:      NewRepository(db),
		Tx:              &testTxRunner{db: db},
		Activities:      testRecorder{},
		Events:          outbox.NewService(outbox.NewRepository(db), nil),
		BulkConcurrency: 4,
	})
	return svc, db
}

func seedLead(t *testing.T, db *gorm.DB, mut func(*models.Lead)) models.Lead {
	t.Helper()
	lead := testLead(mut)
	require.NoError(t, db.Create(&lead).Error)
	return lead
}

var adminActor = Actor{Email: "admin@x.com", Role: enums.SystemRoleAdmin}

func agentActor(email string, caps ...enums.Capability) Actor {
	capStrings := make([]string, len(caps))
	for i, c := range caps {
		capStrings[i] = string(c)
	}
	return Actor{Email: email, Role: enums.SystemRoleAgent, Capabilities: capStrings}
}

func TestListAppliesPipelineAndPaginates(t *testing.T) {
	svc, db := newTestService(t)

	for i := 0; i < 25; i++ {
		seedLead(t, db, func(l *models.Lead) {
			l.LeadName = "Lead " + string(rune('A'+i))
			l.Status = enums.LeadStatusNew
		})
	}
	seedLead(t, db, func(l *models.Lead) {
		l.LeadName = "Contacted Lead"
		l.Status = enums.LeadStatusContacted
	})

	result, err := svc.List(context.Background(), adminActor, ListLeadsInput{
		Filter:     FilterContext{Status: "new"},
		SortBy:     SortByName,
		SortDir:    SortAsc,
		Pagination: pagination.Params{Page: 2, Size: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 2, result.Page)
	assert.Len(t, result.Leads, 5)
}

func TestListClampsPageWhenFilteredSetShrinks(t *testing.T) {
	svc, db := newTestService(t)
	for i := 0; i < 3; i++ {
		seedLead(t, db, nil)
	}

	result, err := svc.List(context.Background(), adminActor, ListLeadsInput{
		Pagination: pagination.Params{Page: 9, Size: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Leads, 3)
}

func TestListPagesPartitionCollection(t *testing.T) {
	svc, db := newTestService(t)
	for i := 0; i < 45; i++ {
		seedLead(t, db, nil)
	}

	seen := map[uuid.UUID]bool{}
	total := 0
	for page := 1; ; page++ {
		result, err := svc.List(context.Background(), adminActor, ListLeadsInput{
			SortBy:     SortByCreatedDate,
			SortDir:    SortAsc,
			Pagination: pagination.Params{Page: page, Size: 20},
		})
		require.NoError(t, err)
		for _, lead := range result.Leads {
			require.False(t, seen[lead.ID], "lead repeated across pages")
			seen[lead.ID] = true
		}
		total += len(result.Leads)
		if page >= result.TotalPages {
			break
		}
	}
	assert.Equal(t, 45, total)
}

func TestCreateValidatesAndLogs(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.Create(context.Background(), adminActor, CreateLeadInput{Name: " ", Source: enums.LeadSourceCall})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	dto, err := svc.Create(context.Background(), adminActor, CreateLeadInput{
		Name:   "Walk In Prospect",
		Source: enums.LeadSourceWalkin,
	})
	require.NoError(t, err)
	assert.Equal(t, string(enums.LeadStatusNew), dto.Status)

	var activities []models.LeadActivity
	require.NoError(t, db.Find(&activities, "lead_id = ?", dto.ID).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, enums.ActivityTypeCreation, activities[0].Type)
	assert.Equal(t, "Lead created", activities[0].Message)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.OutboxEventLeadCreated, events[0].EventType)
}

func TestUpdateStageChangeLogsActivity(t *testing.T) {
	svc, db := newTestService(t)
	lead := seedLead(t, db, nil)

	qualified := enums.LeadStatusQualified
	dto, err := svc.Update(context.Background(), adminActor, lead.ID, UpdateLeadInput{Status: &qualified})
	require.NoError(t, err)
	assert.Equal(t, "qualified", dto.Status)

	var activities []models.LeadActivity
	require.NoError(t, db.Find(&activities, "lead_id = ?", lead.ID).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, enums.ActivityTypeStageChange, activities[0].Type)
	assert.Equal(t, "Stage: New → Qualified", activities[0].Message)
}

func TestUpdateForbiddenForUnrelatedAgent(t *testing.T) {
	svc, db := newTestService(t)
	lead := seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("owner@x.com") })

	name := "renamed"
	_, err := svc.Update(context.Background(), agentActor("other@x.com"), lead.ID, UpdateLeadInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestMarkContactedBulkSkipsUnownedLeads(t *testing.T) {
	svc, db := newTestService(t)

	mine := seedLead(t, db, func(l *models.Lead) {
		l.AssignedTo = strPtr("agent@x.com")
		l.Status = enums.LeadStatusNew
	})
	alsoMine := seedLead(t, db, func(l *models.Lead) {
		l.AssignedTo = strPtr("agent@x.com")
		l.Status = enums.LeadStatusQualified
	})
	notMine := seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("other@x.com") })

	result, err := svc.MarkContactedBulk(context.Background(), agentActor("agent@x.com"),
		[]uuid.UUID{mine.ID, alsoMine.ID, notMine.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Failed)

	var fresh models.Lead
	require.NoError(t, db.First(&fresh, "id = ?", mine.ID).Error)
	assert.Equal(t, enums.LeadStatusContacted, fresh.Status)
	assert.NotNil(t, fresh.LastContactDate)

	var untouched models.Lead
	require.NoError(t, db.First(&untouched, "id = ?", notMine.ID).Error)
	assert.Equal(t, enums.LeadStatusNew, untouched.Status, "unowned lead untouched")

	var activities []models.LeadActivity
	require.NoError(t, db.Order("created_at").Find(&activities, "lead_id = ?", mine.ID).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, enums.ActivityTypeStageChange, activities[0].Type)
	assert.Equal(t, "Contacted & Stage Updated: New → Contacted", activities[0].Message)

	require.NoError(t, db.Find(&activities, "lead_id = ?", alsoMine.ID).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, enums.ActivityTypeStatusChange, activities[0].Type)
	assert.Equal(t, "Status: Marked as contacted", activities[0].Message)
}

func TestAssignBulkRequiresCapability(t *testing.T) {
	svc, db := newTestService(t)
	lead := seedLead(t, db, nil)

	_, err := svc.AssignBulk(context.Background(), agentActor("agent@x.com"),
		[]uuid.UUID{lead.ID}, "target@x.com")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	result, err := svc.AssignBulk(context.Background(), agentActor("agent@x.com", enums.CapabilityAssignLeads),
		[]uuid.UUID{lead.ID}, "Target@X.com")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	var fresh models.Lead
	require.NoError(t, db.First(&fresh, "id = ?", lead.ID).Error)
	require.NotNil(t, fresh.AssignedTo)
	assert.Equal(t, "target@x.com", *fresh.AssignedTo)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events, "event_type = ?", enums.OutboxEventLeadAssigned).Error)
	assert.Len(t, events, 1)
}

func TestUnassignBulkClearsAssignee(t *testing.T) {
	svc, db := newTestService(t)
	a := seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("x@x.com") })
	b := seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("y@x.com") })

	result, err := svc.UnassignBulk(context.Background(), adminActor, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)

	var fresh models.Lead
	require.NoError(t, db.First(&fresh, "id = ?", a.ID).Error)
	assert.Nil(t, fresh.AssignedTo)
}

func TestDeleteBulkReportsPerItemFailures(t *testing.T) {
	svc, db := newTestService(t)
	lead := seedLead(t, db, nil)
	missing := uuid.New()

	result, err := svc.DeleteBulk(context.Background(), adminActor, []uuid.UUID{lead.ID, missing})
	require.NoError(t, err, "per-item failures do not fail the call")
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missing, result.Failed[0].LeadID)

	var count int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestExportMatchesFilteredSet(t *testing.T) {
	svc, db := newTestService(t)
	seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("agent@x.com") })
	seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("other@x.com") })
	seedLead(t, db, nil)

	csv, filename, err := svc.Export(context.Background(), agentActor("agent@x.com"), ListLeadsInput{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(csv), "\r\n"), "\r\n")
	assert.Len(t, lines, 2, "header plus the one visible lead")
	assert.True(t, strings.HasPrefix(filename, "leads-export-"))

	csv, _, err = svc.Export(context.Background(), adminActor, ListLeadsInput{})
	require.NoError(t, err)
	lines = strings.Split(strings.TrimRight(string(csv), "\r\n"), "\r\n")
	assert.Len(t, lines, 4)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, db := newTestService(t)
	lead := seedLead(t, db, func(l *models.Lead) { l.AssignedTo = strPtr("owner@x.com") })

	_, err := svc.Get(context.Background(), agentActor("other@x.com"), lead.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	dto, err := svc.Get(context.Background(), agentActor("owner@x.com"), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, dto.ID)

	_, err = svc.Get(context.Background(), adminActor, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
