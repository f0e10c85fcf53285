package cron

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

func setupAutoAssignTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `
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
  budget NUMERIC,
  requirements TEXT,
  timeline TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

type fakeOrgReader struct {
	org *models.Organization
	err error
}

func (f *fakeOrgReader) Get(context.Context) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

type fakeAgentLister struct {
	members []models.User
}

func (f *fakeAgentLister) ActiveAgents(context.Context) ([]models.User, error) {
	return f.members, nil
}

type captureRecorder struct {
	messages []string
}

func (c *captureRecorder) RecordTx(_ *gorm.DB, _ uuid.UUID, _ enums.ActivityType, message, _ string) error {
	c.messages = append(c.messages, message)
	return nil
}

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func seedAssignLead(t *testing.T, db *gorm.DB, mut func(*models.Lead)) models.Lead {
	t.Helper()
	lead := models.Lead{
		ID:            uuid.New(),
		LeadName:      "Lead",
		Status:        enums.LeadStatusNew,
		ContactStatus: enums.ContactStatusNotContacted,
		Source:        enums.LeadSourceWebsite,
	}
	if mut != nil {
		mut(&lead)
	}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}

func newAutoAssignJob(t *testing.T, db *gorm.DB, orgs *fakeOrgReader, agents *fakeAgentLister, recorder *captureRecorder) Job {
	t.Helper()
	job, err := NewAutoAssignJob(AutoAssignJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		DB:            db,
		Tx:            dbTxRunner{db: db},
		Organizations: orgs,
		Users:         agents,
		Activities:    recorder,
	})
	if err != nil {
		t.Fatalf("NewAutoAssignJob: %v", err)
	}
	return job
}

func agentMember(email string) models.User {
	return models.User{ID: uuid.New(), Email: email, Role: enums.SystemRoleAgent, IsActive: true}
}

func TestAutoAssignDistributesRoundRobin(t *testing.T) {
	db := setupAutoAssignTestDB(t)
	for i := 0; i < 4; i++ {
		seedAssignLead(t, db, nil)
	}
	seedAssignLead(t, db, func(l *models.Lead) { l.IsCold = true })
	seedAssignLead(t, db, func(l *models.Lead) { l.Status = enums.LeadStatusQualified })
	assigned := "taken@x.com"
	seedAssignLead(t, db, func(l *models.Lead) { l.AssignedTo = &assigned })

	recorder := &captureRecorder{}
	orgs := &fakeOrgReader{org: &models.Organization{ID: uuid.New(), Name: "Org"}}
	agents := &fakeAgentLister{members: []models.User{
		agentMember("a@x.com"),
		agentMember("b@x.com"),
	}}

	job := newAutoAssignJob(t, db, orgs, agents, recorder)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var counts []struct {
		AssignedTo string
		N          int
	}
	err := db.Model(&models.Lead{}).
		Select("assigned_to, COUNT(*) AS n").
		Where("assigned_to IS NOT NULL").
		Group("assigned_to").
		Order("assigned_to").
		Scan(&counts).Error
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 assignees, got %d", len(counts))
	}
	// 4 eligible leads over 2 agents, plus the pre-assigned lead untouched
	if counts[0].N != 2 || counts[1].N != 2 || counts[2].N != 1 {
		t.Fatalf("unexpected distribution: %+v", counts)
	}
	if len(recorder.messages) != 4 {
		t.Fatalf("expected 4 assignment activities, got %d", len(recorder.messages))
	}

	var coldOrQualified int64
	if err := db.Model(&models.Lead{}).
		Where("assigned_to IS NULL").
		Count(&coldOrQualified).Error; err != nil {
		t.Fatalf("count unassigned: %v", err)
	}
	if coldOrQualified != 2 {
		t.Fatalf("cold and non-new leads must stay unassigned, got %d left", coldOrQualified)
	}
}

func TestAutoAssignSkipsWhenPaused(t *testing.T) {
	db := setupAutoAssignTestDB(t)
	seedAssignLead(t, db, nil)

	recorder := &captureRecorder{}
	orgs := &fakeOrgReader{org: &models.Organization{ID: uuid.New(), Name: "Org", AutoAssignPaused: true}}
	agents := &fakeAgentLister{members: []models.User{agentMember("a@x.com")}}

	job := newAutoAssignJob(t, db, orgs, agents, recorder)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var unassigned int64
	if err := db.Model(&models.Lead{}).Where("assigned_to IS NULL").Count(&unassigned).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if unassigned != 1 {
		t.Fatal("paused organization must not assign leads")
	}
}

func TestAutoAssignSkipsWithoutOrganization(t *testing.T) {
	db := setupAutoAssignTestDB(t)
	seedAssignLead(t, db, nil)

	orgs := &fakeOrgReader{err: pkgerrors.New(pkgerrors.CodeNotFound, "organization not configured")}
	job := newAutoAssignJob(t, db, orgs, &fakeAgentLister{}, &captureRecorder{})
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("missing organization must not fail the job: %v", err)
	}
}

func TestAutoAssignIgnoresNonAgentMembers(t *testing.T) {
	db := setupAutoAssignTestDB(t)
	seedAssignLead(t, db, nil)

	adminOnly := &fakeAgentLister{members: []models.User{{
		ID: uuid.New(), Email: "admin@x.com", Role: enums.SystemRoleAdmin, IsActive: true,
	}}}
	orgs := &fakeOrgReader{org: &models.Organization{ID: uuid.New(), Name: "Org"}}

	job := newAutoAssignJob(t, db, orgs, adminOnly, &captureRecorder{})
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var unassigned int64
	if err := db.Model(&models.Lead{}).Where("assigned_to IS NULL").Count(&unassigned).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if unassigned != 1 {
		t.Fatal("admins must not receive auto-assigned leads")
	}
}
