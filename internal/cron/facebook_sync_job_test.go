package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/leadflow-backend/internal/facebook"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

type fakeFacebookSyncer struct {
	result *facebook.SyncResult
	err    error
	calls  int
}

func (f *fakeFacebookSyncer) SyncLeads(context.Context) (*facebook.SyncResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestFacebookSyncJobRunsService(t *testing.T) {
	syncer := &fakeFacebookSyncer{result: &facebook.SyncResult{Created: 3, Connections: 1}}
	job, err := NewFacebookSyncJob(FacebookSyncJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Service: syncer,
	})
	if err != nil {
		t.Fatalf("NewFacebookSyncJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if syncer.calls != 1 {
		t.Fatalf("expected one sync call, got %d", syncer.calls)
	}
}

func TestFacebookSyncJobPropagatesError(t *testing.T) {
	syncer := &fakeFacebookSyncer{err: errors.New("graph down")}
	job, err := NewFacebookSyncJob(FacebookSyncJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Service: syncer,
	})
	if err != nil {
		t.Fatalf("NewFacebookSyncJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
