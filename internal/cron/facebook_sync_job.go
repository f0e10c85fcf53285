package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/leadflow-backend/internal/facebook"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

type facebookSyncer interface {
	SyncLeads(ctx context.Context) (*facebook.SyncResult, error)
}

// FacebookSyncJobParams configure the facebook sync job.
type FacebookSyncJobParams struct {
	Logger  *logger.Logger
	Service facebookSyncer
}

// NewFacebookSyncJob builds the job that pulls lead form submissions from
// connected pages on the cron cadence.
func NewFacebookSyncJob(params FacebookSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("facebook service required")
	}
	return &facebookSyncJob{logg: params.Logger, service: params.Service}, nil
}

type facebookSyncJob struct {
	logg    *logger.Logger
	service facebookSyncer
}

func (j *facebookSyncJob) Name() string { return "facebook-sync" }

func (j *facebookSyncJob) Run(ctx context.Context) error {
	result, err := j.service.SyncLeads(ctx)
	if err != nil {
		return fmt.Errorf("facebook sync: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"leads_created": result.Created,
		"leads_skipped": result.Skipped,
		"connections":   result.Connections,
	})
	j.logg.Info(logCtx, "facebook sync complete")
	return nil
}
