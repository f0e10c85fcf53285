package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

const autoAssignActor = "system@leadflow"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type organizationReader interface {
	Get(ctx context.Context) (*models.Organization, error)
}

type agentLister interface {
	ActiveAgents(ctx context.Context) ([]models.User, error)
}

type assignmentRecorder interface {
	RecordTx(tx *gorm.DB, leadID uuid.UUID, activityType enums.ActivityType, message, actorEmail string) error
}

// AutoAssignJobParams configure the auto-assign job.
type AutoAssignJobParams struct {
	Logger        *logger.Logger
	DB            *gorm.DB
	Tx            txRunner
	Organizations organizationReader
	Users         agentLister
	Activities    assignmentRecorder
}

// NewAutoAssignJob builds the job that distributes unassigned fresh leads
// round-robin across active agents.
func NewAutoAssignJob(params AutoAssignJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Organizations == nil {
		return nil, fmt.Errorf("organization reader required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("agent lister required")
	}
	if params.Activities == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &autoAssignJob{
		logg:       params.Logger,
		db:         params.DB,
		tx:         params.Tx,
		orgs:       params.Organizations,
		agents:     params.Users,
		activities: params.Activities,
	}, nil
}

type autoAssignJob struct {
	logg       *logger.Logger
	db         *gorm.DB
	tx         txRunner
	orgs       organizationReader
	agents     agentLister
	activities assignmentRecorder
}

func (j *autoAssignJob) Name() string { return "auto-assign" }

func (j *autoAssignJob) Run(ctx context.Context) error {
	org, err := j.orgs.Get(ctx)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			j.logg.Info(ctx, "no organization configured; skipping auto-assign")
			return nil
		}
		return fmt.Errorf("load organization: %w", err)
	}
	if org.AutoAssignPaused {
		j.logg.Info(ctx, "auto-assign is paused; skipping")
		return nil
	}

	agents, err := j.eligibleAgents(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	if len(agents) == 0 {
		j.logg.Info(ctx, "no active agents to assign leads to")
		return nil
	}

	var leads []models.Lead
	err = j.db.WithContext(ctx).
		Where("assigned_to IS NULL AND is_cold = ? AND status = ?", false, enums.LeadStatusNew).
		Order("created_at ASC").
		Find(&leads).Error
	if err != nil {
		return fmt.Errorf("list unassigned leads: %w", err)
	}

	assigned := 0
	for i, lead := range leads {
		agent := agents[i%len(agents)]
		if err := j.assignLead(ctx, lead.ID, agent.Email); err != nil {
			logCtx := j.logg.WithLeadID(ctx, lead.ID.String())
			j.logg.Error(logCtx, "auto-assign failed for lead", err)
			continue
		}
		assigned++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"leads_assigned": assigned,
		"agents":         len(agents),
	})
	j.logg.Info(logCtx, "auto-assign pass complete")
	return nil
}

func (j *autoAssignJob) eligibleAgents(ctx context.Context) ([]models.User, error) {
	members, err := j.agents.ActiveAgents(ctx)
	if err != nil {
		return nil, err
	}
	agents := make([]models.User, 0, len(members))
	for _, member := range members {
		if member.Role == enums.SystemRoleAgent {
			agents = append(agents, member)
		}
	}
	return agents, nil
}

func (j *autoAssignJob) assignLead(ctx context.Context, leadID uuid.UUID, agentEmail string) error {
	return j.tx.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Lead{}).
			Where("id = ? AND assigned_to IS NULL", leadID).
			Update("assigned_to", agentEmail)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return j.activities.RecordTx(tx, leadID, enums.ActivityTypeAssignment,
			"Assigned to "+agentEmail, autoAssignActor)
	})
}
