package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadflow-backend/pkg/errors"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
	"github.com/angelmondragon/leadflow-backend/pkg/metrics"
	"github.com/angelmondragon/leadflow-backend/pkg/outbox"
	"github.com/angelmondragon/leadflow-backend/pkg/pagination"
)

// Service exposes lead list, CRUD, export, and bulk operations.
type Service interface {
	List(ctx context.Context, actor Actor, input ListLeadsInput) (*ListLeadsResult, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*LeadDTO, error)
	Create(ctx context.Context, actor Actor, input CreateLeadInput) (*LeadDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateLeadInput) (*LeadDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	MarkContactedBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error)
	AssignBulk(ctx context.Context, actor Actor, ids []uuid.UUID, assignee string) (*BulkActionResult, error)
	UnassignBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error)
	DeleteBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error)
	Export(ctx context.Context, actor Actor, input ListLeadsInput) ([]byte, string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activityRecorder interface {
	RecordTx(tx *gorm.DB, leadID uuid.UUID, activityType enums.ActivityType, message, actorEmail string) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo            LeadRepository
	tx              txRunner
	activities      activityRecorder
	events          eventEmitter
	logg            *logger.Logger
	bulkMetrics     *metrics.BulkActionMetrics
	bulkConcurrency int
	now             func() time.Time
}

// ServiceParams wires the lead service dependencies.
type ServiceParams struct {
	Repository      LeadRepository
	Tx              txRunner
	Activities      activityRecorder
	Events          eventEmitter
	Logger          *logger.Logger
	BulkMetrics     *metrics.BulkActionMetrics
	BulkConcurrency int
	Now             func() time.Time
}

// NewService builds the lead service.
func NewService(params ServiceParams) Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	concurrency := params.BulkConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &service{
		repo:            params.Repository,
		tx:              params.Tx,
		activities:      params.Activities,
		events:          params.Events,
		logg:            params.Logger,
		bulkMetrics:     params.BulkMetrics,
		bulkConcurrency: concurrency,
		now:             now,
	}
}

// List runs the filter → sort → paginate pipeline over a wholesale fetch.
// The page is clamped when the filtered set shrank below the requested page.
func (s *service) List(ctx context.Context, actor Actor, input ListLeadsInput) (*ListLeadsResult, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filterCtx := input.Filter
	filterCtx.ViewerEmail = actor.Email
	filterCtx.ViewerIsAdmin = actor.IsAdmin()

	visible := FilterLeads(all, filterCtx)
	sorted := SortLeads(visible, input.SortBy, input.SortDir)

	params := pagination.Clamp(input.Pagination, len(sorted))
	lo, hi := pagination.Slice(params, len(sorted))

	dtos := make([]LeadDTO, 0, hi-lo)
	for _, lead := range sorted[lo:hi] {
		dtos = append(dtos, toLeadDTO(lead))
	}

	return &ListLeadsResult{
		Leads:      dtos,
		Total:      len(sorted),
		TotalPages: pagination.TotalPages(len(sorted), params.Size),
		Page:       params.Page,
		PageSize:   params.Size,
		FormNames:  AvailableFormNames(all),
	}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*LeadDTO, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !lead.IsAssignedTo(actor.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "lead is not assigned to you")
	}
	dto := toLeadDTO(*lead)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateLeadInput) (*LeadDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead name is required")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid lead source %q", input.Source))
	}
	status := input.Status
	if status == "" {
		status = enums.LeadStatusNew
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid lead status %q", status))
	}
	contactStatus := input.ContactStatus
	if contactStatus == "" {
		contactStatus = enums.ContactStatusNotContacted
	}
	if !contactStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid contact status %q", contactStatus))
	}

	lead := models.Lead{
		ID:            uuid.New(),
		LeadName:      strings.TrimSpace(input.Name),
		Phone:         input.Phone,
		Email:         input.Email,
		Status:        status,
		ContactStatus: contactStatus,
		Source:        input.Source,
		AssignedTo:    normalizeEmail(input.AssignedTo),
		Notes:         input.Notes,
		NextFollowUp:  input.NextFollowUp,
		Location:      input.Location,
		Budget:        input.Budget,
		Requirements:  input.Requirements,
		Timeline:      input.Timeline,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, &lead); err != nil {
			return err
		}
		if err := s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeCreation, "Lead created", actor.Email); err != nil {
			return err
		}
		return s.emit(ctx, tx, actor, enums.OutboxEventLeadCreated, lead.ID, map[string]any{
			"lead_name": lead.LeadName,
			"source":    lead.Source,
			"status":    lead.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logCtx(ctx, actor, lead.ID, "lead created")
	dto := toLeadDTO(lead)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateLeadInput) (*LeadDTO, error) {
	var updated models.Lead

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lead, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.HasCapability(enums.CapabilityUpdateLeads) && !lead.IsAssignedTo(actor.Email) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "missing permission to update this lead")
		}

		fields := map[string]any{}
		if input.Name != nil {
			if strings.TrimSpace(*input.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "lead name cannot be empty")
			}
			fields["lead_name"] = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			fields["phone"] = *input.Phone
		}
		if input.Email != nil {
			fields["email"] = *input.Email
		}
		if input.Status != nil {
			if !input.Status.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid lead status %q", *input.Status))
			}
			if *input.Status != lead.Status {
				fields["status"] = *input.Status
				message := fmt.Sprintf("Stage: %s → %s", lead.Status.Label(), input.Status.Label())
				if err := s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeStageChange, message, actor.Email); err != nil {
					return err
				}
				if err := s.emit(ctx, tx, actor, enums.OutboxEventLeadStageChanged, lead.ID, map[string]any{
					"from": lead.Status,
					"to":   *input.Status,
				}); err != nil {
					return err
				}
			}
		}
		if input.ContactStatus != nil {
			if !input.ContactStatus.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid contact status %q", *input.ContactStatus))
			}
			if *input.ContactStatus != lead.ContactStatus {
				fields["contact_status"] = *input.ContactStatus
				message := fmt.Sprintf("Contact status: %s → %s", lead.ContactStatus, *input.ContactStatus)
				if err := s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeStatusChange, message, actor.Email); err != nil {
					return err
				}
			}
		}
		if input.Source != nil {
			if !input.Source.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid lead source %q", *input.Source))
			}
			fields["source"] = *input.Source
		}
		if input.ClearAssignee {
			if lead.AssignedTo != nil {
				fields["assigned_to"] = gorm.Expr("NULL")
				if err := s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeAssignment, "Unassigned", actor.Email); err != nil {
					return err
				}
				if err := s.emit(ctx, tx, actor, enums.OutboxEventLeadUnassigned, lead.ID, nil); err != nil {
					return err
				}
			}
		} else if input.AssignedTo != nil {
			assignee := strings.ToLower(strings.TrimSpace(*input.AssignedTo))
			if !lead.IsAssignedTo(assignee) {
				fields["assigned_to"] = assignee
				if err := s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeAssignment, "Assigned to "+assignee, actor.Email); err != nil {
					return err
				}
				if err := s.emit(ctx, tx, actor, enums.OutboxEventLeadAssigned, lead.ID, map[string]any{
					"assigned_to": assignee,
				}); err != nil {
					return err
				}
			}
		}
		if input.Notes != nil {
			fields["notes"] = *input.Notes
		}
		if input.NextFollowUp != nil {
			fields["next_follow_up"] = *input.NextFollowUp
		}
		if input.IsCold != nil {
			fields["is_cold"] = *input.IsCold
		}
		if input.Location != nil {
			fields["location"] = *input.Location
		}
		if input.Budget != nil {
			fields["budget"] = *input.Budget
		}
		if input.Requirements != nil {
			fields["requirements"] = *input.Requirements
		}
		if input.Timeline != nil {
			fields["timeline"] = *input.Timeline
		}

		if len(fields) > 0 {
			if err := s.repo.UpdateFields(tx, lead.ID, fields); err != nil {
				return err
			}
		}

		fresh, err := s.repo.FindByIDTx(tx, lead.ID)
		if err != nil {
			return err
		}
		updated = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toLeadDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.HasCapability(enums.CapabilityDeleteLeads) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "missing permission to delete leads")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lead, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.emit(ctx, tx, actor, enums.OutboxEventLeadDeleted, lead.ID, map[string]any{
			"lead_name": lead.LeadName,
		}); err != nil {
			return err
		}
		return s.repo.Delete(tx, id)
	})
}

// MarkContactedBulk runs sequentially so each lead's activity write lands
// before the next lead mutates. Ownership mismatches skip without erroring.
func (s *service) MarkContactedBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no leads selected")
	}

	started := s.now()
	batch := RunBatch(ctx, ids, 1, func(ctx context.Context, id uuid.UUID) (BatchOutcome, error) {
		outcome := BatchOK
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			lead, err := s.repo.FindByIDTx(tx, id)
			if err != nil {
				return err
			}
			if !actor.IsAdmin() && !lead.IsAssignedTo(actor.Email) {
				outcome = BatchSkipped
				return nil
			}

			wasNew := lead.Status == enums.LeadStatusNew
			fields := map[string]any{
				"last_contact_date": s.now(),
				"status":            enums.LeadStatusContacted,
			}
			if err := s.repo.UpdateFields(tx, lead.ID, fields); err != nil {
				return err
			}

			if wasNew {
				return s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeStageChange,
					"Contacted & Stage Updated: New → Contacted", actor.Email)
			}
			return s.activities.RecordTx(tx, lead.ID, enums.ActivityTypeStatusChange,
				"Status: Marked as contacted", actor.Email)
		})
		return outcome, err
	})

	s.observeBatch("mark_contacted", batch, started)
	return toBulkResult(len(ids), batch), nil
}

func (s *service) AssignBulk(ctx context.Context, actor Actor, ids []uuid.UUID, assignee string) (*BulkActionResult, error) {
	if !actor.HasCapability(enums.CapabilityAssignLeads) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission to assign leads")
	}
	assignee = strings.ToLower(strings.TrimSpace(assignee))
	if assignee == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee email is required")
	}
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no leads selected")
	}

	started := s.now()
	batch := RunBatch(ctx, ids, s.bulkConcurrency, func(ctx context.Context, id uuid.UUID) (BatchOutcome, error) {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.UpdateFields(tx, id, map[string]any{"assigned_to": assignee}); err != nil {
				return err
			}
			if err := s.activities.RecordTx(tx, id, enums.ActivityTypeAssignment, "Assigned to "+assignee, actor.Email); err != nil {
				return err
			}
			return s.emit(ctx, tx, actor, enums.OutboxEventLeadAssigned, id, map[string]any{
				"assigned_to": assignee,
			})
		})
		return BatchOK, err
	})

	s.observeBatch("assign", batch, started)
	return toBulkResult(len(ids), batch), nil
}

func (s *service) UnassignBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error) {
	if !actor.HasCapability(enums.CapabilityAssignLeads) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission to assign leads")
	}
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no leads selected")
	}

	started := s.now()
	batch := RunBatch(ctx, ids, s.bulkConcurrency, func(ctx context.Context, id uuid.UUID) (BatchOutcome, error) {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.UpdateFields(tx, id, map[string]any{"assigned_to": gorm.Expr("NULL")}); err != nil {
				return err
			}
			if err := s.activities.RecordTx(tx, id, enums.ActivityTypeAssignment, "Unassigned", actor.Email); err != nil {
				return err
			}
			return s.emit(ctx, tx, actor, enums.OutboxEventLeadUnassigned, id, nil)
		})
		return BatchOK, err
	})

	s.observeBatch("unassign", batch, started)
	return toBulkResult(len(ids), batch), nil
}

func (s *service) DeleteBulk(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkActionResult, error) {
	if !actor.HasCapability(enums.CapabilityDeleteLeads) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission to delete leads")
	}
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no leads selected")
	}

	started := s.now()
	batch := RunBatch(ctx, ids, s.bulkConcurrency, func(ctx context.Context, id uuid.UUID) (BatchOutcome, error) {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			lead, err := s.repo.FindByIDTx(tx, id)
			if err != nil {
				return err
			}
			if err := s.emit(ctx, tx, actor, enums.OutboxEventLeadDeleted, lead.ID, map[string]any{
				"lead_name": lead.LeadName,
			}); err != nil {
				return err
			}
			return s.repo.Delete(tx, id)
		})
		return BatchOK, err
	})

	s.observeBatch("delete", batch, started)
	return toBulkResult(len(ids), batch), nil
}

// Export renders the filtered+sorted collection as CSV, ignoring pagination.
func (s *service) Export(ctx context.Context, actor Actor, input ListLeadsInput) ([]byte, string, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	filterCtx := input.Filter
	filterCtx.ViewerEmail = actor.Email
	filterCtx.ViewerIsAdmin = actor.IsAdmin()

	visible := SortLeads(FilterLeads(all, filterCtx), input.SortBy, input.SortDir)
	return ExportCSV(visible), ExportFilename(s.now()), nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor Actor, eventType enums.OutboxEventType, leadID uuid.UUID, data map[string]any) error {
	if s.events == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.OutboxAggregateLead,
		AggregateID:   leadID,
		Actor:         &outbox.ActorRef{Email: actor.Email, Role: string(actor.Role)},
		Data:          data,
		Version:       1,
	})
}

func (s *service) observeBatch(action string, batch BatchResult, started time.Time) {
	if s.bulkMetrics == nil {
		return
	}
	s.bulkMetrics.ObserveBatch(action, batch.Succeeded, batch.Skipped, len(batch.Failed), s.now().Sub(started))
}

func (s *service) logCtx(ctx context.Context, actor Actor, leadID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithUserEmail(ctx, actor.Email)
	logCtx = s.logg.WithLeadID(logCtx, leadID.String())
	s.logg.Info(logCtx, msg)
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
