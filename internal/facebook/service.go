package facebook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/leadflow-backend/pkg/config"
	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

const initialSyncBackoff = 500 * time.Millisecond

// ConnectionDTO is a connected page/form pair without its access token.
type ConnectionDTO struct {
	ID           uuid.UUID  `json:"id"`
	PageID       string     `json:"page_id"`
	PageName     string     `json:"page_name"`
	FormID       string     `json:"form_id"`
	IsActive     bool       `json:"is_active"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// SyncResult summarizes one sync run across all active connections.
type SyncResult struct {
	Message     string `json:"message"`
	Created     int    `json:"created"`
	Skipped     int    `json:"skipped"`
	Connections int    `json:"connections"`
}

// Service pulls lead form submissions from connected pages into the lead
// table. Already-imported submissions are recognized by the lead id marker
// in the notes and skipped.
type Service struct {
	db    *gorm.DB
	graph GraphClient
	cfg   config.FacebookConfig
	logg  *logger.Logger
}

// NewService builds the facebook sync service.
func NewService(db *gorm.DB, graph GraphClient, cfg config.FacebookConfig, logg *logger.Logger) *Service {
	return &Service{db: db, graph: graph, cfg: cfg, logg: logg}
}

// ListConnections returns every configured page/form pair.
func (s *Service) ListConnections(ctx context.Context) ([]ConnectionDTO, error) {
	var rows []models.FacebookPageConnection
	err := s.db.WithContext(ctx).Order("page_name ASC, form_id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ConnectionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ConnectionDTO{
			ID:           row.ID,
			PageID:       row.PageID,
			PageName:     row.PageName,
			FormID:       row.FormID,
			IsActive:     row.IsActive,
			LastSyncedAt: row.LastSyncedAt,
		})
	}
	return out, nil
}

// SyncLeads pulls submissions for every active connection. A connection
// that keeps failing after retries is skipped; the rest still sync.
func (s *Service) SyncLeads(ctx context.Context) (*SyncResult, error) {
	var connections []models.FacebookPageConnection
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&connections).Error
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Connections: len(connections)}
	var errs error
	for _, conn := range connections {
		created, skipped, err := s.syncConnection(ctx, conn)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("page %s form %s: %w", conn.PageID, conn.FormID, err))
			s.logWarn(ctx, conn, err)
			continue
		}
		result.Created += created
		result.Skipped += skipped
	}

	if errs != nil && result.Created == 0 && result.Skipped == 0 {
		return nil, errs
	}
	result.Message = fmt.Sprintf("Successfully synced %d new leads", result.Created)
	return result, nil
}

func (s *Service) syncConnection(ctx context.Context, conn models.FacebookPageConnection) (created, skipped int, err error) {
	backoff := retry.WithMaxRetries(uint64(s.maxRetries()), retry.NewExponential(initialSyncBackoff))

	var submissions []GraphLead
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		rows, fetchErr := s.graph.FetchLeads(ctx, conn.FormID, conn.AccessToken)
		if fetchErr != nil {
			return retry.RetryableError(fetchErr)
		}
		submissions = rows
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	for _, submission := range submissions {
		imported, importErr := s.importSubmission(ctx, conn, submission)
		if importErr != nil {
			return created, skipped, importErr
		}
		if imported {
			created++
		} else {
			skipped++
		}
	}

	err = s.db.WithContext(ctx).
		Model(&models.FacebookPageConnection{}).
		Where("id = ?", conn.ID).
		Update("last_synced_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	return created, skipped, err
}

func (s *Service) importSubmission(ctx context.Context, conn models.FacebookPageConnection, submission GraphLead) (bool, error) {
	marker := leadMarker(submission.ID)

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("fb_page_id = ? AND notes LIKE ?", conn.PageID, "%"+marker+"%").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	lead := buildLead(conn, submission)
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return false, err
	}
	return true, nil
}

func buildLead(conn models.FacebookPageConnection, submission GraphLead) *models.Lead {
	lead := &models.Lead{
		ID:            uuid.New(),
		LeadName:      firstNonEmpty(submission.Fields["full_name"], submission.Fields["name"], "Facebook Lead"),
		Status:        enums.LeadStatusNew,
		ContactStatus: enums.ContactStatusNotContacted,
		Source:        enums.LeadSourceFacebook,
		FBPageID:      strPtr(conn.PageID),
		FBFormID:      strPtr(conn.FormID),
	}
	if email := submission.Fields["email"]; email != "" {
		lead.Email = strPtr(strings.ToLower(email))
	}
	if phone := firstNonEmpty(submission.Fields["phone_number"], submission.Fields["phone"]); phone != "" {
		lead.Phone = strPtr(phone)
	}
	if city := firstNonEmpty(submission.Fields["city"], submission.Fields["location"]); city != "" {
		lead.Location = strPtr(city)
	}
	if !submission.CreatedTime.IsZero() {
		ts := submission.CreatedTime
		lead.FBCreatedTime = &ts
	}

	notes := strings.Join([]string{
		"Form Name: " + conn.PageName + " (" + conn.FormID + ")",
		"Page ID: " + conn.PageID,
		leadMarker(submission.ID),
	}, "\n")
	lead.Notes = &notes
	return lead
}

func leadMarker(submissionID string) string {
	return "FB Lead ID: " + submissionID
}

func (s *Service) maxRetries() int {
	if s.cfg.MaxRetries <= 0 {
		return 3
	}
	return s.cfg.MaxRetries
}

func (s *Service) logWarn(ctx context.Context, conn models.FacebookPageConnection, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithField(ctx, "fb_page_id", conn.PageID)
	logCtx = s.logg.WithField(logCtx, "fb_form_id", conn.FormID)
	s.logg.Error(logCtx, "facebook sync failed for connection", err)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func strPtr(value string) *string {
	return &value
}
