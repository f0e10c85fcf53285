package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

// UserDTO is the dashboard view of a team member.
type UserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	Department   string     `json:"department,omitempty"`
	Capabilities []string   `json:"capabilities"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// DashboardResult groups the members shown on the team dashboard.
// Invitations stays empty until invite flows land server-side.
type DashboardResult struct {
	Users       []UserDTO `json:"users"`
	Invitations []UserDTO `json:"invitations"`
}

// Service reads team members for the dashboard and auth flows.
type Service struct {
	repo Repository
}

// NewService builds the user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard returns active members with their department names resolved.
func (s *Service) Dashboard(ctx context.Context) (*DashboardResult, error) {
	members, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(departments))
	for _, dept := range departments {
		names[dept.ID] = dept.Name
	}

	out := make([]UserDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toDTO(member, names))
	}
	return &DashboardResult{Users: out, Invitations: []UserDTO{}}, nil
}

// GetByEmail returns a single member, matching email case-insensitively.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// ActiveAgents returns active members ordered by name, for round-robin
// assignment.
func (s *Service) ActiveAgents(ctx context.Context) ([]models.User, error) {
	return s.repo.ListActive(ctx)
}

// TouchLastLogin stamps the member's last login time.
func (s *Service) TouchLastLogin(ctx context.Context, email string) error {
	return s.repo.UpdateLastLogin(ctx, email)
}

func toDTO(member models.User, departmentNames map[uuid.UUID]string) UserDTO {
	dto := UserDTO{
		ID:           member.ID,
		Email:        member.Email,
		FullName:     member.FullName,
		Role:         member.Role.String(),
		Capabilities: append([]string{}, member.Capabilities...),
		LastLoginAt:  member.LastLoginAt,
	}
	if member.DepartmentID != nil {
		dto.Department = departmentNames[*member.DepartmentID]
	}
	return dto
}
