package auth

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserProfile is the authenticated user's own view of their account.
type UserProfile struct {
	ID           uuid.UUID        `json:"id"`
	Email        string           `json:"email"`
	FullName     string           `json:"full_name"`
	Role         enums.SystemRole `json:"role"`
	Capabilities []string         `json:"capabilities"`
}

// LoginResponse contains the token pair and user produced by a successful
// login.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshRequest carries the expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse contains the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
