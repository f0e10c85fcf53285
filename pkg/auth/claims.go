package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Email        string
	Role         enums.SystemRole
	Capabilities []string
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to dashboard clients.
type AccessTokenClaims struct {
	UserID       uuid.UUID        `json:"user_id"`
	Email        string           `json:"email"`
	Role         enums.SystemRole `json:"role"`
	Capabilities []string         `json:"capabilities,omitempty"`
	jwt.RegisteredClaims
}
