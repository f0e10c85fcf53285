package middleware

import (
	"context"

	"github.com/angelmondragon/leadflow-backend/internal/leads"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserEmail    contextKey = "user_email"
	ctxRole         contextKey = "actor_role"
	ctxCapabilities contextKey = "capabilities"
	ctxAccessID     contextKey = "access_id"
)

func UserEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserEmail).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func CapabilitiesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCapabilities).([]string); ok {
		return v
	}
	return nil
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext assembles the lead-service actor from the authenticated
// request context.
func ActorFromContext(ctx context.Context) leads.Actor {
	return leads.Actor{
		Email:        UserEmailFromContext(ctx),
		Role:         enums.SystemRole(RoleFromContext(ctx)),
		Capabilities: CapabilitiesFromContext(ctx),
	}
}

// WithUserEmail injects the user email into the context. Test helper surface.
func WithUserEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserEmail, email)
}

// WithRole injects the actor role into the context. Test helper surface.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithAccessID injects the session access id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}

// WithCapabilities injects held capabilities into the context.
func WithCapabilities(ctx context.Context, capabilities []string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCapabilities, capabilities)
}
