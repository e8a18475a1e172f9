package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
	"github.com/bigidrise/mealguard/internal/types"
)

// ProfileLoader loads a user's safety profile. Implementations must
// read fresh data on every call; the gate never caches profiles, so an
// allergy added a second ago is enforced on the next request.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, userID uuid.UUID) (safety.Profile, error)
}

// CredentialStore reads and writes the override PIN hash for a user.
type CredentialStore interface {
	GetPinHash(ctx context.Context, userID uuid.UUID) (string, error)
	SetPinHash(ctx context.Context, userID uuid.UUID, hash string) error
}

// AuditSink persists append-only audit rows. A failing sink must never
// fail a safety decision; callers log and move on.
type AuditSink interface {
	Append(ctx context.Context, entry *models.SafetyAuditLog) error
}

// MealGenerator is the external generator the gate wraps. It is only
// invoked after a safe assessment or a consumed override, and its
// output always passes through the post-generation validator before
// being returned to anyone.
type MealGenerator interface {
	Generate(ctx context.Context, request string, restrictions, allergens []string) (*safety.MealOutput, error)
}

// TokenValidator validates bearer tokens for the HTTP surface.
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}
