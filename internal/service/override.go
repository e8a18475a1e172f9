package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
	"github.com/bigidrise/mealguard/internal/store"
)

var (
	// ErrNoPinConfigured means the user never set an override PIN.
	ErrNoPinConfigured = errors.New("no PIN configured")
	// ErrPinIncorrect is deliberately generic: it never reveals how
	// close the user is to lockout.
	ErrPinIncorrect = errors.New("incorrect PIN")
)

// RateLimitedError is returned while the user is locked out from PIN
// attempts. The PIN is not checked at all during lockout, so the
// response time leaks nothing about the stored hash.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d seconds", int(e.RetryAfter.Seconds()))
}

// OverrideToken is a single-use grant to proceed with a specific
// blocked request. It is never persisted beyond the TTL store.
type OverrideToken struct {
	Token           string    `json:"token"`
	UserID          string    `json:"user_id"`
	Allergen        string    `json:"allergen"`
	MealRequestText string    `json:"meal_request_text"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// OverrideClaim is the data a consumed token was bound to, handed back
// for audit logging.
type OverrideClaim struct {
	Allergen        string
	MealRequestText string
}

type rateLimitRecord struct {
	UserID      string     `json:"user_id"`
	Attempts    int        `json:"attempts"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// OverrideConfig tunes the override subsystem. Zero values fall back
// to the defaults below.
type OverrideConfig struct {
	TokenTTL        time.Duration
	MaxPinAttempts  int
	LockoutDuration time.Duration
	// BuilderID identifies this gate instance on audit rows.
	BuilderID string
}

func (c *OverrideConfig) applyDefaults() {
	if c.TokenTTL <= 0 {
		c.TokenTTL = 5 * time.Minute
	}
	if c.MaxPinAttempts <= 0 {
		c.MaxPinAttempts = 5
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = 15 * time.Minute
	}
	if c.BuilderID == "" {
		c.BuilderID = uuid.New().String()
	}
}

// OverrideService authorizes a user to bypass a block on their own
// request: PIN verification, single-use expiring tokens, failure-based
// lockout, and audit logging of every consumed override.
type OverrideService struct {
	credentials CredentialStore
	tokens      store.TTLStore
	rateLimits  store.TTLStore
	audit       AuditSink
	logger      *zap.Logger
	cfg         OverrideConfig

	// Guards read-modify-write of rate-limit records so concurrent
	// wrong-PIN attempts for the same user cannot lose an increment.
	mu sync.Mutex

	now func() time.Time
}

func NewOverrideService(credentials CredentialStore, tokens, rateLimits store.TTLStore, audit AuditSink, logger *zap.Logger, cfg OverrideConfig) *OverrideService {
	cfg.applyDefaults()
	return &OverrideService{
		credentials: credentials,
		tokens:      tokens,
		rateLimits:  rateLimits,
		audit:       audit,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SetPin hashes and stores a new override PIN. When a PIN already
// exists the current one must be supplied.
func (s *OverrideService) SetPin(ctx context.Context, userID uuid.UUID, currentPin, newPin string) error {
	if len(newPin) < 4 {
		return errors.New("PIN must be at least 4 digits")
	}

	existing, err := s.credentials.GetPinHash(ctx, userID)
	if err != nil {
		return err
	}
	if existing != "" {
		if bcrypt.CompareHashAndPassword([]byte(existing), []byte(currentPin)) != nil {
			return ErrPinIncorrect
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return s.credentials.SetPinHash(ctx, userID, string(hash))
}

// RequestOverride verifies the PIN and, on success, issues a single-use
// token bound to the user, the allergen being overridden, and the exact
// request text. The rate-limit check runs before the hash comparison so
// a locked-out caller learns nothing from response timing.
func (s *OverrideService) RequestOverride(ctx context.Context, userID uuid.UUID, pin, allergen, mealRequestText string) (*OverrideToken, error) {
	hash, err := s.credentials.GetPinHash(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hash == "" {
		return nil, ErrNoPinConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadRateLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record != nil && record.LockedUntil != nil && record.LockedUntil.After(s.now()) {
		return nil, &RateLimitedError{RetryAfter: record.LockedUntil.Sub(s.now())}
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		if err := s.recordFailure(ctx, userID, record); err != nil {
			s.logger.Error("failed to record PIN failure", zap.Error(err), zap.String("user_id", userID.String()))
		}
		return nil, ErrPinIncorrect
	}

	// Correct PIN clears any accumulated failures.
	if record != nil {
		if err := s.rateLimits.Delete(ctx, userID.String()); err != nil {
			s.logger.Warn("failed to clear rate limit record", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}

	token, err := s.issueToken(ctx, userID, allergen, mealRequestText)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// ConsumeOverride validates a token and deletes it in the same step, so
// it can authorize exactly one generation. A missing, mismatched, or
// expired token yields (nil, false) and the caller falls back to normal
// blocking; it never returns an error to the end user.
func (s *OverrideService) ConsumeOverride(ctx context.Context, token string, userID uuid.UUID) (*OverrideClaim, bool) {
	data, ok, err := s.tokens.Get(ctx, token)
	if err != nil {
		s.logger.Error("token lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var stored OverrideToken
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error("corrupt override token", zap.Error(err))
		_ = s.tokens.Delete(ctx, token)
		return nil, false
	}

	if stored.UserID != userID.String() {
		return nil, false
	}
	if !stored.ExpiresAt.After(s.now()) {
		_ = s.tokens.Delete(ctx, token)
		return nil, false
	}

	// Single use: delete before reporting success.
	if err := s.tokens.Delete(ctx, token); err != nil {
		s.logger.Error("failed to delete consumed token", zap.Error(err))
		return nil, false
	}

	s.auditOverride(ctx, userID, stored)

	return &OverrideClaim{
		Allergen:        stored.Allergen,
		MealRequestText: stored.MealRequestText,
	}, true
}

func (s *OverrideService) issueToken(ctx context.Context, userID uuid.UUID, allergen, mealRequestText string) (*OverrideToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &OverrideToken{
		Token:           hex.EncodeToString(raw),
		UserID:          userID.String(),
		Allergen:        allergen,
		MealRequestText: mealRequestText,
		ExpiresAt:       s.now().Add(s.cfg.TokenTTL),
	}

	data, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := s.tokens.Set(ctx, token.Token, data, s.cfg.TokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *OverrideService) loadRateLimit(ctx context.Context, userID uuid.UUID) (*rateLimitRecord, error) {
	data, ok, err := s.rateLimits.Get(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load rate limit record: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var record rateLimitRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt rate limit record: %w", err)
	}
	return &record, nil
}

func (s *OverrideService) recordFailure(ctx context.Context, userID uuid.UUID, record *rateLimitRecord) error {
	if record == nil {
		record = &rateLimitRecord{UserID: userID.String()}
	}
	record.Attempts++
	if record.Attempts >= s.cfg.MaxPinAttempts {
		lockedUntil := s.now().Add(s.cfg.LockoutDuration)
		record.LockedUntil = &lockedUntil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal rate limit record: %w", err)
	}
	return s.rateLimits.Set(ctx, userID.String(), data, s.cfg.LockoutDuration)
}

// auditOverride writes one audit row per consumed override. Audit
// failures are logged and swallowed: the decision already happened and
// must not be undone by a logging problem.
func (s *OverrideService) auditOverride(ctx context.Context, userID uuid.UUID, token OverrideToken) {
	if s.audit == nil {
		return
	}
	entry := &models.SafetyAuditLog{
		ID:                uuid.New(),
		UserID:            userID,
		MealRequestText:   token.MealRequestText,
		AllergenTriggered: token.Allergen,
		SafetyMode:        models.SafetyModeOverride,
		BuilderID:         s.cfg.BuilderID,
		OverrideReason:    "user re-authenticated with PIN",
		TablesVersion:     safety.TablesVersion,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to write override audit entry",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("allergen", token.Allergen),
		)
	}
}
