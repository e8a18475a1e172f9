package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
)

// ErrUnsafeOutput means the generator produced a meal containing a
// forbidden ingredient twice in a row. The output has been discarded;
// nothing unsafe is ever returned alongside this error.
var ErrUnsafeOutput = errors.New("generated meal failed safety validation")

// ErrRequestBlocked means the pre-generation gate rejected the request
// and no valid override was supplied.
var ErrRequestBlocked = errors.New("request blocked by safety gate")

// ErrAmbiguousRequest means the request names a dish that typically
// conflicts with the user's allergies; the caller must confirm before
// generation proceeds.
var ErrAmbiguousRequest = errors.New("request needs confirmation")

// GateConfig tunes the orchestrator.
type GateConfig struct {
	// FailOpenMissingProfile controls what happens when a user has no
	// profile at all: true treats the request as safe with a logged
	// warning, false rejects it. Kept as an explicit switch because
	// the two postures disagree and neither is obviously right.
	FailOpenMissingProfile bool
	// BuilderID identifies this gate instance on audit rows.
	BuilderID string
}

// GateService runs the full safety flow around an external meal
// generator: assess the request, honor overrides, generate, and
// validate the output before anyone sees it.
type GateService struct {
	profiles  ProfileLoader
	generator MealGenerator
	overrides *OverrideService
	audit     AuditSink
	logger    *zap.Logger
	cfg       GateConfig
}

func NewGateService(profiles ProfileLoader, generator MealGenerator, overrides *OverrideService, audit AuditSink, logger *zap.Logger, cfg GateConfig) *GateService {
	if cfg.BuilderID == "" {
		cfg.BuilderID = uuid.New().String()
	}
	return &GateService{
		profiles:  profiles,
		generator: generator,
		overrides: overrides,
		audit:     audit,
		logger:    logger,
		cfg:       cfg,
	}
}

// AssessRequest loads the profile fresh and runs the pre-generation
// gate. Hard blocks are audited fire-and-forget.
func (g *GateService) AssessRequest(ctx context.Context, userID uuid.UUID, text string) (safety.Assessment, error) {
	profile, err := g.loadProfile(ctx, userID)
	if err != nil {
		return safety.Assessment{}, err
	}

	assessment := safety.AssessRequest(text, profile)
	if assessment.Result == safety.ResultBlocked {
		g.auditBlock(ctx, userID, text, assessment)
	}
	return assessment, nil
}

// ValidateOutput loads the profile fresh and re-checks a generated
// meal.
func (g *GateService) ValidateOutput(ctx context.Context, userID uuid.UUID, meal safety.MealOutput) (safety.Assessment, error) {
	profile, err := g.loadProfile(ctx, userID)
	if err != nil {
		return safety.Assessment{}, err
	}
	return safety.ValidateOutput(meal, profile), nil
}

// BuildForbiddenTerms exposes the user's current term bank.
func (g *GateService) BuildForbiddenTerms(ctx context.Context, userID uuid.UUID) ([]string, error) {
	profile, err := g.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return safety.BuildForbiddenTerms(profile).Terms(), nil
}

// GenerateMeal is the whole gate in one call. On a blocked assessment a
// valid override token (consumed here, single use) lets generation
// proceed; an ambiguous assessment requires acceptAmbiguous. Generator
// output is validated and regenerated once before giving up.
func (g *GateService) GenerateMeal(ctx context.Context, userID uuid.UUID, text, overrideToken string, acceptAmbiguous bool) (*safety.MealOutput, safety.Assessment, error) {
	profile, err := g.loadProfile(ctx, userID)
	if err != nil {
		return nil, safety.Assessment{}, err
	}

	assessment := safety.AssessRequest(text, profile)
	switch assessment.Result {
	case safety.ResultBlocked:
		claim, ok := g.consumeOverride(ctx, userID, overrideToken)
		if !ok {
			g.auditBlock(ctx, userID, text, assessment)
			return nil, assessment, ErrRequestBlocked
		}
		g.logger.Info("override accepted",
			zap.String("user_id", userID.String()),
			zap.String("allergen", claim.Allergen),
		)
	case safety.ResultAmbiguous:
		if !acceptAmbiguous {
			return nil, assessment, ErrAmbiguousRequest
		}
	}

	meal, err := g.generateValidated(ctx, text, profile)
	if err != nil {
		return nil, assessment, err
	}
	return meal, assessment, nil
}

// generateValidated invokes the generator and validates its output,
// retrying once. The validator is the last line of defense against a
// non-deterministic generator, so its verdict is final.
func (g *GateService) generateValidated(ctx context.Context, text string, profile safety.Profile) (*safety.MealOutput, error) {
	const maxAttempts = 2

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		meal, err := g.generator.Generate(ctx, text, profile.DietaryRestrictions, profile.Allergies)
		if err != nil {
			return nil, fmt.Errorf("meal generation failed: %w", err)
		}

		check := safety.ValidateOutput(*meal, profile)
		if check.Result == safety.ResultSafe {
			return meal, nil
		}

		g.logger.Warn("discarding unsafe generator output",
			zap.Int("attempt", attempt),
			zap.Strings("blocked_terms", check.BlockedTerms),
		)
	}
	return nil, ErrUnsafeOutput
}

func (g *GateService) consumeOverride(ctx context.Context, userID uuid.UUID, token string) (*OverrideClaim, bool) {
	if token == "" || g.overrides == nil {
		return nil, false
	}
	return g.overrides.ConsumeOverride(ctx, token, userID)
}

// loadProfile applies the missing-profile policy: fail-open returns an
// unrestricted profile with a logged warning, fail-closed propagates
// the error.
func (g *GateService) loadProfile(ctx context.Context, userID uuid.UUID) (safety.Profile, error) {
	profile, err := g.profiles.LoadProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, ErrProfileNotFound) && g.cfg.FailOpenMissingProfile {
		g.logger.Warn("no safety profile found, proceeding unrestricted",
			zap.String("user_id", userID.String()),
		)
		return safety.Profile{UserID: userID.String()}, nil
	}
	return safety.Profile{}, err
}

// auditBlock writes one audit row per hard block. Fire-and-forget: a
// failing audit store never changes the safety decision.
func (g *GateService) auditBlock(ctx context.Context, userID uuid.UUID, text string, assessment safety.Assessment) {
	if g.audit == nil {
		return
	}

	allergen := ""
	if len(assessment.BlockedCategories) > 0 {
		allergen = assessment.BlockedCategories[0]
	}

	entry := &models.SafetyAuditLog{
		ID:                uuid.New(),
		UserID:            userID,
		MealRequestText:   text,
		AllergenTriggered: allergen,
		SafetyMode:        models.SafetyModeBlocked,
		BuilderID:         g.cfg.BuilderID,
		TablesVersion:     safety.TablesVersion,
	}
	if err := g.audit.Append(ctx, entry); err != nil {
		g.logger.Error("failed to write block audit entry",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
	}
}
