package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
	"github.com/bigidrise/mealguard/internal/store"
)

type fakeProfileLoader struct {
	profiles map[string]safety.Profile
}

func (f *fakeProfileLoader) LoadProfile(_ context.Context, userID uuid.UUID) (safety.Profile, error) {
	profile, ok := f.profiles[userID.String()]
	if !ok {
		return safety.Profile{}, ErrProfileNotFound
	}
	return profile, nil
}

type scriptedGenerator struct {
	mu      sync.Mutex
	outputs []safety.MealOutput
	err     error
	calls   int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _, _ []string) (*safety.MealOutput, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	idx := g.calls
	if idx >= len(g.outputs) {
		idx = len(g.outputs) - 1
	}
	g.calls++
	meal := g.outputs[idx]
	return &meal, nil
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func safeMeal() safety.MealOutput {
	return safety.MealOutput{
		Name:        "Grilled Chicken Bowl",
		Description: "Chicken with rice and vegetables",
		Ingredients: []safety.Ingredient{{Name: "chicken breast"}, {Name: "rice"}, {Name: "broccoli"}},
		Instructions: []string{
			"Grill the chicken.",
			"Steam the rice and broccoli.",
		},
	}
}

func peanutMeal() safety.MealOutput {
	meal := safeMeal()
	meal.Ingredients = append(meal.Ingredients, safety.Ingredient{Name: "peanut sauce"})
	return meal
}

type gateFixture struct {
	gate      *GateService
	generator *scriptedGenerator
	overrides *OverrideService
	audit     *recordingAuditSink
	userID    uuid.UUID
}

func newGateFixture(t *testing.T, profile safety.Profile, cfg GateConfig) *gateFixture {
	t.Helper()

	userID := uuid.New()
	profile.UserID = userID.String()
	loader := &fakeProfileLoader{profiles: map[string]safety.Profile{userID.String(): profile}}

	tokens := store.NewMemoryStore(time.Hour)
	rateLimits := store.NewMemoryStore(time.Hour)
	t.Cleanup(tokens.Close)
	t.Cleanup(rateLimits.Close)

	audit := &recordingAuditSink{}
	overrides := NewOverrideService(newFakeCredentialStore(), tokens, rateLimits, audit, zap.NewNop(), OverrideConfig{})
	generator := &scriptedGenerator{outputs: []safety.MealOutput{safeMeal()}}

	return &gateFixture{
		gate:      NewGateService(loader, generator, overrides, audit, zap.NewNop(), cfg),
		generator: generator,
		overrides: overrides,
		audit:     audit,
		userID:    userID,
	}
}

func TestGenerateMealSafeRequest(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})

	meal, assessment, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want a chicken rice bowl", "", false)
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, safety.ResultSafe, assessment.Result)
	assert.Equal(t, 1, fx.generator.callCount())
	assert.Empty(t, fx.audit.all())
}

func TestGenerateMealBlockedWithoutOverride(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})

	meal, assessment, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want pad thai", "", false)
	assert.ErrorIs(t, err, ErrRequestBlocked)
	assert.Nil(t, meal)
	assert.Equal(t, safety.ResultBlocked, assessment.Result)
	assert.Equal(t, 0, fx.generator.callCount(), "generator must never run on a blocked request")

	entries := fx.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.SafetyModeBlocked, entries[0].SafetyMode)
	assert.Equal(t, "I want pad thai", entries[0].MealRequestText)
	assert.Equal(t, "peanuts", entries[0].AllergenTriggered)
}

func TestGenerateMealBlockedWithOverride(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})

	require.NoError(t, fx.overrides.SetPin(ctx, fx.userID, "", "1234"))
	token, err := fx.overrides.RequestOverride(ctx, fx.userID, "1234", "peanuts", "I want pad thai")
	require.NoError(t, err)

	meal, assessment, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want pad thai", token.Token, false)
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, safety.ResultBlocked, assessment.Result, "assessment still reports the block even when overridden")
	assert.Equal(t, 1, fx.generator.callCount())

	entries := fx.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.SafetyModeOverride, entries[0].SafetyMode)

	// The token is spent: the same request blocks again.
	_, _, err = fx.gate.GenerateMeal(ctx, fx.userID, "I want pad thai", token.Token, false)
	assert.ErrorIs(t, err, ErrRequestBlocked)
}

func TestGenerateMealAmbiguousRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"shellfish"}}, GateConfig{})

	meal, assessment, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want paella", "", false)
	assert.ErrorIs(t, err, ErrAmbiguousRequest)
	assert.Nil(t, meal)
	assert.Equal(t, safety.ResultAmbiguous, assessment.Result)
	assert.Equal(t, 0, fx.generator.callCount())

	meal, _, err = fx.gate.GenerateMeal(ctx, fx.userID, "I want paella", "", true)
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, 1, fx.generator.callCount())
}

func TestGenerateMealRetriesUnsafeOutputOnce(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})
	fx.generator.outputs = []safety.MealOutput{peanutMeal(), safeMeal()}

	meal, _, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want a noodle dish", "", false)
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, 2, fx.generator.callCount(), "first output was unsafe, one retry expected")
	assert.Equal(t, "Grilled Chicken Bowl", meal.Name)
}

func TestGenerateMealGivesUpAfterTwoUnsafeOutputs(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})
	fx.generator.outputs = []safety.MealOutput{peanutMeal(), peanutMeal()}

	meal, _, err := fx.gate.GenerateMeal(ctx, fx.userID, "I want a noodle dish", "", false)
	assert.ErrorIs(t, err, ErrUnsafeOutput)
	assert.Nil(t, meal, "unsafe output must never be returned")
	assert.Equal(t, 2, fx.generator.callCount())
}

func TestGenerateMealGeneratorError(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{}, GateConfig{})
	fx.generator.err = errors.New("upstream timeout")

	_, _, err := fx.gate.GenerateMeal(ctx, fx.userID, "anything", "", false)
	assert.ErrorContains(t, err, "meal generation failed")
}

func TestGenerateMealMissingProfileFailClosed(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{}, GateConfig{})

	_, _, err := fx.gate.GenerateMeal(ctx, uuid.New(), "I want pad thai", "", false)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, 0, fx.generator.callCount())
}

func TestGenerateMealMissingProfileFailOpen(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{}, GateConfig{FailOpenMissingProfile: true})

	meal, assessment, err := fx.gate.GenerateMeal(ctx, uuid.New(), "I want pad thai", "", false)
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, safety.ResultSafe, assessment.Result)
}

func TestAssessRequestAuditsHardBlocks(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"shellfish"}}, GateConfig{})

	assessment, err := fx.gate.AssessRequest(ctx, fx.userID, "shrimp scampi")
	require.NoError(t, err)
	assert.Equal(t, safety.ResultBlocked, assessment.Result)

	entries := fx.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.SafetyModeBlocked, entries[0].SafetyMode)
	assert.NotEmpty(t, entries[0].BuilderID)
}

func TestValidateOutputThroughGate(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}}, GateConfig{})

	assessment, err := fx.gate.ValidateOutput(ctx, fx.userID, peanutMeal())
	require.NoError(t, err)
	assert.Equal(t, safety.ResultBlocked, assessment.Result)
	assert.Contains(t, assessment.BlockedTerms, "peanut")
}

func TestBuildForbiddenTermsThroughGate(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t, safety.Profile{Allergies: []string{"peanuts"}, AvoidIngredients: []string{"cilantro"}}, GateConfig{})

	terms, err := fx.gate.BuildForbiddenTerms(ctx, fx.userID)
	require.NoError(t, err)
	assert.Contains(t, terms, "peanut")
	assert.Contains(t, terms, "pad thai")
	assert.Contains(t, terms, "cilantro")
}
