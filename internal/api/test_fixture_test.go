package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
	"github.com/bigidrise/mealguard/internal/service"
	"github.com/bigidrise/mealguard/internal/store"
)

type stubGenerator struct {
	meal *safety.MealOutput
}

func (g *stubGenerator) Generate(context.Context, string, []string, []string) (*safety.MealOutput, error) {
	if g.meal != nil {
		return g.meal, nil
	}
	return &safety.MealOutput{
		Name:        "Plain Rice Bowl",
		Ingredients: []safety.Ingredient{{Name: "rice"}, {Name: "carrots"}},
	}, nil
}

type fixture struct {
	router    *gin.Engine
	db        *gorm.DB
	tokens    *service.TokenService
	overrides *service.OverrideService
	generator *stubGenerator
	userID    uuid.UUID
	auth      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DietaryPreference{},
		&models.Allergen{},
		&models.HealthCondition{},
		&models.AvoidedIngredient{},
		&models.SafetyAuditLog{},
	))

	user := models.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com"}
	require.NoError(t, db.Create(&user).Error)

	logger := zap.NewNop()
	profiles := service.NewProfileService(db)
	audit := service.NewAuditService(db)

	tokenStore := store.NewMemoryStore(time.Hour)
	rateStore := store.NewMemoryStore(time.Hour)
	t.Cleanup(tokenStore.Close)
	t.Cleanup(rateStore.Close)

	overrides := service.NewOverrideService(profiles, tokenStore, rateStore, audit, logger, service.OverrideConfig{})
	generator := &stubGenerator{}
	gate := service.NewGateService(profiles, generator, overrides, audit, logger, service.GateConfig{})
	tokens := service.NewTokenService("test-secret", time.Hour)

	router := gin.New()
	SetupAPI(router, Deps{
		Gate:      gate,
		Overrides: overrides,
		Audit:     audit,
		Tokens:    tokens,
	})

	jwt, err := tokens.GenerateToken(user.ID, "testuser")
	require.NoError(t, err)

	return &fixture{
		router:    router,
		db:        db,
		tokens:    tokens,
		overrides: overrides,
		generator: generator,
		userID:    user.ID,
		auth:      "Bearer " + jwt,
	}
}

func (f *fixture) addAllergy(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Allergen{
		ID: uuid.New(), UserID: f.userID, AllergenName: name, SeverityLevel: 5,
	}).Error)
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.auth)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
