package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigidrise/mealguard/internal/safety"
)

func TestAssessEndpointSafe(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	w := fx.do(t, http.MethodPost, "/api/v1/safety/assess", map[string]string{"text": "grilled chicken"})
	require.Equal(t, http.StatusOK, w.Code)

	var assessment safety.Assessment
	decode(t, w, &assessment)
	assert.Equal(t, safety.ResultSafe, assessment.Result)
}

func TestAssessEndpointBlocked(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	w := fx.do(t, http.MethodPost, "/api/v1/safety/assess", map[string]string{"text": "I want pad thai"})
	require.Equal(t, http.StatusOK, w.Code)

	var assessment safety.Assessment
	decode(t, w, &assessment)
	assert.Equal(t, safety.ResultBlocked, assessment.Result)
	assert.Contains(t, assessment.BlockedCategories, "peanuts")
	assert.NotEmpty(t, assessment.Message)
}

func TestAssessEndpointRequiresAuth(t *testing.T) {
	fx := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/safety/assess", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssessEndpointRejectsEmptyBody(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/safety/assess", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "dairy")

	meal := safety.MealOutput{
		Name:        "Mac and Cheese",
		Ingredients: []safety.Ingredient{{Name: "pasta"}, {Name: "cheddar cheese"}},
	}
	w := fx.do(t, http.MethodPost, "/api/v1/safety/validate", map[string]any{"meal": meal})
	require.Equal(t, http.StatusOK, w.Code)

	var assessment safety.Assessment
	decode(t, w, &assessment)
	assert.Equal(t, safety.ResultBlocked, assessment.Result)
}

func TestGenerateEndpointSafe(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	w := fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{"text": "a rice bowl"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meal       safety.MealOutput `json:"meal"`
		Assessment safety.Assessment `json:"assessment"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Plain Rice Bowl", resp.Meal.Name)
	assert.Equal(t, safety.ResultSafe, resp.Assessment.Result)
}

func TestGenerateEndpointBlocked(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	w := fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{"text": "I want pad thai"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Assessment safety.Assessment `json:"assessment"`
	}
	decode(t, w, &resp)
	assert.Equal(t, safety.ResultBlocked, resp.Assessment.Result)
}

func TestGenerateEndpointAmbiguous(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "shellfish")

	w := fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{"text": "I want paella"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{
		"text":             "I want paella",
		"accept_ambiguous": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateEndpointWithOverride(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	// Configure a PIN and obtain an override token through the API.
	w := fx.do(t, http.MethodPut, "/api/v1/override/pin", map[string]string{"new_pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do(t, http.MethodPost, "/api/v1/override/request", map[string]string{
		"pin":               "1234",
		"allergen":          "peanuts",
		"meal_request_text": "I want pad thai",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var issued struct {
		Token string `json:"token"`
	}
	decode(t, w, &issued)
	require.NotEmpty(t, issued.Token)

	w = fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{
		"text":           "I want pad thai",
		"override_token": issued.Token,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Token is single use.
	w = fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{
		"text":           "I want pad thai",
		"override_token": issued.Token,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateEndpointUnsafeOutput(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")
	fx.generator.meal = &safety.MealOutput{
		Name:        "Peanut Noodles",
		Ingredients: []safety.Ingredient{{Name: "peanut butter"}},
	}

	w := fx.do(t, http.MethodPost, "/api/v1/safety/generate", map[string]any{"text": "a noodle dish"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTermsEndpoint(t *testing.T) {
	fx := newFixture(t)
	fx.addAllergy(t, "peanuts")

	w := fx.do(t, http.MethodGet, "/api/v1/safety/terms", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Terms         []string `json:"terms"`
		TablesVersion string   `json:"tables_version"`
	}
	decode(t, w, &resp)
	assert.Contains(t, resp.Terms, "peanut")
	assert.Contains(t, resp.Terms, "pad thai")
	assert.Equal(t, safety.TablesVersion, resp.TablesVersion)
}
