package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessRequestUnrestrictedProfileAlwaysSafe(t *testing.T) {
	profile := Profile{UserID: "u1"}

	for _, text := range []string{
		"peanut butter shrimp with extra cheese",
		"paella for two",
		"",
	} {
		a := AssessRequest(text, profile)
		assert.Equal(t, ResultSafe, a.Result, "text: %q", text)
	}
}

func TestAssessRequestBlocksLiteralTerm(t *testing.T) {
	profile := Profile{UserID: "u1", Allergies: []string{"shellfish"}}

	a := AssessRequest("garlic shrimp pasta", profile)
	assert.Equal(t, ResultBlocked, a.Result)
	assert.Contains(t, a.BlockedTerms, "shrimp")
	assert.Contains(t, a.BlockedCategories, "shellfish")
	assert.NotEmpty(t, a.Message)
	assert.NotEmpty(t, a.Suggestion)
}

func TestAssessRequestSubstringGuard(t *testing.T) {
	// "eggplant parmesan" contains no whole-word "egg".
	profile := Profile{UserID: "u1", Allergies: []string{"eggs"}}

	a := AssessRequest("eggplant parmesan", profile)
	assert.Equal(t, ResultSafe, a.Result)
}

func TestAssessRequestCompoundWordGuard(t *testing.T) {
	profile := Profile{UserID: "u1", Allergies: []string{"shellfish"}}

	a := AssessRequest("shrimp-fried rice", profile)
	assert.Equal(t, ResultBlocked, a.Result)
	assert.Contains(t, a.BlockedTerms, "shrimp")
}

func TestAssessRequestAmbiguousDishGatedByAllergy(t *testing.T) {
	// Paella only warns users whose allergies intersect its
	// categories.
	dairyOnly := Profile{UserID: "u1", Allergies: []string{"dairy"}}
	a := AssessRequest("I want paella", dairyOnly)
	assert.Equal(t, ResultSafe, a.Result)

	shellfish := Profile{UserID: "u1", Allergies: []string{"shellfish"}}
	a = AssessRequest("I want paella", shellfish)
	require.Equal(t, ResultAmbiguous, a.Result)
	assert.Contains(t, a.AmbiguousTerms, "paella")
	assert.NotEmpty(t, a.Message)
	assert.Equal(t, "vegetable paella made with vegetable stock", a.Suggestion)
}

func TestAssessRequestLiteralOutranksAmbiguous(t *testing.T) {
	// "shrimp paella" has both a literal term and an ambiguous dish;
	// the literal match is the stronger signal and wins.
	profile := Profile{UserID: "u1", Allergies: []string{"shellfish"}}

	a := AssessRequest("shrimp paella", profile)
	assert.Equal(t, ResultBlocked, a.Result)
	assert.Contains(t, a.BlockedTerms, "shrimp")
	assert.Empty(t, a.AmbiguousTerms)
}

func TestAssessRequestRestrictionTerms(t *testing.T) {
	profile := Profile{UserID: "u1", DietaryRestrictions: []string{"vegan"}}

	a := AssessRequest("bacon cheeseburger", profile)
	assert.Equal(t, ResultBlocked, a.Result)
	assert.Contains(t, a.BlockedTerms, "bacon")
	assert.Contains(t, a.BlockedCategories, "vegan")
}

func TestAssessRequestAvoidIngredientAloneDoesNotTrigger(t *testing.T) {
	// With no allergies and no restrictions there is nothing to
	// check and the gate short-circuits to safe.
	profile := Profile{UserID: "u1", AvoidIngredients: []string{"cilantro"}}

	a := AssessRequest("cilantro lime rice", profile)
	assert.Equal(t, ResultSafe, a.Result)
}

func TestAssessRequestPadThaiEndToEnd(t *testing.T) {
	profile := Profile{UserID: "u1", Allergies: []string{"peanuts"}}

	a := AssessRequest("pad thai for dinner", profile)
	require.Equal(t, ResultBlocked, a.Result)
	assert.Contains(t, a.BlockedTerms, "pad thai")
	assert.Contains(t, a.BlockedCategories, "peanuts")
	assert.NotEmpty(t, a.Suggestion)
}

func TestAssessRequestDeterministic(t *testing.T) {
	profile := Profile{
		UserID:              "u1",
		Allergies:           []string{"shellfish", "dairy"},
		DietaryRestrictions: []string{"vegetarian"},
	}
	text := "shrimp alfredo with crab and extra parmesan"

	first := AssessRequest(text, profile)
	second := AssessRequest(text, profile)
	assert.Equal(t, first, second)
}
