package safety

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a gate check.
type Result string

const (
	ResultSafe      Result = "safe"
	ResultAmbiguous Result = "ambiguous"
	ResultBlocked   Result = "blocked"
)

// Profile holds everything about a user that the gate checks against.
// It is loaded fresh for every assessment and never cached, so profile
// edits take effect immediately.
type Profile struct {
	UserID              string   `json:"user_id"`
	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	HealthConditions    []string `json:"health_conditions"`
	AvoidIngredients    []string `json:"avoid_ingredients"`
}

// HasRestrictions reports whether there is anything to check at all.
func (p Profile) HasRestrictions() bool {
	return len(p.Allergies) > 0 || len(p.DietaryRestrictions) > 0
}

// Assessment is the result of checking a request or a generated meal
// against a user's profile. It is built once and never mutated.
type Assessment struct {
	Result            Result   `json:"result"`
	BlockedTerms      []string `json:"blocked_terms,omitempty"`
	BlockedCategories []string `json:"blocked_categories,omitempty"`
	AmbiguousTerms    []string `json:"ambiguous_terms,omitempty"`
	Message           string   `json:"message,omitempty"`
	Suggestion        string   `json:"suggestion,omitempty"`
}

// Safe reports whether the caller may proceed without further action.
func (a Assessment) Safe() bool {
	return a.Result == ResultSafe
}

// Ingredient is a single ingredient of a generated meal. Generators are
// inconsistent about shape: some emit bare strings, some objects with a
// name field. Both decode into the same type.
type Ingredient struct {
	Name string `json:"name"`
}

func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.Name = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		i.Name = obj.Name
		return nil
	}

	return fmt.Errorf("invalid ingredient format: %s", string(data))
}

func (i Ingredient) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: i.Name})
}

// MealOutput is the structured output of a meal generator, the exact
// shape the post-generation validator inspects.
type MealOutput struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
}
