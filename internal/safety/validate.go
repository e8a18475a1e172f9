package safety

import "strings"

// ValidateOutput re-checks a generated meal against the profile. It is
// the last line of defense against a non-deterministic generator: a
// blocked result means the caller must discard the output and either
// regenerate or fail the request, never serve it.
//
// Only literal term matching runs here. The ambiguous-dish heuristics
// are for request text, where ingredients are unknown; by this stage
// the ingredient list is explicit and literal matching is authoritative.
func ValidateOutput(meal MealOutput, profile Profile) Assessment {
	if !profile.HasRestrictions() {
		return Assessment{Result: ResultSafe}
	}

	bank := BuildForbiddenTerms(profile)
	if matched := MatchTerms(mealText(meal), bank); len(matched) > 0 {
		return blockedAssessment(matched, profile)
	}

	return Assessment{Result: ResultSafe}
}

// mealText flattens every text field of a generated meal into one blob
// so a forbidden ingredient is caught wherever the generator put it.
func mealText(meal MealOutput) string {
	parts := make([]string, 0, 2+len(meal.Ingredients)+len(meal.Instructions))
	parts = append(parts, meal.Name, meal.Description)
	for _, ingredient := range meal.Ingredients {
		parts = append(parts, ingredient.Name)
	}
	parts = append(parts, meal.Instructions...)
	return strings.Join(parts, "\n")
}
