package safety

import "fmt"

// AssessRequest checks a raw user request against the profile before
// any generation happens. A literal forbidden term always outranks an
// ambiguous-dish warning: it is the stronger signal. The function is
// deterministic and side-effect free; callers own audit logging.
func AssessRequest(text string, profile Profile) Assessment {
	if !profile.HasRestrictions() {
		return Assessment{Result: ResultSafe}
	}

	bank := BuildForbiddenTerms(profile)
	if matched := MatchTerms(text, bank); len(matched) > 0 {
		return blockedAssessment(matched, profile)
	}

	if hits := CheckAmbiguousDishes(text, profile); len(hits) > 0 {
		return ambiguousAssessment(hits)
	}

	return Assessment{Result: ResultSafe}
}

func blockedAssessment(matched []string, profile Profile) Assessment {
	categories := make([]string, 0, len(matched))
	seen := make(map[string]struct{})
	for _, term := range matched {
		category := CategoryForTerm(term, profile)
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	first := matched[0]
	return Assessment{
		Result:            ResultBlocked,
		BlockedTerms:      matched,
		BlockedCategories: categories,
		Message: fmt.Sprintf(
			"This request includes %q, which conflicts with your %s restriction.",
			first, CategoryForTerm(first, profile),
		),
		Suggestion: fmt.Sprintf("Try %s instead.", SubstitutionFor(first)),
	}
}

func ambiguousAssessment(hits []DishMatch) Assessment {
	terms := make([]string, 0, len(hits))
	for _, hit := range hits {
		terms = append(terms, hit.Dish)
	}

	first := hits[0]
	return Assessment{
		Result:         ResultAmbiguous,
		AmbiguousTerms: terms,
		Message:        first.Info.Warning,
		Suggestion:     first.Info.SafeAlternative,
	}
}
