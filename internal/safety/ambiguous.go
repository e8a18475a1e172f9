package safety

import (
	"sort"
	"strings"
)

// DishMatch is an ambiguous dish found in a request together with its
// table entry.
type DishMatch struct {
	Dish string
	Info DishInfo
}

// CheckAmbiguousDishes scans text for dish names whose typical recipe
// conflicts with one of the user's allergies. A dish only counts when
// its allergen categories intersect the user's own allergy list;
// without that gate every user would be warned about every risky dish
// regardless of what they are allergic to.
func CheckAmbiguousDishes(text string, profile Profile) []DishMatch {
	normalized := Normalize(text)

	dishes := make([]string, 0, len(ambiguousDishes))
	for dish := range ambiguousDishes {
		dishes = append(dishes, dish)
	}
	sort.Strings(dishes)

	var matches []DishMatch
	for _, dish := range dishes {
		if !matchesWord(normalized, dish) {
			continue
		}
		info := ambiguousDishes[dish]
		if !categoriesIntersect(info.AllergenCategories, profile.Allergies) {
			continue
		}
		matches = append(matches, DishMatch{Dish: dish, Info: info})
	}
	return matches
}

// categoriesIntersect reports whether any dish category matches any of
// the user's allergy labels, by equality or substring in either
// direction ("tree nuts" vs "nuts", "shellfish" vs "shellfish allergy").
func categoriesIntersect(categories, allergies []string) bool {
	for _, category := range categories {
		c := canonicalAllergy(category)
		for _, allergy := range allergies {
			a := canonicalAllergy(allergy)
			if c == a || strings.Contains(a, c) || strings.Contains(c, a) {
				return true
			}
		}
	}
	return false
}
