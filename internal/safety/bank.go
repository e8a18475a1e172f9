package safety

import "sort"

// TermBank is a deduplicated set of normalized forbidden terms, rebuilt
// from the profile on every assessment so profile edits apply
// immediately. It is never persisted.
type TermBank map[string]struct{}

func NewTermBank() TermBank {
	return make(TermBank)
}

func (b TermBank) Add(term string) {
	t := Normalize(term)
	if t == "" {
		return
	}
	b[t] = struct{}{}
}

func (b TermBank) Has(term string) bool {
	_, ok := b[Normalize(term)]
	return ok
}

func (b TermBank) Len() int {
	return len(b)
}

// Terms returns the bank contents in sorted order. Sorting keeps match
// results and messages reproducible for identical inputs.
func (b TermBank) Terms() []string {
	terms := make([]string, 0, len(b))
	for t := range b {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Expansion is the outcome of looking a label up in an expansion table.
// The fallback from an unknown allergy label to the label itself is an
// explicit branch here, not a silent default, so tests can see it.
type Expansion struct {
	Label    string
	Terms    []string
	Expanded bool
}

// ExpandAllergy resolves an allergy label (through its aliases) to its
// full term set. Unknown labels come back Expanded=false with the
// normalized label as the sole term: an allergy we don't recognize is
// still an allergy, never dropped.
func ExpandAllergy(label string) Expansion {
	key := canonicalAllergy(label)
	if terms, ok := allergyExpansions[key]; ok {
		return Expansion{Label: key, Terms: terms, Expanded: true}
	}
	return Expansion{Label: key, Terms: []string{key}, Expanded: false}
}

// ExpandRestriction resolves a dietary restriction label. Unknown
// restriction labels expand to nothing: "vegan" is a diet, not an
// ingredient word, so there is no sensible literal fallback.
func ExpandRestriction(label string) Expansion {
	key := canonicalRestriction(label)
	if terms, ok := restrictionExpansions[key]; ok {
		return Expansion{Label: key, Terms: terms, Expanded: true}
	}
	return Expansion{Label: key, Expanded: false}
}

func canonicalAllergy(label string) string {
	key := Normalize(label)
	if canonical, ok := allergyAliases[key]; ok {
		return canonical
	}
	return key
}

func canonicalRestriction(label string) string {
	key := Normalize(label)
	if canonical, ok := restrictionAliases[key]; ok {
		return canonical
	}
	return key
}

// BuildForbiddenTerms derives the forbidden term bank for a profile:
// every expanded allergy term (or the raw label when unrecognized),
// every expanded restriction term, and every explicit avoid-ingredient
// verbatim. It always succeeds; an unrestricted profile yields an empty
// bank.
func BuildForbiddenTerms(profile Profile) TermBank {
	bank := NewTermBank()

	for _, allergy := range profile.Allergies {
		exp := ExpandAllergy(allergy)
		for _, term := range exp.Terms {
			bank.Add(term)
		}
	}

	for _, restriction := range profile.DietaryRestrictions {
		exp := ExpandRestriction(restriction)
		for _, term := range exp.Terms {
			bank.Add(term)
		}
	}

	for _, ingredient := range profile.AvoidIngredients {
		bank.Add(ingredient)
	}

	return bank
}

// CategoryForTerm reverse-maps a matched term to the profile label whose
// expansion produced it, checking the user's allergies first (the
// stronger signal), then restrictions, then the avoid list.
func CategoryForTerm(term string, profile Profile) string {
	t := Normalize(term)

	for _, allergy := range profile.Allergies {
		exp := ExpandAllergy(allergy)
		for _, candidate := range exp.Terms {
			if candidate == t {
				return exp.Label
			}
		}
	}

	for _, restriction := range profile.DietaryRestrictions {
		exp := ExpandRestriction(restriction)
		for _, candidate := range exp.Terms {
			if candidate == t {
				return exp.Label
			}
		}
	}

	for _, ingredient := range profile.AvoidIngredients {
		if Normalize(ingredient) == t {
			return "avoided ingredient"
		}
	}

	return "restricted ingredient"
}

// SubstitutionFor suggests a safe swap for a blocked term.
func SubstitutionFor(term string) string {
	if sub, ok := substitutions[Normalize(term)]; ok {
		return sub
	}
	return genericSubstitution
}
