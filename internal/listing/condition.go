package listing

import (
	"strings"

	"github.com/bluberryhq/bluberry/internal/ebay"
)

// defaultCondition is used when the allowed-condition lookup failed and
// the user text matched no keyword. Downstream stages require a non-empty
// condition, so mapping never returns "".
const defaultCondition = "USED_GOOD"

// conditionPreferences orders condition enum candidates from best to
// worst fit for each recognized keyword group.
var conditionPreferences = []struct {
	keywords   []string
	candidates []string
}{
	{
		keywords:   []string{"new with tags", "brand new", "sealed", "unopened"},
		candidates: []string{"NEW", "NEW_WITH_TAGS", "NEW_OTHER"},
	},
	{
		keywords:   []string{"like new", "like-new", "open box", "mint"},
		candidates: []string{"LIKE_NEW", "USED_EXCELLENT", "NEW_OTHER"},
	},
	{
		keywords:   []string{"excellent"},
		candidates: []string{"USED_EXCELLENT", "LIKE_NEW", "USED_VERY_GOOD"},
	},
	{
		keywords:   []string{"very good"},
		candidates: []string{"USED_VERY_GOOD", "USED_GOOD", "USED_EXCELLENT"},
	},
	{
		keywords:   []string{"good"},
		candidates: []string{"USED_GOOD", "USED_VERY_GOOD", "USED_ACCEPTABLE"},
	},
	{
		keywords:   []string{"fair", "acceptable", "worn", "poor"},
		candidates: []string{"USED_ACCEPTABLE", "USED_GOOD", "FOR_PARTS_OR_NOT_WORKING"},
	},
	{
		keywords:   []string{"broken", "parts", "not working", "damaged"},
		candidates: []string{"FOR_PARTS_OR_NOT_WORKING", "USED_ACCEPTABLE"},
	},
	{
		keywords:   []string{"new"},
		candidates: []string{"NEW", "NEW_OTHER", "LIKE_NEW"},
	},
}

// usedFallbackOrder is tried when no keyword candidate is allowed for
// the category.
var usedFallbackOrder = []string{
	"USED_GOOD", "USED_EXCELLENT", "USED_VERY_GOOD", "USED_ACCEPTABLE", "NEW",
}

// MapCondition maps free-text user condition to a condition enum value.
// When allowed is non-empty the result is always a member of allowed;
// when it is empty (lookup failed upstream) the best-effort keyword match
// is returned so the pipeline can continue.
func MapCondition(userCondition string, allowed []ebay.AllowedCondition) string {
	normalized := strings.ToLower(strings.TrimSpace(userCondition))
	normalized = strings.ReplaceAll(normalized, "-", " ")

	candidates := []string{defaultCondition}
	for _, group := range conditionPreferences {
		if containsAny(normalized, group.keywords) {
			candidates = group.candidates
			break
		}
	}

	if len(allowed) == 0 {
		return candidates[0]
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a.ID] = true
	}

	for _, c := range candidates {
		if allowedSet[c] {
			return c
		}
	}
	for _, c := range usedFallbackOrder {
		if allowedSet[c] {
			return c
		}
	}
	return allowed[0].ID
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
