// Package planner generates multi-day meal plans and scores recipe
// candidates against pantry contents and user preferences.
package planner

import (
	"strings"

	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/outbound"
)

// ExclusionScore is the sentinel for recipes containing an allergen
// ingredient. Such recipes must never be selected, regardless of mode.
const ExclusionScore = -1

// Scoring weights. Heuristic policy knobs, tunable rather than derived
// from any model.
const (
	NewCuisineBonus = 0.15

	PreferenceBase        = 50
	CuisineLikeBonus      = 30
	CuisineDislikePenalty = 50
	LikedTagBonus         = 10
	AvoidedTagPenalty     = 20
	PantryOverlapBonus    = 5
	TagDiversityBonus     = 10
	TagDiversityThreshold = 3
)

// PantryDiversityScore rates a candidate for plan generation: pantry
// overlap ratio plus a bonus for cuisines not yet picked in this run.
// Returns ExclusionScore when any ingredient id is in the allergen set.
func PantryDiversityScore(ingredientIDs []string, pantryIDs, allergenIDs map[string]struct{}, cuisine string, usedCuisines map[string]struct{}) float64 {
	for _, id := range ingredientIDs {
		if _, bad := allergenIDs[id]; bad {
			return ExclusionScore
		}
	}

	overlap := 0
	for _, id := range ingredientIDs {
		if _, ok := pantryIDs[id]; ok {
			overlap++
		}
	}

	total := len(ingredientIDs)
	if total < 1 {
		total = 1
	}
	score := float64(overlap) / float64(total)

	if c := normalizeCuisine(cuisine); c != "" {
		if _, used := usedCuisines[c]; !used {
			score += NewCuisineBonus
		}
	}

	return score
}

// PreferenceScore rates a candidate for on-demand recommendations
// against the user's cuisine and tag preferences. Returns
// ExclusionScore when any ingredient id is in the user's allergen set;
// otherwise the score is floored at zero.
func PreferenceScore(doc outbound.RecipeDocument, u *user.User, pantryIDs map[string]struct{}) int {
	for _, ing := range doc.Ingredients {
		if u.IsAllergicTo(ing.IngredientID) {
			return ExclusionScore
		}
	}

	score := PreferenceBase

	if u.LikesCuisine(doc.Cuisine) {
		score += CuisineLikeBonus
	}
	if u.DislikesCuisine(doc.Cuisine) {
		score -= CuisineDislikePenalty
	}

	for _, tag := range doc.Tags {
		strength, ok := u.TagStrengthFor(tag)
		if !ok {
			continue
		}
		switch strength {
		case user.StrengthLike, user.StrengthLove:
			score += LikedTagBonus
		case user.StrengthAvoid:
			score -= AvoidedTagPenalty
		}
	}

	for _, ing := range doc.Ingredients {
		if _, ok := pantryIDs[ing.IngredientID]; ok {
			score += PantryOverlapBonus
		}
	}

	if len(doc.Tags) > TagDiversityThreshold {
		score += TagDiversityBonus
	}

	if score < 0 {
		score = 0
	}
	return score
}

func normalizeCuisine(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
