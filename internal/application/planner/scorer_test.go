package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/outbound"
)

// ScorerTestSuite covers both scoring modes
type ScorerTestSuite struct {
	suite.Suite
}

func set(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (suite *ScorerTestSuite) TestPantryDiversityScore() {
	suite.Run("AllergenIngredient_ShouldReturnSentinel", func() {
		score := PantryDiversityScore(
			[]string{"ing-a", "ing-peanut"},
			set("ing-a"),
			set("ing-peanut"),
			"thai",
			set(),
		)

		assert.Equal(suite.T(), float64(ExclusionScore), score)
	})

	suite.Run("OverlapRatio_ShouldDriveScore", func() {
		// 2 of 4 ingredients in pantry, cuisine already used
		score := PantryDiversityScore(
			[]string{"ing-a", "ing-b", "ing-c", "ing-d"},
			set("ing-a", "ing-b"),
			set(),
			"thai",
			set("thai"),
		)

		assert.InDelta(suite.T(), 0.5, score, 1e-9)
	})

	suite.Run("NewCuisine_ShouldAddBonus", func() {
		score := PantryDiversityScore(
			[]string{"ing-a", "ing-b"},
			set("ing-a"),
			set(),
			"thai",
			set("italian"),
		)

		assert.InDelta(suite.T(), 0.5+NewCuisineBonus, score, 1e-9)
	})

	suite.Run("EmptyIngredients_ShouldNotDivideByZero", func() {
		score := PantryDiversityScore(nil, set(), set(), "", set())

		assert.InDelta(suite.T(), 0.0, score, 1e-9)
	})

	suite.Run("CuisineComparison_ShouldIgnoreCase", func() {
		score := PantryDiversityScore(
			[]string{"ing-a"},
			set(),
			set(),
			"Thai",
			set("thai"),
		)

		assert.InDelta(suite.T(), 0.0, score, 1e-9)
	})
}

func (suite *ScorerTestSuite) TestPreferenceScore() {
	newUser := func(allergens []string) *user.User {
		u, err := user.New(
			uuid.New(),
			"Sam",
			allergens,
			[]string{"italian"},
			[]string{"fusion"},
			[]user.TagPreference{
				{Tag: "quick", Strength: user.StrengthLike},
				{Tag: "comfort", Strength: user.StrengthLove},
				{Tag: "deep-fried", Strength: user.StrengthAvoid},
			},
			time.Now(),
		)
		require.NoError(suite.T(), err)
		return u
	}

	doc := func(cuisine string, tags []string, ingredientIDs ...string) outbound.RecipeDocument {
		ings := make([]outbound.RecipeIngredient, 0, len(ingredientIDs))
		for _, id := range ingredientIDs {
			ings = append(ings, outbound.RecipeIngredient{IngredientID: id, Quantity: decimal.NewFromInt(100), Unit: "g"})
		}
		return outbound.RecipeDocument{ID: "r1", Name: "Test", Cuisine: cuisine, Tags: tags, Ingredients: ings, Servings: 2}
	}

	suite.Run("AllergenIngredient_ShouldReturnSentinel", func() {
		u := newUser([]string{"ing-peanut"})

		score := PreferenceScore(doc("italian", nil, "ing-a", "ing-peanut"), u, set())

		assert.Equal(suite.T(), ExclusionScore, score)
	})

	suite.Run("LikedCuisine_ShouldAddBonus", func() {
		u := newUser(nil)

		score := PreferenceScore(doc("italian", nil, "ing-a"), u, set())

		assert.Equal(suite.T(), PreferenceBase+CuisineLikeBonus, score)
	})

	suite.Run("DislikedCuisine_ShouldSubtractPenalty", func() {
		u := newUser(nil)

		score := PreferenceScore(doc("fusion", nil, "ing-a"), u, set())

		assert.Equal(suite.T(), PreferenceBase-CuisineDislikePenalty, score)
	})

	suite.Run("TagPreferences_ShouldAccumulate", func() {
		u := newUser(nil)

		// like +10, love +10, avoid -20
		score := PreferenceScore(doc("", []string{"quick", "comfort", "deep-fried"}, "ing-a"), u, set())

		assert.Equal(suite.T(), PreferenceBase+2*LikedTagBonus-AvoidedTagPenalty, score)
	})

	suite.Run("PantryOverlap_ShouldAddPerIngredient", func() {
		u := newUser(nil)

		score := PreferenceScore(doc("", nil, "ing-a", "ing-b", "ing-c"), u, set("ing-a", "ing-c"))

		assert.Equal(suite.T(), PreferenceBase+2*PantryOverlapBonus, score)
	})

	suite.Run("ManyTags_ShouldAddDiversityBonus", func() {
		u := newUser(nil)

		score := PreferenceScore(doc("", []string{"t1", "t2", "t3", "t4"}, "ing-a"), u, set())

		assert.Equal(suite.T(), PreferenceBase+TagDiversityBonus, score)
	})

	suite.Run("Score_ShouldNeverGoNegative", func() {
		u := newUser(nil)

		// disliked cuisine -50 plus three avoided tags -60 pushes below zero
		score := PreferenceScore(doc("fusion", []string{"deep-fried"}, "ing-a"), u, set())
		assert.GreaterOrEqual(suite.T(), score, 0)

		u2, err := user.New(uuid.New(), "Max", nil, nil, []string{"fusion"},
			[]user.TagPreference{
				{Tag: "a", Strength: user.StrengthAvoid},
				{Tag: "b", Strength: user.StrengthAvoid},
				{Tag: "c", Strength: user.StrengthAvoid},
			}, time.Now())
		require.NoError(suite.T(), err)

		score = PreferenceScore(doc("fusion", []string{"a", "b", "c"}, "ing-a"), u2, set())
		assert.Equal(suite.T(), 0, score)
	})
}

func TestScorerTestSuite(t *testing.T) {
	suite.Run(t, new(ScorerTestSuite))
}
