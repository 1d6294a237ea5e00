package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	pantryapp "github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/logger"
	"github.com/smartmeal/core/test/testutils"
)

// RecommendationServiceTestSuite covers the suggestion flows
type RecommendationServiceTestSuite struct {
	suite.Suite
	userRepo    *testutils.MockUserRepository
	catalog     *testutils.MockRecipeCatalog
	graph       *testutils.MockIngredientGraph
	pantryRepo  *testutils.MockPantryRepository
	cookingRepo *testutils.MockCookingLogRepository
	service     inbound.RecommendationService
	userID      uuid.UUID
	ctx         context.Context
}

func (suite *RecommendationServiceTestSuite) SetupTest() {
	suite.userRepo = &testutils.MockUserRepository{}
	suite.catalog = &testutils.MockRecipeCatalog{}
	suite.graph = &testutils.MockIngredientGraph{}
	suite.pantryRepo = &testutils.MockPantryRepository{}
	suite.cookingRepo = &testutils.MockCookingLogRepository{}
	suite.userID = uuid.New()
	suite.ctx = context.Background()

	suite.service = NewRecommendationService(
		suite.userRepo,
		suite.catalog,
		suite.graph,
		pantryapp.NewLedger(suite.pantryRepo),
		suite.pantryRepo,
		suite.cookingRepo,
		logger.NewNop(),
	)
}

func (suite *RecommendationServiceTestSuite) stubUser(allergens ...string) {
	u, err := user.New(suite.userID, "Sam", allergens,
		[]string{"italian"}, nil,
		[]user.TagPreference{{Tag: "quick", Strength: user.StrengthLike}}, time.Now())
	require.NoError(suite.T(), err)
	suite.userRepo.On("FindByID", mock.Anything, suite.userID).Return(u, nil)
}

func doc(id, cuisine string, ingredientIDs ...string) outbound.RecipeDocument {
	ings := make([]outbound.RecipeIngredient, 0, len(ingredientIDs))
	for _, ingID := range ingredientIDs {
		ings = append(ings, outbound.RecipeIngredient{IngredientID: ingID, Quantity: decimal.NewFromInt(100), Unit: "g"})
	}
	return outbound.RecipeDocument{ID: id, Name: id, Cuisine: cuisine, Tags: []string{"quick"}, Ingredients: ings, Servings: 2}
}

func (suite *RecommendationServiceTestSuite) TestRecommend() {
	suite.Run("RanksByPreferenceScore", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.pantryRepo.On("DistinctIngredientIDs", mock.Anything, suite.userID).
			Return([]string{"ing-rice"}, nil)
		suite.cookingRepo.On("FindByUserSince", mock.Anything, suite.userID, mock.Anything).
			Return([]*cooking.Log{}, nil)
		suite.catalog.On("Search", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).
			Return([]outbound.RecipeDocument{
				doc("recipe-plain", "mexican", "ing-bean"),
				doc("recipe-italian", "italian", "ing-rice"),
			}, nil)

		results, err := suite.service.Recommend(suite.ctx, inbound.RecommendCommand{UserID: suite.userID, Limit: 10})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), results, 2)
		// liked cuisine +30 and pantry overlap +5 beats the plain one
		assert.Equal(suite.T(), "recipe-italian", results[0].RecipeID)
		assert.Greater(suite.T(), results[0].Score, results[1].Score)
	})

	suite.Run("DropsRecentlyCookedRecipes", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.pantryRepo.On("DistinctIngredientIDs", mock.Anything, suite.userID).
			Return([]string{}, nil)
		log, _ := cooking.NewLog(suite.userID, "recipe-yesterday", 2)
		suite.cookingRepo.On("FindByUserSince", mock.Anything, suite.userID, mock.Anything).
			Return([]*cooking.Log{log}, nil)
		suite.catalog.On("Search", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).
			Return([]outbound.RecipeDocument{
				doc("recipe-yesterday", "italian", "ing-a"),
				doc("recipe-fresh", "italian", "ing-b"),
			}, nil)

		results, err := suite.service.Recommend(suite.ctx, inbound.RecommendCommand{UserID: suite.userID})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), results, 1)
		assert.Equal(suite.T(), "recipe-fresh", results[0].RecipeID)
	})

	suite.Run("DropsAllergenRecipes", func() {
		suite.SetupTest()
		suite.stubUser("ing-peanut")
		suite.pantryRepo.On("DistinctIngredientIDs", mock.Anything, suite.userID).
			Return([]string{}, nil)
		suite.cookingRepo.On("FindByUserSince", mock.Anything, suite.userID, mock.Anything).
			Return([]*cooking.Log{}, nil)
		suite.catalog.On("Search", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).
			Return([]outbound.RecipeDocument{
				doc("recipe-peanut", "thai", "ing-peanut"),
				doc("recipe-safe", "thai", "ing-rice"),
			}, nil)

		results, err := suite.service.Recommend(suite.ctx, inbound.RecommendCommand{UserID: suite.userID})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), results, 1)
		assert.Equal(suite.T(), "recipe-safe", results[0].RecipeID)
	})

	suite.Run("LimitsResultCount", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.pantryRepo.On("DistinctIngredientIDs", mock.Anything, suite.userID).
			Return([]string{}, nil)
		suite.cookingRepo.On("FindByUserSince", mock.Anything, suite.userID, mock.Anything).
			Return([]*cooking.Log{}, nil)
		suite.catalog.On("Search", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).
			Return([]outbound.RecipeDocument{
				doc("recipe-a", "", "ing-a"),
				doc("recipe-b", "", "ing-b"),
				doc("recipe-c", "", "ing-c"),
			}, nil)

		results, err := suite.service.Recommend(suite.ctx, inbound.RecommendCommand{UserID: suite.userID, Limit: 2})

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), results, 2)
	})
}

func (suite *RecommendationServiceTestSuite) TestSuggestForExpiring() {
	suite.Run("PairsExpiringStockWithRecipes", func() {
		suite.SetupTest()
		suite.stubUser()
		in2 := time.Now().AddDate(0, 0, 2)
		milk, err := pantry.NewBatch(suite.userID, "ing-milk", "ml", decimal.NewFromInt(500), &in2, "")
		require.NoError(suite.T(), err)

		suite.pantryRepo.On("FindExpiringWithin", mock.Anything, suite.userID, 3).
			Return([]*pantry.Batch{milk}, nil)
		suite.graph.On("GetMetadataBatch", mock.Anything, []string{"ing-milk"}).
			Return(map[string]outbound.IngredientMetadata{
				"ing-milk": {ID: "ing-milk", Name: "milk", ShelfLifeDays: 7},
			}, nil)
		suite.pantryRepo.On("DistinctIngredientIDs", mock.Anything, suite.userID).
			Return([]string{"ing-milk"}, nil)
		suite.catalog.On("Search", mock.Anything, "milk", mock.Anything, mock.Anything, mock.Anything).
			Return([]outbound.RecipeDocument{doc("recipe-pudding", "french", "ing-milk")}, nil)

		result, err := suite.service.SuggestForExpiring(suite.ctx, suite.userID, 3)

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Expiring, 1)
		assert.Equal(suite.T(), "milk", result.Expiring[0].Name)
		require.Len(suite.T(), result.Recipes, 1)
		assert.Equal(suite.T(), "recipe-pudding", result.Recipes[0].RecipeID)
	})

	suite.Run("NothingExpiring_ReturnsEmptyResult", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.pantryRepo.On("FindExpiringWithin", mock.Anything, suite.userID, 3).
			Return(nil, nil)

		result, err := suite.service.SuggestForExpiring(suite.ctx, suite.userID, 3)

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), result.Expiring)
		assert.Empty(suite.T(), result.Recipes)
	})
}

func TestRecommendationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecommendationServiceTestSuite))
}
