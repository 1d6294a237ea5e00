package fulfillment

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
	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
	"github.com/smartmeal/core/pkg/logger"
	"github.com/smartmeal/core/test/testutils"
)

// FulfillmentServiceTestSuite covers the cook state machine
type FulfillmentServiceTestSuite struct {
	suite.Suite
	userRepo    *testutils.MockUserRepository
	catalog     *testutils.MockRecipeCatalog
	graph       *testutils.MockIngredientGraph
	pantryRepo  *testutils.MockPantryRepository
	cookingRepo *testutils.MockCookingLogRepository
	service     inbound.FulfillmentService
	userID      uuid.UUID
	ctx         context.Context
}

func (suite *FulfillmentServiceTestSuite) SetupTest() {
	suite.userRepo = &testutils.MockUserRepository{}
	suite.catalog = &testutils.MockRecipeCatalog{}
	suite.graph = &testutils.MockIngredientGraph{}
	suite.pantryRepo = &testutils.MockPantryRepository{}
	suite.cookingRepo = &testutils.MockCookingLogRepository{}
	suite.userID = uuid.New()
	suite.ctx = context.Background()

	suite.service = NewFulfillmentService(
		suite.userRepo,
		suite.catalog,
		suite.graph,
		pantryapp.NewLedger(suite.pantryRepo),
		suite.cookingRepo,
		testutils.NewMockTransactionManager(),
		logger.NewNop(),
	)
}

func (suite *FulfillmentServiceTestSuite) stubUser(allergens ...string) {
	u, err := user.New(suite.userID, "Sam", allergens, nil, nil, nil, time.Now())
	require.NoError(suite.T(), err)
	suite.userRepo.On("FindByID", mock.Anything, suite.userID).Return(u, nil)
}

func (suite *FulfillmentServiceTestSuite) stubRecipe(perServingGrams int64, ingredientID string) *outbound.RecipeDocument {
	doc := &outbound.RecipeDocument{
		ID:      "recipe-risotto",
		Name:    "Mushroom Risotto",
		Cuisine: "italian",
		Ingredients: []outbound.RecipeIngredient{
			{IngredientID: ingredientID, Quantity: decimal.NewFromInt(perServingGrams), Unit: "g"},
		},
		Servings:  2,
		Nutrition: map[string]float64{"calories": 540},
	}
	suite.catalog.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	return doc
}

func (suite *FulfillmentServiceTestSuite) stubKnownIngredients(ids ...string) {
	meta := make(map[string]outbound.IngredientMetadata, len(ids))
	for _, id := range ids {
		meta[id] = outbound.IngredientMetadata{ID: id}
	}
	suite.graph.On("GetMetadataBatch", mock.Anything, mock.Anything).Return(meta, nil)
}

func (suite *FulfillmentServiceTestSuite) riceBatches() (*pantry.Batch, *pantry.Batch) {
	in2 := time.Now().AddDate(0, 0, 2)
	in10 := time.Now().AddDate(0, 0, 10)
	early, _ := pantry.NewBatch(suite.userID, "ing-rice", "g", decimal.NewFromInt(300), &in2, "")
	late, _ := pantry.NewBatch(suite.userID, "ing-rice", "g", decimal.NewFromInt(500), &in10, "")
	return early, late
}

// TestCookRecipe covers the mutating path
func (suite *FulfillmentServiceTestSuite) TestCookRecipe() {
	suite.Run("TwoBatches_OldestExpiryDrainsFirst", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(200, "ing-rice") // 200g per serving, 2 servings = 400g
		suite.stubKnownIngredients("ing-rice")

		early, late := suite.riceBatches()
		suite.pantryRepo.On("FindForConsumption", mock.Anything, suite.userID, "ing-rice", "g", true).
			Return([]*pantry.Batch{early, late}, nil)
		suite.pantryRepo.On("Delete", mock.Anything, early.ID()).Return(nil)
		suite.pantryRepo.On("Update", mock.Anything, late).Return(nil)
		suite.cookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 2,
		})

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), result)
		assert.Equal(suite.T(), "Mushroom Risotto", result.Name)

		// 300g batch fully consumed and removed, 500g batch at 400g
		require.Len(suite.T(), result.Changes, 2)
		assert.Equal(suite.T(), early.ID(), result.Changes[0].BatchID)
		assert.True(suite.T(), result.Changes[0].Deleted)
		assert.Equal(suite.T(), late.ID(), result.Changes[1].BatchID)
		assert.True(suite.T(), decimal.NewFromInt(400).Equal(late.Quantity()))

		suite.pantryRepo.AssertCalled(suite.T(), "Delete", mock.Anything, early.ID())
		suite.cookingRepo.AssertCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	})

	suite.Run("Shortage_AbortsWithoutTouchingAnyBatch", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(100, "ing-parmesan") // 2 servings = 200g
		suite.stubKnownIngredients("ing-parmesan")

		only, _ := pantry.NewBatch(suite.userID, "ing-parmesan", "g", decimal.NewFromInt(50), nil, "")
		suite.pantryRepo.On("FindForConsumption", mock.Anything, suite.userID, "ing-parmesan", "g", true).
			Return([]*pantry.Batch{only}, nil)

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 2,
		})

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeInsufficientStock, errors.GetCode(err))
		assert.True(suite.T(), decimal.NewFromInt(50).Equal(only.Quantity()), "no batch may be mutated")
		suite.pantryRepo.AssertNotCalled(suite.T(), "Update")
		suite.pantryRepo.AssertNotCalled(suite.T(), "Delete")
		suite.cookingRepo.AssertNotCalled(suite.T(), "Create")
	})

	suite.Run("AllergenIngredient_HardFails", func() {
		suite.SetupTest()
		suite.stubUser("ing-rice")
		suite.stubRecipe(100, "ing-rice")

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 1,
		})

		assert.Equal(suite.T(), errors.CodeAllergenConflict, errors.GetCode(err))
		suite.graph.AssertNotCalled(suite.T(), "GetMetadataBatch")
	})

	suite.Run("UnknownIngredient_FailsValidation", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(100, "ing-rice")
		suite.graph.On("GetMetadataBatch", mock.Anything, mock.Anything).
			Return(map[string]outbound.IngredientMetadata{}, nil)

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 1,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("GraphUnreachable_Propagates", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(100, "ing-rice")
		suite.graph.On("GetMetadataBatch", mock.Anything, mock.Anything).
			Return(nil, errors.NewDependencyUnavailableError("ingredient graph", nil))

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 1,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeDependencyUnavailable))
	})

	suite.Run("UnknownUser_ReportsNotFound", func() {
		suite.SetupTest()
		suite.userRepo.On("FindByID", mock.Anything, suite.userID).
			Return(nil, errors.NewUserNotFoundError(suite.userID.String()))

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 1,
		})

		assert.Equal(suite.T(), errors.CodeUserNotFound, errors.GetCode(err))
	})

	suite.Run("NonPositiveServings_FailsValidation", func() {
		suite.SetupTest()

		_, err := suite.service.CookRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 0,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

// TestShoppingListForRecipe covers the read-only path
func (suite *FulfillmentServiceTestSuite) TestShoppingListForRecipe() {
	suite.Run("Shortage_ReframedAsPurchase", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(100, "ing-parmesan") // 2 servings = 200g
		suite.stubKnownIngredients("ing-parmesan")
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-parmesan", "g").
			Return(decimal.NewFromInt(50), nil)

		result, err := suite.service.ShoppingListForRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 2,
		})

		require.NoError(suite.T(), err)
		assert.False(suite.T(), result.CanCookNow)
		require.Len(suite.T(), result.ToBuy, 1)
		assert.True(suite.T(), decimal.NewFromInt(150).Equal(result.ToBuy[0].ToBuyQty))
		require.Len(suite.T(), result.Shortages, 1)
		assert.True(suite.T(), decimal.NewFromInt(150).Equal(result.Shortages[0].DeficitQty))

		suite.pantryRepo.AssertNotCalled(suite.T(), "Update")
		suite.pantryRepo.AssertNotCalled(suite.T(), "Delete")
		suite.pantryRepo.AssertNotCalled(suite.T(), "FindForConsumption")
	})

	suite.Run("FullyStocked_CanCookNow", func() {
		suite.SetupTest()
		suite.stubUser()
		suite.stubRecipe(100, "ing-rice")
		suite.stubKnownIngredients("ing-rice")
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-rice", "g").
			Return(decimal.NewFromInt(1000), nil)

		result, err := suite.service.ShoppingListForRecipe(suite.ctx, inbound.CookRecipeCommand{
			UserID: suite.userID, RecipeID: "recipe-risotto", Servings: 2,
		})

		require.NoError(suite.T(), err)
		assert.True(suite.T(), result.CanCookNow)
		assert.Empty(suite.T(), result.ToBuy)
	})
}

func TestFulfillmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentServiceTestSuite))
}
