package shopping

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
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
	"github.com/smartmeal/core/pkg/logger"
	"github.com/smartmeal/core/test/testutils"
)

// ShoppingServiceTestSuite covers list building and lifecycle
type ShoppingServiceTestSuite struct {
	suite.Suite
	planRepo   *testutils.MockMealPlanRepository
	listRepo   *testutils.MockShoppingListRepository
	catalog    *testutils.MockRecipeCatalog
	pantryRepo *testutils.MockPantryRepository
	service    inbound.ShoppingService
	userID     uuid.UUID
	ctx        context.Context
}

func (suite *ShoppingServiceTestSuite) SetupTest() {
	suite.planRepo = &testutils.MockMealPlanRepository{}
	suite.listRepo = &testutils.MockShoppingListRepository{}
	suite.catalog = &testutils.MockRecipeCatalog{}
	suite.pantryRepo = &testutils.MockPantryRepository{}
	suite.userID = uuid.New()
	suite.ctx = context.Background()

	suite.service = NewShoppingService(
		suite.planRepo,
		suite.listRepo,
		suite.catalog,
		pantryapp.NewLedger(suite.pantryRepo),
		testutils.NewMockTransactionManager(),
		logger.NewNop(),
	)
}

func (suite *ShoppingServiceTestSuite) stubPlan(entries map[int]string) *mealplan.MealPlan {
	days := len(entries)
	plan, err := mealplan.NewMealPlan(suite.userID, time.Now(), days)
	require.NoError(suite.T(), err)
	for day := 0; day < days; day++ {
		require.NoError(suite.T(), plan.AddEntry(day, entries[day], 2))
	}
	suite.planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
	return plan
}

func (suite *ShoppingServiceTestSuite) TestBuildListForPlan() {
	suite.Run("PantryStockReducesTheNeed", func() {
		suite.SetupTest()
		plan := suite.stubPlan(map[int]string{0: "recipe-curry"})

		suite.catalog.On("AggregateIngredients", mock.Anything, []string{"recipe-curry"},
			map[string]decimal.Decimal{"recipe-curry": decimal.NewFromInt(2)}).
			Return(map[string]outbound.AggregatedIngredient{
				"ing-rice": {IngredientID: "ing-rice", TotalQty: decimal.NewFromInt(400), Unit: "g", FromRecipeIDs: []string{"recipe-curry"}},
			}, nil)
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-rice", "g").
			Return(decimal.NewFromInt(150), nil)

		var persisted *shopping.List
		suite.listRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { persisted = args.Get(1).(*shopping.List) }).
			Return(nil)

		dto, err := suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), dto.Items, 1)
		assert.Equal(suite.T(), "ing-rice", dto.Items[0].IngredientID)
		assert.True(suite.T(), decimal.NewFromInt(250).Equal(dto.Items[0].NeededQty))
		assert.Equal(suite.T(), string(shopping.StatusOpen), dto.Status)
		require.NotNil(suite.T(), dto.PlanID)
		assert.Equal(suite.T(), plan.ID(), *dto.PlanID)

		require.NotNil(suite.T(), persisted)
		assert.Len(suite.T(), persisted.Items(), 1)
	})

	suite.Run("FullyStockedIngredientIsOmitted", func() {
		suite.SetupTest()
		plan := suite.stubPlan(map[int]string{0: "recipe-curry"})

		suite.catalog.On("AggregateIngredients", mock.Anything, mock.Anything, mock.Anything).
			Return(map[string]outbound.AggregatedIngredient{
				"ing-rice": {IngredientID: "ing-rice", TotalQty: decimal.NewFromInt(400), Unit: "g", FromRecipeIDs: []string{"recipe-curry"}},
				"ing-oil":  {IngredientID: "ing-oil", TotalQty: decimal.NewFromInt(30), Unit: "ml", FromRecipeIDs: []string{"recipe-curry"}},
			}, nil)
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-rice", "g").
			Return(decimal.NewFromInt(500), nil)
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-oil", "ml").
			Return(decimal.Zero, nil)
		suite.listRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), dto.Items, 1)
		assert.Equal(suite.T(), "ing-oil", dto.Items[0].IngredientID)
		assert.True(suite.T(), decimal.NewFromInt(30).Equal(dto.Items[0].NeededQty))
	})

	suite.Run("MixedUnitsStayOnSeparateLinesWithTheRealID", func() {
		suite.SetupTest()
		plan := suite.stubPlan(map[int]string{0: "recipe-latte", 1: "recipe-pudding"})

		// One ingredient needed in two units comes back under a
		// composite key; both lines must still carry the real id so
		// the pantry diff and the list item resolve correctly
		suite.catalog.On("AggregateIngredients", mock.Anything, mock.Anything, mock.Anything).
			Return(map[string]outbound.AggregatedIngredient{
				"ing-milk":   {IngredientID: "ing-milk", TotalQty: decimal.NewFromInt(400), Unit: "ml", FromRecipeIDs: []string{"recipe-latte"}},
				"ing-milk:g": {IngredientID: "ing-milk", TotalQty: decimal.NewFromInt(200), Unit: "g", FromRecipeIDs: []string{"recipe-pudding"}},
			}, nil)
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-milk", "ml").
			Return(decimal.NewFromInt(100), nil)
		suite.pantryRepo.On("Availability", mock.Anything, suite.userID, "ing-milk", "g").
			Return(decimal.Zero, nil)
		suite.listRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), dto.Items, 2)
		byUnit := map[string]inbound.ShoppingItemDTO{}
		for _, item := range dto.Items {
			assert.Equal(suite.T(), "ing-milk", item.IngredientID)
			byUnit[item.Unit] = item
		}
		assert.True(suite.T(), decimal.NewFromInt(300).Equal(byUnit["ml"].NeededQty))
		assert.True(suite.T(), decimal.NewFromInt(200).Equal(byUnit["g"].NeededQty))
	})

	suite.Run("RepeatedRecipeAccumulatesServings", func() {
		suite.SetupTest()
		plan := suite.stubPlan(map[int]string{0: "recipe-curry", 1: "recipe-curry"})

		suite.catalog.On("AggregateIngredients", mock.Anything, []string{"recipe-curry"},
			map[string]decimal.Decimal{"recipe-curry": decimal.NewFromInt(4)}).
			Return(map[string]outbound.AggregatedIngredient{}, nil)
		suite.listRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), dto.Items)
		suite.catalog.AssertExpectations(suite.T())
	})

	suite.Run("ForeignPlan_ReportsNotFound", func() {
		suite.SetupTest()
		other, err := mealplan.NewMealPlan(uuid.New(), time.Now(), 1)
		require.NoError(suite.T(), err)
		suite.planRepo.On("FindByID", mock.Anything, other.ID()).Return(other, nil)

		_, err = suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: other.ID(),
		})

		assert.Equal(suite.T(), errors.CodePlanNotFound, errors.GetCode(err))
		suite.listRepo.AssertNotCalled(suite.T(), "Create")
	})

	suite.Run("EmptyPlan_FailsValidation", func() {
		suite.SetupTest()
		plan, err := mealplan.NewMealPlan(suite.userID, time.Now(), 3)
		require.NoError(suite.T(), err)
		suite.planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)

		_, err = suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	suite.Run("CatalogUnavailable_Propagates", func() {
		suite.SetupTest()
		plan := suite.stubPlan(map[int]string{0: "recipe-curry"})
		suite.catalog.On("AggregateIngredients", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.NewDependencyUnavailableError("recipe catalog", nil))

		_, err := suite.service.BuildListForPlan(suite.ctx, inbound.BuildListCommand{
			UserID: suite.userID, PlanID: plan.ID(),
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeDependencyUnavailable))
		suite.listRepo.AssertNotCalled(suite.T(), "Create")
	})
}

func (suite *ShoppingServiceTestSuite) TestSetItemChecked() {
	suite.Run("ChecksAnOwnedItem", func() {
		suite.SetupTest()
		list, err := shopping.NewList(suite.userID, nil)
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), list.AddItem("ing-rice", decimal.NewFromInt(100), "g", nil, ""))
		itemID := list.Items()[0].ID()

		suite.listRepo.On("FindByID", mock.Anything, list.ID()).Return(list, nil)
		suite.listRepo.On("UpdateItemChecked", mock.Anything, list.ID(), itemID, true).Return(nil)

		err = suite.service.SetItemChecked(suite.ctx, suite.userID, list.ID(), itemID, true)

		require.NoError(suite.T(), err)
		suite.listRepo.AssertCalled(suite.T(), "UpdateItemChecked", mock.Anything, list.ID(), itemID, true)
	})

	suite.Run("UnknownItem_ReportsNotFound", func() {
		suite.SetupTest()
		list, err := shopping.NewList(suite.userID, nil)
		require.NoError(suite.T(), err)
		suite.listRepo.On("FindByID", mock.Anything, list.ID()).Return(list, nil)

		err = suite.service.SetItemChecked(suite.ctx, suite.userID, list.ID(), uuid.New(), true)

		assert.Equal(suite.T(), errors.CodeNotFound, errors.GetCode(err))
		suite.listRepo.AssertNotCalled(suite.T(), "UpdateItemChecked")
	})

	suite.Run("ForeignList_ReportsNotFound", func() {
		suite.SetupTest()
		list, err := shopping.NewList(uuid.New(), nil)
		require.NoError(suite.T(), err)
		suite.listRepo.On("FindByID", mock.Anything, list.ID()).Return(list, nil)

		err = suite.service.SetItemChecked(suite.ctx, suite.userID, list.ID(), uuid.New(), true)

		assert.Equal(suite.T(), errors.CodeNotFound, errors.GetCode(err))
	})
}

func (suite *ShoppingServiceTestSuite) TestDeleteList() {
	suite.Run("DeletesAnOwnedList", func() {
		suite.SetupTest()
		list, err := shopping.NewList(suite.userID, nil)
		require.NoError(suite.T(), err)
		suite.listRepo.On("FindByID", mock.Anything, list.ID()).Return(list, nil)
		suite.listRepo.On("Delete", mock.Anything, list.ID()).Return(nil)

		require.NoError(suite.T(), suite.service.DeleteList(suite.ctx, suite.userID, list.ID()))
		suite.listRepo.AssertCalled(suite.T(), "Delete", mock.Anything, list.ID())
	})

	suite.Run("ForeignList_LeftUntouched", func() {
		suite.SetupTest()
		list, err := shopping.NewList(uuid.New(), nil)
		require.NoError(suite.T(), err)
		suite.listRepo.On("FindByID", mock.Anything, list.ID()).Return(list, nil)

		err = suite.service.DeleteList(suite.ctx, suite.userID, list.ID())

		assert.Equal(suite.T(), errors.CodeNotFound, errors.GetCode(err))
		suite.listRepo.AssertNotCalled(suite.T(), "Delete")
	})
}

func (suite *ShoppingServiceTestSuite) TestListUserLists() {
	suite.Run("PagesWithDefaults", func() {
		suite.SetupTest()
		list, err := shopping.NewList(suite.userID, nil)
		require.NoError(suite.T(), err)
		suite.listRepo.On("FindByUser", mock.Anything, suite.userID, 0, 20).
			Return([]*shopping.List{list}, 1, nil)

		page, err := suite.service.ListUserLists(suite.ctx, suite.userID, inbound.PaginationParams{})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 1, page.TotalCount)
		assert.Len(suite.T(), page.Lists, 1)
		assert.Equal(suite.T(), 20, page.Limit)
	})
}

func TestShoppingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceTestSuite))
}
