// Package testutils provides mock implementations and test data
// factories shared across the test suites.
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/outbound"
)

// MockTransactionManager runs the function inline. Tests that need
// rollback behavior assert on repository calls instead.
type MockTransactionManager struct {
	mock.Mock
}

// RunInTransaction executes fn with the given context
func (m *MockTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// NewMockTransactionManager creates a pass-through transaction manager
func NewMockTransactionManager() *MockTransactionManager {
	m := &MockTransactionManager{}
	m.On("RunInTransaction", mock.Anything).Return(nil)
	return m
}

// MockPantryRepository provides a mock implementation of PantryRepository
type MockPantryRepository struct {
	mock.Mock
}

func (m *MockPantryRepository) Create(ctx context.Context, batch *pantry.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockPantryRepository) Update(ctx context.Context, batch *pantry.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockPantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPantryRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pantry.Batch), args.Error(1)
}

func (m *MockPantryRepository) FindByKey(ctx context.Context, key pantry.Key, forUpdate bool) (*pantry.Batch, error) {
	args := m.Called(ctx, key, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pantry.Batch), args.Error(1)
}

func (m *MockPantryRepository) FindForConsumption(ctx context.Context, userID uuid.UUID, ingredientID, unit string, forUpdate bool) ([]*pantry.Batch, error) {
	args := m.Called(ctx, userID, ingredientID, unit, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pantry.Batch), args.Error(1)
}

func (m *MockPantryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*pantry.Batch, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pantry.Batch), args.Error(1)
}

func (m *MockPantryRepository) FindExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*pantry.Batch, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pantry.Batch), args.Error(1)
}

func (m *MockPantryRepository) Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, ingredientID, unit)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPantryRepository) DistinctIngredientIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

func (m *MockMealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.MealPlan), args.Error(1)
}

func (m *MockMealPlanRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*mealplan.MealPlan), args.Int(1), args.Error(2)
}

func (m *MockMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCookingLogRepository provides a mock implementation of CookingLogRepository
type MockCookingLogRepository struct {
	mock.Mock
}

func (m *MockCookingLogRepository) Create(ctx context.Context, log *cooking.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockCookingLogRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.Log, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cooking.Log), args.Error(1)
}

func (m *MockCookingLogRepository) CountByRecipe(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockWasteLogRepository provides a mock implementation of WasteLogRepository
type MockWasteLogRepository struct {
	mock.Mock
}

func (m *MockWasteLogRepository) Create(ctx context.Context, entry *cooking.WasteEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWasteLogRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.WasteEntry, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cooking.WasteEntry), args.Error(1)
}

// MockShoppingListRepository provides a mock implementation of ShoppingListRepository
type MockShoppingListRepository struct {
	mock.Mock
}

func (m *MockShoppingListRepository) Create(ctx context.Context, list *shopping.List) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.List, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.List), args.Error(1)
}

func (m *MockShoppingListRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*shopping.List, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*shopping.List), args.Int(1), args.Error(2)
}

func (m *MockShoppingListRepository) UpdateItemChecked(ctx context.Context, listID, itemID uuid.UUID, checked bool) error {
	args := m.Called(ctx, listID, itemID, checked)
	return args.Error(0)
}

func (m *MockShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockIngredientGraph provides a mock implementation of IngredientGraph
type MockIngredientGraph struct {
	mock.Mock
}

func (m *MockIngredientGraph) GetMetadata(ctx context.Context, ingredientID string) (*outbound.IngredientMetadata, error) {
	args := m.Called(ctx, ingredientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.IngredientMetadata), args.Error(1)
}

func (m *MockIngredientGraph) GetMetadataBatch(ctx context.Context, ingredientIDs []string) (map[string]outbound.IngredientMetadata, error) {
	args := m.Called(ctx, ingredientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]outbound.IngredientMetadata), args.Error(1)
}

func (m *MockIngredientGraph) CheckConflicts(ctx context.Context, ingredientIDs []string, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, ingredientIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockIngredientGraph) FindSubstitutes(ctx context.Context, ingredientID string, excludeIDs []string, limit int) ([]string, error) {
	args := m.Called(ctx, ingredientID, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecipeCatalog provides a mock implementation of RecipeCatalog
type MockRecipeCatalog struct {
	mock.Mock
}

func (m *MockRecipeCatalog) Search(ctx context.Context, query string, tags []string, excludeIngredientIDs []string, limit int) ([]outbound.RecipeDocument, error) {
	args := m.Called(ctx, query, tags, excludeIngredientIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbound.RecipeDocument), args.Error(1)
}

func (m *MockRecipeCatalog) GetByID(ctx context.Context, recipeID string) (*outbound.RecipeDocument, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.RecipeDocument), args.Error(1)
}

func (m *MockRecipeCatalog) AggregateIngredients(ctx context.Context, recipeIDs []string, servingsMultipliers map[string]decimal.Decimal) (map[string]outbound.AggregatedIngredient, error) {
	args := m.Called(ctx, recipeIDs, servingsMultipliers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]outbound.AggregatedIngredient), args.Error(1)
}
