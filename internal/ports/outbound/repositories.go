// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/domain/user"
)

// TransactionManager scopes a function to one ACID transaction. The
// context passed to fn carries the transaction; repositories resolve it
// from there. A returned error rolls everything back.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PantryRepository defines the interface for the batch ledger.
// Methods taking forUpdate acquire row locks where the backing store
// supports them; callers doing read-then-write must pass true and run
// inside a transaction.
type PantryRepository interface {
	// Primitive mutators
	Create(ctx context.Context, batch *pantry.Batch) error
	Update(ctx context.Context, batch *pantry.Batch) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// Key and consumption lookups
	FindByID(ctx context.Context, id uuid.UUID) (*pantry.Batch, error)
	FindByKey(ctx context.Context, key pantry.Key, forUpdate bool) (*pantry.Batch, error)
	FindForConsumption(ctx context.Context, userID uuid.UUID, ingredientID, unit string, forUpdate bool) ([]*pantry.Batch, error)

	// Query operations
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*pantry.Batch, error)
	FindExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*pantry.Batch, error)
	Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error)
	DistinctIngredientIDs(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// MealPlanRepository defines the interface for plan persistence
type MealPlanRepository interface {
	// Create persists the header and all entries together
	Create(ctx context.Context, plan *mealplan.MealPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CookingLogRepository defines the interface for the cooking log
type CookingLogRepository interface {
	Create(ctx context.Context, log *cooking.Log) error
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.Log, error)
	CountByRecipe(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error)
}

// WasteLogRepository defines the interface for waste records
type WasteLogRepository interface {
	Create(ctx context.Context, entry *cooking.WasteEntry) error
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.WasteEntry, error)
}

// ShoppingListRepository defines the interface for shopping lists
type ShoppingListRepository interface {
	// Create persists the header and all items together
	Create(ctx context.Context, list *shopping.List) error
	FindByID(ctx context.Context, id uuid.UUID) (*shopping.List, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*shopping.List, int, error)
	UpdateItemChecked(ctx context.Context, listID, itemID uuid.UUID, checked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the read-mostly interface for user profiles
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
