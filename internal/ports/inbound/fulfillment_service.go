package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/cooking"
)

// FulfillmentService defines the cook and recipe-shopping use cases
type FulfillmentService interface {
	// CookRecipe decrements the pantry oldest-expiry-first and logs the
	// cook. All-or-nothing: a shortage anywhere aborts with no mutation.
	CookRecipe(ctx context.Context, cmd CookRecipeCommand) (*CookResult, error)

	// ShoppingListForRecipe is the read-only twin of CookRecipe: it
	// reports what is missing without touching the ledger
	ShoppingListForRecipe(ctx context.Context, cmd CookRecipeCommand) (*RecipeShoppingResult, error)

	// Queries over the cooking log
	CookingHistory(ctx context.Context, userID uuid.UUID, days int) ([]CookingHistoryItem, error)
	CookingStats(ctx context.Context, userID uuid.UUID, days int) (*CookingStats, error)
}

// CookRecipeCommand identifies one cook attempt
type CookRecipeCommand struct {
	UserID   uuid.UUID
	RecipeID string
	Servings int
}

// BatchChange reports one ledger mutation applied while cooking
type BatchChange struct {
	IngredientID string          `json:"ingredient_id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	Taken        decimal.Decimal `json:"taken"`
	Remaining    decimal.Decimal `json:"remaining"`
	Deleted      bool            `json:"deleted"`
}

// CookResult is the structured outcome of a successful cook
type CookResult struct {
	RecipeID  string             `json:"recipe_id"`
	Name      string             `json:"name"`
	Servings  int                `json:"servings"`
	CookedAt  time.Time          `json:"cooked_at"`
	Changes   []BatchChange      `json:"changes"`
	Nutrition map[string]float64 `json:"nutrition,omitempty"`
	Tips      []string           `json:"tips,omitempty"`
}

// ToBuyItem is one missing ingredient reframed as a purchase
type ToBuyItem struct {
	IngredientID string          `json:"ingredient_id"`
	ToBuyQty     decimal.Decimal `json:"to_buy_qty"`
	Unit         string          `json:"unit"`
}

// RecipeShoppingResult reports what stands between the user and a recipe
type RecipeShoppingResult struct {
	RecipeID   string                   `json:"recipe_id"`
	Name       string                   `json:"name"`
	Servings   int                      `json:"servings"`
	CanCookNow bool                     `json:"can_cook_now"`
	ToBuy      []ToBuyItem              `json:"to_buy"`
	Shortages  []cooking.ShortageRecord `json:"shortages"`
}

// CookingHistoryItem is one enriched cooking-log row
type CookingHistoryItem struct {
	RecipeID   string    `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
	Cuisine    string    `json:"cuisine,omitempty"`
	Servings   int       `json:"servings"`
	CookedAt   time.Time `json:"cooked_at"`
}

// CookingStats aggregates a user's recent cooking activity
type CookingStats struct {
	TotalCooks      int            `json:"total_cooks"`
	TotalServings   int            `json:"total_servings"`
	CooksByRecipe   map[string]int `json:"cooks_by_recipe"`
	FavoriteRecipe  string         `json:"favorite_recipe,omitempty"`
	FavoriteCuisine string         `json:"favorite_cuisine,omitempty"`
}
