package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientMetadata is the per-ingredient record the relationship
// store exposes
type IngredientMetadata struct {
	ID            string
	Name          string
	Category      string
	Perishability string
	ShelfLifeDays int
}

// IngredientGraph is the client interface to the external graph store
// holding ingredient relationships. Implementations must fail with a
// dependency-unavailable error when the store cannot be reached, never
// fabricate plausible defaults.
type IngredientGraph interface {
	GetMetadata(ctx context.Context, ingredientID string) (*IngredientMetadata, error)
	GetMetadataBatch(ctx context.Context, ingredientIDs []string) (map[string]IngredientMetadata, error)

	// CheckConflicts returns which of the given ids are flagged as
	// allergens for the user
	CheckConflicts(ctx context.Context, ingredientIDs []string, userID uuid.UUID) ([]string, error)

	// FindSubstitutes returns up to limit substitute candidates,
	// none of which appear in excludeIDs
	FindSubstitutes(ctx context.Context, ingredientID string, excludeIDs []string, limit int) ([]string, error)
}

// RecipeIngredient is one per-serving ingredient line of a recipe document
type RecipeIngredient struct {
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string
}

// RecipeDocument is the catalog's recipe record. The engine treats it
// as read-only content; ids are opaque foreign keys.
type RecipeDocument struct {
	ID          string
	Name        string
	Cuisine     string
	Tags        []string
	Ingredients []RecipeIngredient
	Servings    int
	Nutrition   map[string]float64
}

// AggregatedIngredient is the catalog's rollup of one ingredient's
// total need across several recipes. The map key is a composite when
// recipes use the same ingredient in different units, so consumers
// must read the ingredient id from the struct, never from the key.
type AggregatedIngredient struct {
	IngredientID  string
	TotalQty      decimal.Decimal
	Unit          string
	FromRecipeIDs []string
}

// RecipeCatalog is the client interface to the external document store
// holding recipe content
type RecipeCatalog interface {
	Search(ctx context.Context, query string, tags []string, excludeIngredientIDs []string, limit int) ([]RecipeDocument, error)
	GetByID(ctx context.Context, recipeID string) (*RecipeDocument, error)
	AggregateIngredients(ctx context.Context, recipeIDs []string, servingsMultipliers map[string]decimal.Decimal) (map[string]AggregatedIngredient, error)
}
