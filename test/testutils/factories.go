package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/outbound"
)

// Factory builds randomized but valid test data
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a fixed seed for reproducibility
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Batch builds a pantry batch for the given user
func (f *Factory) Batch(userID uuid.UUID, ingredientID string, qty int64, expiryOffsetDays *int) *pantry.Batch {
	var bestBefore *time.Time
	if expiryOffsetDays != nil {
		d := time.Now().AddDate(0, 0, *expiryOffsetDays)
		bestBefore = &d
	}
	b, err := pantry.NewBatch(userID, ingredientID, "g", decimal.NewFromInt(qty), bestBefore, "factory")
	if err != nil {
		panic(err)
	}
	return b
}

// User builds a user profile with the given allergens
func (f *Factory) User(allergens []string) *user.User {
	u, err := user.New(
		uuid.New(),
		f.faker.Name(),
		allergens,
		[]string{"italian", "thai"},
		[]string{"fusion"},
		[]user.TagPreference{
			{Tag: "quick", Strength: user.StrengthLike},
			{Tag: "deep-fried", Strength: user.StrengthAvoid},
		},
		time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return u
}

// Recipe builds a catalog recipe document
func (f *Factory) Recipe(id, cuisine string, ingredientIDs ...string) outbound.RecipeDocument {
	ingredients := make([]outbound.RecipeIngredient, 0, len(ingredientIDs))
	for _, ingID := range ingredientIDs {
		ingredients = append(ingredients, outbound.RecipeIngredient{
			IngredientID: ingID,
			Quantity:     decimal.NewFromInt(int64(f.faker.Number(50, 300))),
			Unit:         "g",
		})
	}
	return outbound.RecipeDocument{
		ID:          id,
		Name:        f.faker.Dinner(),
		Cuisine:     cuisine,
		Tags:        []string{"main-dish"},
		Ingredients: ingredients,
		Servings:    2,
		Nutrition:   map[string]float64{"calories": float64(f.faker.Number(200, 900))},
	}
}

// Metadata builds ingredient metadata for the relationship store
func (f *Factory) Metadata(id string, shelfLifeDays int) outbound.IngredientMetadata {
	return outbound.IngredientMetadata{
		ID:            id,
		Name:          f.faker.Fruit(),
		Category:      "produce",
		Perishability: "perishable",
		ShelfLifeDays: shelfLifeDays,
	}
}
