package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RecommendationService defines the on-demand recipe suggestion use cases
type RecommendationService interface {
	// Recommend scores catalog candidates against the user's
	// preferences and pantry and returns the top matches
	Recommend(ctx context.Context, cmd RecommendCommand) ([]RecommendationDTO, error)

	// SuggestForExpiring proposes recipes that use soon-to-expire
	// pantry ingredients
	SuggestForExpiring(ctx context.Context, userID uuid.UUID, days int) (*ExpiringSuggestions, error)
}

// RecommendCommand requests scored suggestions
type RecommendCommand struct {
	UserID uuid.UUID
	Limit  int
	Tags   []string
}

// RecommendationDTO is one scored suggestion
type RecommendationDTO struct {
	RecipeID string   `json:"recipe_id"`
	Name     string   `json:"name"`
	Cuisine  string   `json:"cuisine,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    int      `json:"score"`
}

// ExpiringIngredient is one pantry ingredient nearing expiry
type ExpiringIngredient struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name,omitempty"`
	DaysLeft     int    `json:"days_left"`
}

// ExpiringSuggestions pairs expiring stock with recipes that use it
type ExpiringSuggestions struct {
	Expiring []ExpiringIngredient `json:"expiring"`
	Recipes  []RecommendationDTO  `json:"recipes"`
}
