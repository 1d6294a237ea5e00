// Package graph provides the fail-closed fallback for the ingredient
// relationship store.
package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// UnavailableGraph is the stand-in used when no relationship store is
// configured. Every call fails with a dependency-unavailable error so
// callers abort instead of acting on fabricated relationship data.
type UnavailableGraph struct{}

// NewUnavailableGraph creates the fail-closed graph stand-in
func NewUnavailableGraph() outbound.IngredientGraph {
	return &UnavailableGraph{}
}

func (g *UnavailableGraph) GetMetadata(ctx context.Context, ingredientID string) (*outbound.IngredientMetadata, error) {
	return nil, errors.NewDependencyUnavailableError("ingredient graph", nil)
}

func (g *UnavailableGraph) GetMetadataBatch(ctx context.Context, ingredientIDs []string) (map[string]outbound.IngredientMetadata, error) {
	return nil, errors.NewDependencyUnavailableError("ingredient graph", nil)
}

func (g *UnavailableGraph) CheckConflicts(ctx context.Context, ingredientIDs []string, userID uuid.UUID) ([]string, error) {
	return nil, errors.NewDependencyUnavailableError("ingredient graph", nil)
}

func (g *UnavailableGraph) FindSubstitutes(ctx context.Context, ingredientID string, excludeIDs []string, limit int) ([]string, error) {
	return nil, errors.NewDependencyUnavailableError("ingredient graph", nil)
}
