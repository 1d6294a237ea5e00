// Package conflict resolves allergen conflicts in recipe ingredient
// sets through the external ingredient relationship store.
package conflict

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/ports/outbound"
)

// substituteSearchLimit bounds how many candidates are requested per
// conflicting ingredient. Policy knob, not derived from any model.
const substituteSearchLimit = 5

// Resolver detects allergen conflicts and substitutes conflicting
// ingredients when permitted. Substitution is all-or-nothing: a recipe
// with any unresolved conflict is rejected as-is.
type Resolver struct {
	graph  outbound.IngredientGraph
	logger *zap.Logger
}

// NewResolver creates a conflict resolver
func NewResolver(graph outbound.IngredientGraph, logger *zap.Logger) *Resolver {
	return &Resolver{
		graph:  graph,
		logger: logger.Named("conflict-resolver"),
	}
}

// CheckConflicts returns which of the given ingredient ids are flagged
// as allergens for the user. Empty result means no conflict.
func (r *Resolver) CheckConflicts(ctx context.Context, ingredientIDs []string, userID uuid.UUID) (map[string]struct{}, error) {
	if len(ingredientIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	conflicting, err := r.graph.CheckConflicts(ctx, ingredientIDs, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(conflicting))
	for _, id := range conflicting {
		set[id] = struct{}{}
	}
	return set, nil
}

// ChooseSubstitute returns the first substitute candidate for the
// ingredient not present in disallowedIDs. The second return value is
// false when no acceptable candidate exists.
func (r *Resolver) ChooseSubstitute(ctx context.Context, ingredientID string, disallowedIDs []string, limit int) (string, bool, error) {
	candidates, err := r.graph.FindSubstitutes(ctx, ingredientID, disallowedIDs, limit)
	if err != nil {
		return "", false, err
	}

	disallowed := make(map[string]struct{}, len(disallowedIDs))
	for _, id := range disallowedIDs {
		disallowed[id] = struct{}{}
	}

	for _, candidate := range candidates {
		if _, bad := disallowed[candidate]; !bad {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// Resolve checks the ingredient list for allergen conflicts and, when
// allowed, substitutes each conflicting ingredient. Substitutes are
// chosen excluding the user's full allergen set, not just the detected
// conflicts, so a replacement can never be an allergen the recipe did
// not contain. It returns ok=true only when every detected conflict
// was substituted within the cap; otherwise the original list comes
// back unchanged. Errors from the relationship store propagate
// untouched.
func (r *Resolver) Resolve(ctx context.Context, ingredientIDs []string, userID uuid.UUID, allergenIDs []string, allowSubstitution bool, maxSubsPerRecipe int) (bool, []string, error) {
	if len(ingredientIDs) == 0 {
		return true, []string{}, nil
	}

	conflictSet, err := r.CheckConflicts(ctx, ingredientIDs, userID)
	if err != nil {
		return false, nil, err
	}
	if len(conflictSet) == 0 {
		return true, ingredientIDs, nil
	}

	if !allowSubstitution {
		r.logger.Debug("conflicts found and substitution disabled",
			zap.String("user_id", userID.String()),
			zap.Int("conflicts", len(conflictSet)))
		return false, ingredientIDs, nil
	}

	// Conflicting ids in encounter order, deduplicated
	var conflicting []string
	seen := make(map[string]bool)
	for _, id := range ingredientIDs {
		if _, bad := conflictSet[id]; bad && !seen[id] {
			seen[id] = true
			conflicting = append(conflicting, id)
		}
	}

	// The cap would be exhausted with conflicts still present, so the
	// recipe cannot become acceptable
	if len(conflicting) > maxSubsPerRecipe {
		return false, ingredientIDs, nil
	}

	// Seed the exclusion with the whole allergen set before adding the
	// detected conflicts
	disallowed := make([]string, 0, len(allergenIDs)+len(conflictSet))
	excluded := make(map[string]struct{}, len(allergenIDs)+len(conflictSet))
	for _, id := range allergenIDs {
		if _, dup := excluded[id]; !dup {
			excluded[id] = struct{}{}
			disallowed = append(disallowed, id)
		}
	}
	for id := range conflictSet {
		if _, dup := excluded[id]; !dup {
			excluded[id] = struct{}{}
			disallowed = append(disallowed, id)
		}
	}

	substitutes := make(map[string]string, len(conflicting))
	for _, id := range conflicting {
		sub, ok, err := r.ChooseSubstitute(ctx, id, disallowed, substituteSearchLimit)
		if err != nil {
			return false, nil, err
		}
		if !ok {
			// Partial substitution is not an acceptable recipe
			return false, ingredientIDs, nil
		}
		substitutes[id] = sub
		disallowed = append(disallowed, sub)
	}

	effective := make([]string, len(ingredientIDs))
	copy(effective, ingredientIDs)
	replaced := make(map[string]bool, len(substitutes))
	for i, id := range effective {
		if sub, ok := substitutes[id]; ok && !replaced[id] {
			effective[i] = sub
			replaced[id] = true
		}
	}

	r.logger.Debug("conflicts substituted",
		zap.String("user_id", userID.String()),
		zap.Int("substitutions", len(substitutes)))

	return true, effective, nil
}
