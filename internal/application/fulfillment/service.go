// Package fulfillment provides the application layer for cooking
// recipes against the pantry and deriving per-recipe shopping needs.
package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// FulfillmentService implements the cook and recipe-shopping use cases
type FulfillmentService struct {
	userRepo    outbound.UserRepository
	catalog     outbound.RecipeCatalog
	graph       outbound.IngredientGraph
	ledger      *pantry.Ledger
	cookingRepo outbound.CookingLogRepository
	tm          outbound.TransactionManager
	logger      *zap.Logger
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(
	userRepo outbound.UserRepository,
	catalog outbound.RecipeCatalog,
	graph outbound.IngredientGraph,
	ledger *pantry.Ledger,
	cookingRepo outbound.CookingLogRepository,
	tm outbound.TransactionManager,
	logger *zap.Logger,
) inbound.FulfillmentService {
	return &FulfillmentService{
		userRepo:    userRepo,
		catalog:     catalog,
		graph:       graph,
		ledger:      ledger,
		cookingRepo: cookingRepo,
		tm:          tm,
		logger:      logger.Named("fulfillment-service"),
	}
}

// requirement is one ingredient's scaled need for a cook attempt
type requirement struct {
	ingredientID string
	quantity     decimal.Decimal
	unit         string
}

// CookRecipe runs the cook attempt end to end: validation, allergy
// check, ingredient validation, availability check, then the decrement
// plus log write in one transaction. A shortage anywhere aborts before
// any batch is touched.
func (s *FulfillmentService) CookRecipe(ctx context.Context, cmd inbound.CookRecipeCommand) (*inbound.CookResult, error) {
	recipe, requirements, err := s.prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cooking recipe",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("recipe_id", cmd.RecipeID),
		zap.Int("servings", cmd.Servings),
	)

	var changes []inbound.BatchChange
	var cookedAt time.Time

	err = s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Availability pass with row locks held for the transaction
		shortages, err := s.collectShortages(txCtx, cmd.UserID, requirements, true)
		if err != nil {
			return err
		}
		if len(shortages) > 0 {
			return errors.NewInsufficientStockError(recipe.Name, shortages)
		}

		// Decrement pass, oldest expiry first
		for _, req := range requirements {
			mutations, deducted, err := s.ledger.DecrementForIngredient(txCtx, cmd.UserID, req.ingredientID, req.unit, req.quantity)
			if err != nil {
				return err
			}
			if !deducted.Equal(req.quantity) {
				// The locked availability pass said yes; anything else
				// here means the snapshot was violated
				return errors.NewIntegrityConflictError("pantry batch", fmt.Errorf("deducted %s of %s", deducted, req.quantity))
			}
			for _, m := range mutations {
				changes = append(changes, inbound.BatchChange{
					IngredientID: req.ingredientID,
					BatchID:      m.BatchID,
					Taken:        m.Taken,
					Remaining:    m.Remaining,
					Deleted:      m.Deleted,
				})
			}
		}

		log, err := cooking.NewLog(cmd.UserID, cmd.RecipeID, cmd.Servings)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		cookedAt = log.CookedAt()
		return s.cookingRepo.Create(txCtx, log)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recipe cooked",
		zap.String("recipe_id", cmd.RecipeID),
		zap.Int("batch_changes", len(changes)),
	)

	return &inbound.CookResult{
		RecipeID:  recipe.ID,
		Name:      recipe.Name,
		Servings:  cmd.Servings,
		CookedAt:  cookedAt,
		Changes:   changes,
		Nutrition: recipe.Nutrition,
		Tips:      buildTips(changes),
	}, nil
}

// ShoppingListForRecipe is the read-only twin of CookRecipe: same
// validation pipeline, no mutation, shortages reframed as purchases.
func (s *FulfillmentService) ShoppingListForRecipe(ctx context.Context, cmd inbound.CookRecipeCommand) (*inbound.RecipeShoppingResult, error) {
	recipe, requirements, err := s.prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}

	shortages, err := s.collectShortages(ctx, cmd.UserID, requirements, false)
	if err != nil {
		return nil, err
	}

	toBuy := make([]inbound.ToBuyItem, 0, len(shortages))
	for _, sh := range shortages {
		toBuy = append(toBuy, inbound.ToBuyItem{
			IngredientID: sh.IngredientID,
			ToBuyQty:     sh.DeficitQty,
			Unit:         sh.Unit,
		})
	}

	return &inbound.RecipeShoppingResult{
		RecipeID:   recipe.ID,
		Name:       recipe.Name,
		Servings:   cmd.Servings,
		CanCookNow: len(shortages) == 0,
		ToBuy:      toBuy,
		Shortages:  shortages,
	}, nil
}

// CookingHistory lists recent cooks enriched with catalog content
func (s *FulfillmentService) CookingHistory(ctx context.Context, userID uuid.UUID, days int) ([]inbound.CookingHistoryItem, error) {
	if days <= 0 {
		return nil, errors.NewValidationError("days must be greater than 0")
	}

	since := time.Now().AddDate(0, 0, -days)
	logs, err := s.cookingRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	items := make([]inbound.CookingHistoryItem, 0, len(logs))
	docs := make(map[string]*outbound.RecipeDocument)
	for _, log := range logs {
		doc, ok := docs[log.RecipeID()]
		if !ok {
			doc, err = s.catalog.GetByID(ctx, log.RecipeID())
			if err != nil {
				return nil, err
			}
			docs[log.RecipeID()] = doc
		}

		item := inbound.CookingHistoryItem{
			RecipeID: log.RecipeID(),
			Servings: log.Servings(),
			CookedAt: log.CookedAt(),
		}
		if doc != nil {
			item.RecipeName = doc.Name
			item.Cuisine = doc.Cuisine
		}
		items = append(items, item)
	}

	return items, nil
}

// CookingStats aggregates recent cooking activity
func (s *FulfillmentService) CookingStats(ctx context.Context, userID uuid.UUID, days int) (*inbound.CookingStats, error) {
	if days <= 0 {
		return nil, errors.NewValidationError("days must be greater than 0")
	}

	since := time.Now().AddDate(0, 0, -days)
	logs, err := s.cookingRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	stats := &inbound.CookingStats{CooksByRecipe: make(map[string]int)}
	cuisineCounts := make(map[string]int)

	for _, log := range logs {
		stats.TotalCooks++
		stats.TotalServings += log.Servings()
		stats.CooksByRecipe[log.RecipeID()]++
	}

	best := 0
	for recipeID, count := range stats.CooksByRecipe {
		if count > best || (count == best && recipeID < stats.FavoriteRecipe) {
			best = count
			stats.FavoriteRecipe = recipeID
		}

		doc, err := s.catalog.GetByID(ctx, recipeID)
		if err != nil {
			return nil, err
		}
		if doc != nil && doc.Cuisine != "" {
			cuisineCounts[doc.Cuisine] += count
		}
	}

	best = 0
	for cuisine, count := range cuisineCounts {
		if count > best || (count == best && cuisine < stats.FavoriteCuisine) {
			best = count
			stats.FavoriteCuisine = cuisine
		}
	}

	return stats, nil
}

// prepare runs the shared validation pipeline: user exists, recipe
// exists with ingredients, no allergen hit, every ingredient id known
// to the relationship store. Returns the recipe and scaled needs.
func (s *FulfillmentService) prepare(ctx context.Context, cmd inbound.CookRecipeCommand) (*outbound.RecipeDocument, []requirement, error) {
	if cmd.Servings <= 0 {
		return nil, nil, errors.NewValidationError("servings must be greater than 0")
	}

	u, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, nil, err
	}

	recipe, err := s.catalog.GetByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, nil, err
	}
	if recipe == nil || len(recipe.Ingredients) == 0 {
		return nil, nil, errors.NewValidationError(fmt.Sprintf("recipe %s does not exist or has no ingredients", cmd.RecipeID))
	}

	var conflicting []string
	for _, ing := range recipe.Ingredients {
		if u.IsAllergicTo(ing.IngredientID) {
			conflicting = append(conflicting, ing.IngredientID)
		}
	}
	if len(conflicting) > 0 {
		return nil, nil, errors.NewAllergenConflictError(conflicting)
	}

	ids := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ids = append(ids, ing.IngredientID)
	}
	metadata, err := s.graph.GetMetadataBatch(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		if _, known := metadata[id]; !known {
			return nil, nil, errors.NewValidationError(fmt.Sprintf("unknown ingredient id %s", id))
		}
	}

	servings := decimal.NewFromInt(int64(cmd.Servings))
	requirements := make([]requirement, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		requirements = append(requirements, requirement{
			ingredientID: ing.IngredientID,
			quantity:     ing.Quantity.Mul(servings),
			unit:         ing.Unit,
		})
	}

	return recipe, requirements, nil
}

// collectShortages reads availability per requirement, locking the
// rows when the caller intends to decrement afterwards
func (s *FulfillmentService) collectShortages(ctx context.Context, userID uuid.UUID, requirements []requirement, forUpdate bool) ([]cooking.ShortageRecord, error) {
	var shortages []cooking.ShortageRecord
	for _, req := range requirements {
		var available decimal.Decimal
		var err error
		if forUpdate {
			available, err = s.ledger.AvailabilityForUpdate(ctx, userID, req.ingredientID, req.unit)
		} else {
			available, err = s.ledger.Availability(ctx, userID, req.ingredientID, req.unit)
		}
		if err != nil {
			return nil, err
		}

		if available.LessThan(req.quantity) {
			shortages = append(shortages, cooking.NewShortageRecord(req.ingredientID, req.quantity, available, req.unit))
		}
	}
	return shortages, nil
}

// buildTips derives advisory, non-critical hints from the ledger
// changes. Best effort only.
func buildTips(changes []inbound.BatchChange) []string {
	var tips []string
	emptied := 0
	for _, c := range changes {
		if c.Deleted {
			emptied++
		}
	}
	if emptied > 0 {
		tips = append(tips, fmt.Sprintf("You used up %d pantry batch(es). Consider restocking soon.", emptied))
	}
	if len(changes) > 0 {
		tips = append(tips, "Oldest stock was used first to reduce waste.")
	}
	return tips
}
