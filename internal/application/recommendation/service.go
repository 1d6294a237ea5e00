// Package recommendation provides on-demand recipe suggestions scored
// against the user's preferences and pantry.
package recommendation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/application/planner"
	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// Policy knobs for the recommendation flow
const (
	defaultLimit         = 10
	candidatePoolLimit   = 50
	recentCookWindowDays = 7
	expiringSearchLimit  = 5
)

// RecommendationService implements the suggestion use cases
type RecommendationService struct {
	userRepo    outbound.UserRepository
	catalog     outbound.RecipeCatalog
	graph       outbound.IngredientGraph
	ledger      *pantry.Ledger
	pantryRepo  outbound.PantryRepository
	cookingRepo outbound.CookingLogRepository
	logger      *zap.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	userRepo outbound.UserRepository,
	catalog outbound.RecipeCatalog,
	graph outbound.IngredientGraph,
	ledger *pantry.Ledger,
	pantryRepo outbound.PantryRepository,
	cookingRepo outbound.CookingLogRepository,
	logger *zap.Logger,
) inbound.RecommendationService {
	return &RecommendationService{
		userRepo:    userRepo,
		catalog:     catalog,
		graph:       graph,
		ledger:      ledger,
		pantryRepo:  pantryRepo,
		cookingRepo: cookingRepo,
		logger:      logger.Named("recommendation-service"),
	}
}

// Recommend scores catalog candidates with the preference formula and
// returns the top matches. Recipes cooked within the last week and
// recipes hitting the allergen exclusion are dropped.
func (s *RecommendationService) Recommend(ctx context.Context, cmd inbound.RecommendCommand) ([]inbound.RecommendationDTO, error) {
	u, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	pantryIDs, err := s.ledger.IngredientIDs(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	pantrySet := toSet(pantryIDs)

	recentlyCooked, err := s.recentlyCooked(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	tags := cmd.Tags
	if len(tags) == 0 {
		for _, p := range u.TagPreferences() {
			if p.Strength != user.StrengthAvoid {
				tags = append(tags, p.Tag)
			}
		}
	}

	docs, err := s.catalog.Search(ctx, "", tags, u.AllergenIngredientIDs(), candidatePoolLimit)
	if err != nil {
		return nil, err
	}

	var results []inbound.RecommendationDTO
	for _, doc := range docs {
		if recentlyCooked[doc.ID] {
			continue
		}
		score := planner.PreferenceScore(doc, u, pantrySet)
		if score == planner.ExclusionScore {
			continue
		}
		results = append(results, inbound.RecommendationDTO{
			RecipeID: doc.ID,
			Name:     doc.Name,
			Cuisine:  doc.Cuisine,
			Tags:     doc.Tags,
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].RecipeID < results[j].RecipeID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	s.logger.Debug("Recommendations computed",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("candidates", len(docs)),
		zap.Int("returned", len(results)),
	)

	return results, nil
}

// SuggestForExpiring proposes recipes that use pantry ingredients
// expiring within the window
func (s *RecommendationService) SuggestForExpiring(ctx context.Context, userID uuid.UUID, days int) (*inbound.ExpiringSuggestions, error) {
	if days < 0 {
		return nil, errors.NewValidationError("days must not be negative")
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	batches, err := s.pantryRepo.FindExpiringWithin(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return &inbound.ExpiringSuggestions{Expiring: []inbound.ExpiringIngredient{}, Recipes: []inbound.RecommendationDTO{}}, nil
	}

	var ids []string
	seen := make(map[string]bool)
	daysLeft := make(map[string]int)
	today := time.Now()
	for _, b := range batches {
		if seen[b.IngredientID()] {
			continue
		}
		seen[b.IngredientID()] = true
		ids = append(ids, b.IngredientID())
		if bb := b.BestBefore(); bb != nil {
			daysLeft[b.IngredientID()] = int(bb.Sub(today).Hours() / 24)
		}
	}

	metadata, err := s.graph.GetMetadataBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	expiring := make([]inbound.ExpiringIngredient, 0, len(ids))
	for _, id := range ids {
		item := inbound.ExpiringIngredient{IngredientID: id, DaysLeft: daysLeft[id]}
		if meta, ok := metadata[id]; ok {
			item.Name = meta.Name
		}
		expiring = append(expiring, item)
	}

	pantryIDs, err := s.ledger.IngredientIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	pantrySet := toSet(pantryIDs)

	var recipes []inbound.RecommendationDTO
	seenRecipe := make(map[string]bool)
	for _, item := range expiring {
		if item.Name == "" {
			continue
		}
		docs, err := s.catalog.Search(ctx, item.Name, nil, u.AllergenIngredientIDs(), expiringSearchLimit)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if seenRecipe[doc.ID] {
				continue
			}
			seenRecipe[doc.ID] = true
			score := planner.PreferenceScore(doc, u, pantrySet)
			if score == planner.ExclusionScore {
				continue
			}
			recipes = append(recipes, inbound.RecommendationDTO{
				RecipeID: doc.ID,
				Name:     doc.Name,
				Cuisine:  doc.Cuisine,
				Tags:     doc.Tags,
				Score:    score,
			})
		}
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		if recipes[i].Score != recipes[j].Score {
			return recipes[i].Score > recipes[j].Score
		}
		return recipes[i].RecipeID < recipes[j].RecipeID
	})

	return &inbound.ExpiringSuggestions{Expiring: expiring, Recipes: recipes}, nil
}

func (s *RecommendationService) recentlyCooked(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	since := time.Now().AddDate(0, 0, -recentCookWindowDays)
	logs, err := s.cookingRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	cooked := make(map[string]bool, len(logs))
	for _, log := range logs {
		cooked[log.RecipeID()] = true
	}
	return cooked, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
