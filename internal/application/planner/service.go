package planner

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// ConflictResolver is the slice of the conflict package the planner
// depends on
type ConflictResolver interface {
	Resolve(ctx context.Context, ingredientIDs []string, userID uuid.UUID, allergenIDs []string, allowSubstitution bool, maxSubsPerRecipe int) (bool, []string, error)
}

// Config holds the planner's policy knobs
type Config struct {
	// Topics fanned out as catalog searches to build the candidate
	// pool; the catalog has no native recommend query
	Topics []string

	PerTopicLimit    int
	DiversityWindow  int
	DefaultServings  int
	MaxSubsPerRecipe int
}

// DefaultConfig returns the planner defaults
func DefaultConfig() Config {
	return Config{
		Topics: []string{
			"quick", "baked", "salad", "soup", "chicken",
			"beef", "pasta", "main-dish", "vegetarian", "dessert",
		},
		PerTopicLimit:    20,
		DiversityWindow:  3,
		DefaultServings:  2,
		MaxSubsPerRecipe: 3,
	}
}

// PlannerService implements the plan generation use cases
type PlannerService struct {
	userRepo outbound.UserRepository
	catalog  outbound.RecipeCatalog
	resolver ConflictResolver
	ledger   *pantry.Ledger
	planRepo outbound.MealPlanRepository
	tm       outbound.TransactionManager
	cfg      Config
	logger   *zap.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	userRepo outbound.UserRepository,
	catalog outbound.RecipeCatalog,
	resolver ConflictResolver,
	ledger *pantry.Ledger,
	planRepo outbound.MealPlanRepository,
	tm outbound.TransactionManager,
	cfg Config,
	logger *zap.Logger,
) inbound.PlannerService {
	return &PlannerService{
		userRepo: userRepo,
		catalog:  catalog,
		resolver: resolver,
		ledger:   ledger,
		planRepo: planRepo,
		tm:       tm,
		cfg:      cfg,
		logger:   logger.Named("planner-service"),
	}
}

// scoredCandidate is one surviving recipe with its resolved ingredient
// list and pantry/diversity score
type scoredCandidate struct {
	doc                  outbound.RecipeDocument
	effectiveIngredients []string
	score                float64
}

// GeneratePlan walks the full pipeline: validate user, load
// constraints, fetch candidates, resolve conflicts, score, select,
// persist. The plan header and entries commit in one transaction.
func (s *PlannerService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.MealPlanDTO, error) {
	u, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	plan, err := mealplan.NewMealPlan(cmd.UserID, cmd.WeekStart, cmd.Days)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Time("week_start", plan.WeekStart()),
		zap.Int("days", cmd.Days),
		zap.Bool("use_substitutions", cmd.UseSubstitutions),
	)

	pantryIDs, err := s.ledger.IngredientIDs(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	pantrySet := toSet(pantryIDs)
	allergenSet := u.AllergenSet()

	pool, err := s.fetchCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errors.NewValidationError("no candidate recipes available from the catalog")
	}

	survivors, err := s.resolveAndScore(ctx, pool, cmd.UserID, u.AllergenIngredientIDs(), cmd.UseSubstitutions, pantrySet, allergenSet)
	if err != nil {
		return nil, err
	}

	picks := s.selectCandidates(survivors, cmd.Days)
	if len(picks) == 0 {
		return nil, errors.NewValidationError("no recipes satisfy the user's constraints")
	}

	servings := cmd.ServingsPerMeal
	if servings <= 0 {
		servings = s.cfg.DefaultServings
	}

	// Fewer distinct recipes than days: cycle the picks so every day
	// slot is filled
	for dayIndex := 0; dayIndex < cmd.Days; dayIndex++ {
		pick := picks[dayIndex%len(picks)]
		if err := plan.AddEntry(dayIndex, pick.doc.ID, servings); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	err = s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.planRepo.Create(txCtx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Meal plan generated",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("distinct_recipes", len(picks)),
	)

	dto := planToDTO(plan)
	return &dto, nil
}

// GetPlan fetches one plan with its entries
func (s *PlannerService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	dto := planToDTO(plan)
	return &dto, nil
}

// ListUserPlans pages through a user's plans, newest first
func (s *PlannerService) ListUserPlans(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.MealPlanList, error) {
	offset, limit := normalizePagination(params)

	plans, total, err := s.planRepo.FindByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.MealPlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, planToDTO(p))
	}

	return &inbound.MealPlanList{
		Plans:      dtos,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

// DeletePlan removes a plan and its entries
func (s *PlannerService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	return s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ownedPlan(txCtx, userID, planID); err != nil {
			return err
		}
		return s.planRepo.Delete(txCtx, planID)
	})
}

// fetchCandidates fans the topic searches out and de-duplicates by
// recipe id
func (s *PlannerService) fetchCandidates(ctx context.Context) ([]outbound.RecipeDocument, error) {
	var pool []outbound.RecipeDocument
	seen := make(map[string]bool)

	for _, topic := range s.cfg.Topics {
		docs, err := s.catalog.Search(ctx, topic, nil, nil, s.cfg.PerTopicLimit)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if !seen[doc.ID] {
				seen[doc.ID] = true
				pool = append(pool, doc)
			}
		}
	}

	return pool, nil
}

// resolveAndScore runs the conflict resolver per candidate, discards
// unresolvable ones, scores the survivors and drops hard exclusions
func (s *PlannerService) resolveAndScore(ctx context.Context, pool []outbound.RecipeDocument, userID uuid.UUID, allergenIDs []string, useSubstitutions bool, pantrySet, allergenSet map[string]struct{}) ([]scoredCandidate, error) {
	noCuisinesUsed := map[string]struct{}{}

	var survivors []scoredCandidate
	for _, doc := range pool {
		ids := make([]string, 0, len(doc.Ingredients))
		for _, ing := range doc.Ingredients {
			ids = append(ids, ing.IngredientID)
		}

		ok, effective, err := s.resolver.Resolve(ctx, ids, userID, allergenIDs, useSubstitutions, s.cfg.MaxSubsPerRecipe)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		score := PantryDiversityScore(effective, pantrySet, allergenSet, doc.Cuisine, noCuisinesUsed)
		if score == ExclusionScore {
			continue
		}

		survivors = append(survivors, scoredCandidate{
			doc:                  doc,
			effectiveIngredients: effective,
			score:                score,
		})
	}

	return survivors, nil
}

// selectCandidates sorts by score descending (recipe id ascending as
// the deterministic tie-break) and greedily picks up to days distinct
// recipes. The first DiversityWindow picks skip cuisines already
// chosen; remaining slots fill from the sorted order regardless.
func (s *PlannerService) selectCandidates(survivors []scoredCandidate, days int) []scoredCandidate {
	sorted := make([]scoredCandidate, len(survivors))
	copy(sorted, survivors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].doc.ID < sorted[j].doc.ID
	})

	var picks []scoredCandidate
	picked := make(map[string]bool)
	usedCuisines := make(map[string]bool)

	for _, c := range sorted {
		if len(picks) >= days {
			break
		}
		cuisine := normalizeCuisine(c.doc.Cuisine)
		if len(picks) < s.cfg.DiversityWindow && cuisine != "" && usedCuisines[cuisine] {
			continue
		}
		picks = append(picks, c)
		picked[c.doc.ID] = true
		usedCuisines[cuisine] = true
	}

	// Fallback fill ignoring the diversity constraint
	for _, c := range sorted {
		if len(picks) >= days {
			break
		}
		if !picked[c.doc.ID] {
			picks = append(picks, c)
			picked[c.doc.ID] = true
		}
	}

	return picks
}

func (s *PlannerService) ownedPlan(ctx context.Context, userID, planID uuid.UUID) (*mealplan.MealPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID() != userID {
		return nil, errors.NewPlanNotFoundError(planID.String())
	}
	return plan, nil
}

func planToDTO(p *mealplan.MealPlan) inbound.MealPlanDTO {
	entries := make([]inbound.MealEntryDTO, 0, len(p.Entries()))
	for _, e := range p.Entries() {
		entries = append(entries, inbound.MealEntryDTO{
			ID:       e.ID(),
			DayIndex: e.DayIndex(),
			Date:     p.WeekStart().AddDate(0, 0, e.DayIndex()),
			RecipeID: e.RecipeID(),
			Servings: e.Servings(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DayIndex < entries[j].DayIndex })

	return inbound.MealPlanDTO{
		ID:        p.ID(),
		UserID:    p.UserID(),
		WeekStart: p.WeekStart(),
		WeekEnd:   p.WeekEnd(),
		Days:      p.Days(),
		Entries:   entries,
		CreatedAt: p.CreatedAt(),
	}
}

func normalizePagination(params inbound.PaginationParams) (int, int) {
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return offset, limit
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
