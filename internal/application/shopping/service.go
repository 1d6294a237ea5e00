// Package shopping builds purchase lists for persisted meal plans by
// diffing the plan's aggregated ingredient needs against pantry stock.
package shopping

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// ShoppingService implements the shopping list use cases
type ShoppingService struct {
	planRepo outbound.MealPlanRepository
	listRepo outbound.ShoppingListRepository
	catalog  outbound.RecipeCatalog
	ledger   *pantry.Ledger
	tm       outbound.TransactionManager
	logger   *zap.Logger
}

// NewShoppingService creates a new shopping service
func NewShoppingService(
	planRepo outbound.MealPlanRepository,
	listRepo outbound.ShoppingListRepository,
	catalog outbound.RecipeCatalog,
	ledger *pantry.Ledger,
	tm outbound.TransactionManager,
	logger *zap.Logger,
) inbound.ShoppingService {
	return &ShoppingService{
		planRepo: planRepo,
		listRepo: listRepo,
		catalog:  catalog,
		ledger:   ledger,
		tm:       tm,
		logger:   logger.Named("shopping-service"),
	}
}

// BuildListForPlan aggregates the plan's recipes, subtracts pantry
// stock per ingredient and unit, and persists the remainder as an open
// shopping list. Stock recorded under a different unit does not offset
// the need; those lines go on the list in full.
func (s *ShoppingService) BuildListForPlan(ctx context.Context, cmd inbound.BuildListCommand) (*inbound.ShoppingListDTO, error) {
	plan, err := s.ownedPlan(ctx, cmd.UserID, cmd.PlanID)
	if err != nil {
		return nil, err
	}
	if len(plan.Entries()) == 0 {
		return nil, errors.NewValidationError("plan has no meal entries")
	}

	// Recipe quantities are per serving, so the multiplier for a recipe
	// is its total servings across all plan entries
	multipliers := make(map[string]decimal.Decimal)
	var recipeIDs []string
	for _, e := range plan.Entries() {
		if _, seen := multipliers[e.RecipeID()]; !seen {
			recipeIDs = append(recipeIDs, e.RecipeID())
		}
		multipliers[e.RecipeID()] = multipliers[e.RecipeID()].Add(decimal.NewFromInt(int64(e.Servings())))
	}

	needs, err := s.catalog.AggregateIngredients(ctx, recipeIDs, multipliers)
	if err != nil {
		return nil, err
	}

	planID := cmd.PlanID
	list, err := shopping.NewList(cmd.UserID, &planID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	// Map keys are composite for mixed-unit lines; the real ingredient
	// id lives on the struct
	keys := make([]string, 0, len(needs))
	for key := range needs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		need := needs[key]

		available, err := s.ledger.Availability(ctx, cmd.UserID, need.IngredientID, need.Unit)
		if err != nil {
			return nil, err
		}

		toBuy := need.TotalQty.Sub(available)
		if toBuy.Sign() <= 0 {
			continue
		}
		if err := list.AddItem(need.IngredientID, toBuy, need.Unit, need.FromRecipeIDs, ""); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	err = s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.listRepo.Create(txCtx, list)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shopping list built",
		zap.String("list_id", list.ID().String()),
		zap.String("plan_id", cmd.PlanID.String()),
		zap.Int("items", len(list.Items())),
	)

	dto := listToDTO(list)
	return &dto, nil
}

// GetList fetches one list with its items
func (s *ShoppingService) GetList(ctx context.Context, userID, listID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	dto := listToDTO(list)
	return &dto, nil
}

// ListUserLists pages through a user's shopping lists, newest first
func (s *ShoppingService) ListUserLists(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.ShoppingListPage, error) {
	offset, limit := normalizePagination(params)

	lists, total, err := s.listRepo.FindByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.ShoppingListDTO, 0, len(lists))
	for _, l := range lists {
		dtos = append(dtos, listToDTO(l))
	}

	return &inbound.ShoppingListPage{
		Lists:      dtos,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

// SetItemChecked toggles one line's checked state
func (s *ShoppingService) SetItemChecked(ctx context.Context, userID, listID, itemID uuid.UUID, checked bool) error {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return err
	}

	found := false
	for _, item := range list.Items() {
		if item.ID() == itemID {
			found = true
			break
		}
	}
	if !found {
		return errors.NewNotFoundError("shopping list item")
	}

	return s.listRepo.UpdateItemChecked(ctx, listID, itemID, checked)
}

// DeleteList removes a list and its items
func (s *ShoppingService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	return s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ownedList(txCtx, userID, listID); err != nil {
			return err
		}
		return s.listRepo.Delete(txCtx, listID)
	})
}

func (s *ShoppingService) ownedPlan(ctx context.Context, userID, planID uuid.UUID) (*mealplan.MealPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID() != userID {
		return nil, errors.NewPlanNotFoundError(planID.String())
	}
	return plan, nil
}

func (s *ShoppingService) ownedList(ctx context.Context, userID, listID uuid.UUID) (*shopping.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID() != userID {
		return nil, errors.NewNotFoundError("shopping list")
	}
	return list, nil
}

func listToDTO(l *shopping.List) inbound.ShoppingListDTO {
	items := make([]inbound.ShoppingItemDTO, 0, len(l.Items()))
	for _, item := range l.Items() {
		items = append(items, inbound.ShoppingItemDTO{
			ID:            item.ID(),
			IngredientID:  item.IngredientID(),
			NeededQty:     item.NeededQty(),
			Unit:          item.Unit(),
			Checked:       item.Checked(),
			FromRecipeIDs: item.FromRecipeIDs(),
			Note:          item.Note(),
		})
	}

	return inbound.ShoppingListDTO{
		ID:        l.ID(),
		UserID:    l.UserID(),
		PlanID:    l.PlanID(),
		Status:    string(l.Status()),
		Items:     items,
		CreatedAt: l.CreatedAt(),
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
