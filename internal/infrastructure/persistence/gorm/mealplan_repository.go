package gorm

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create persists the plan header and all entries together
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	model := PlanToModel(plan)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return translateError(result.Error, "create meal plan", "meal plan")
	}

	return nil
}

// FindByID finds a plan with its entries
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel

	result := dbFromContext(ctx, r.db).
		Preload("Entries").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewPlanNotFoundError(id.String())
		}
		return nil, translateError(result.Error, "find meal plan", "meal plan")
	}

	return ModelToPlan(&model), nil
}

// FindByUser pages through a user's plans, newest first
func (r *MealPlanRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	countResult := db.Model(&MealPlanModel{}).
		Where("user_id = ?", userID).
		Count(&total)
	if countResult.Error != nil {
		return nil, 0, translateError(countResult.Error, "count meal plans", "meal plan")
	}

	var models []MealPlanModel
	result := db.
		Preload("Entries").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, translateError(result.Error, "list meal plans", "meal plan")
	}

	plans := make([]*mealplan.MealPlan, len(models))
	for i := range models {
		plans[i] = ModelToPlan(&models[i])
	}

	return plans, int(total), nil
}

// Delete removes a plan and its entries
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Delete(&MealEntryModel{}, "plan_id = ?", id).Error; err != nil {
		return translateError(err, "delete meal entries", "meal plan")
	}

	result := db.Delete(&MealPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete meal plan", "meal plan")
	}
	if result.RowsAffected == 0 {
		return errors.NewPlanNotFoundError(id.String())
	}

	return nil
}
