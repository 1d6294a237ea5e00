package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlannerService defines the multi-day plan generation use cases
type PlannerService interface {
	// GeneratePlan builds and persists a plan atomically
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*MealPlanDTO, error)

	// Queries
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*MealPlanDTO, error)
	ListUserPlans(ctx context.Context, userID uuid.UUID, params PaginationParams) (*MealPlanList, error)

	// DeletePlan removes a plan and its entries
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
}

// GeneratePlanCommand requests a plan for a date range
type GeneratePlanCommand struct {
	UserID           uuid.UUID
	WeekStart        time.Time
	Days             int
	UseSubstitutions bool
	ServingsPerMeal  int // 0 means the configured default
}

// MealEntryDTO is the read model for one plan slot
type MealEntryDTO struct {
	ID       uuid.UUID `json:"id"`
	DayIndex int       `json:"day_index"`
	Date     time.Time `json:"date"`
	RecipeID string    `json:"recipe_id"`
	Servings int       `json:"servings"`
}

// MealPlanDTO is the read model for a plan with its entries
type MealPlanDTO struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	WeekStart time.Time      `json:"week_start"`
	WeekEnd   time.Time      `json:"week_end"`
	Days      int            `json:"days"`
	Entries   []MealEntryDTO `json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
}

// MealPlanList is a paginated plan listing
type MealPlanList struct {
	Plans      []MealPlanDTO `json:"plans"`
	TotalCount int           `json:"total_count"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
}

// PaginationParams bounds list queries
type PaginationParams struct {
	Offset int
	Limit  int
}
