package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingService defines the plan-level shopping list use cases
type ShoppingService interface {
	// BuildListForPlan aggregates a plan's ingredient needs, diffs them
	// against the pantry and persists the resulting list atomically
	BuildListForPlan(ctx context.Context, cmd BuildListCommand) (*ShoppingListDTO, error)

	// Queries
	GetList(ctx context.Context, userID, listID uuid.UUID) (*ShoppingListDTO, error)
	ListUserLists(ctx context.Context, userID uuid.UUID, params PaginationParams) (*ShoppingListPage, error)

	// Commands
	SetItemChecked(ctx context.Context, userID, listID, itemID uuid.UUID, checked bool) error
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
}

// BuildListCommand requests a shopping list for a persisted plan
type BuildListCommand struct {
	UserID uuid.UUID
	PlanID uuid.UUID
}

// ShoppingItemDTO is one list line
type ShoppingItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	IngredientID  string          `json:"ingredient_id"`
	NeededQty     decimal.Decimal `json:"needed_qty"`
	Unit          string          `json:"unit"`
	Checked       bool            `json:"checked"`
	FromRecipeIDs []string        `json:"from_recipe_ids,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// ShoppingListDTO is the read model for a list with its items
type ShoppingListDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	PlanID    *uuid.UUID        `json:"plan_id,omitempty"`
	Status    string            `json:"status"`
	Items     []ShoppingItemDTO `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// ShoppingListPage is a paginated list of shopping lists
type ShoppingListPage struct {
	Lists      []ShoppingListDTO `json:"lists"`
	TotalCount int               `json:"total_count"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
}
