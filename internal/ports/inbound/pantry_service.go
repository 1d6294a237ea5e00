// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PantryService defines the use cases over the batch ledger
type PantryService interface {
	// Commands - operations that modify state
	UpsertBatch(ctx context.Context, cmd UpsertBatchCommand) (*PantryBatchDTO, error)
	SetPantry(ctx context.Context, cmd SetPantryCommand) ([]PantryBatchDTO, error)
	SetQuantity(ctx context.Context, userID, batchID uuid.UUID, quantity decimal.Decimal) error
	DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error

	// Queries - operations that read state
	GetPantry(ctx context.Context, userID uuid.UUID) ([]PantryBatchDTO, error)
	Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error)
	ExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]PantryBatchDTO, error)
}

// UpsertBatchCommand adds stock to the ledger, merging into the batch
// with the same (ingredient, unit, bestBefore) when one exists
type UpsertBatchCommand struct {
	UserID       uuid.UUID
	IngredientID string
	Unit         string
	Quantity     decimal.Decimal
	BestBefore   *time.Time
	Source       string
}

// SetPantryItem is one line of a full pantry replacement
type SetPantryItem struct {
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string
	BestBefore   *time.Time
}

// SetPantryCommand atomically replaces a user's entire pantry
type SetPantryCommand struct {
	UserID uuid.UUID
	Items  []SetPantryItem
}

// PantryBatchDTO is the read model for one ledger batch
type PantryBatchDTO struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	BestBefore   *time.Time      `json:"best_before,omitempty"`
	Source       string          `json:"source,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
