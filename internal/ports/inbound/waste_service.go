package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WasteService defines the waste tracking use cases
type WasteService interface {
	// LogWaste records the discard and decrements the pantry
	// oldest-expiry-first in the same transaction
	LogWaste(ctx context.Context, cmd LogWasteCommand) (*WasteEntryDTO, error)

	// WasteHistory lists a user's recent waste records
	WasteHistory(ctx context.Context, userID uuid.UUID, days int) ([]WasteEntryDTO, error)
}

// LogWasteCommand records one discarded quantity
type LogWasteCommand struct {
	UserID       uuid.UUID
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string
	Reason       string
}

// WasteEntryDTO is the read model for one waste record
type WasteEntryDTO struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Reason       string          `json:"reason,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
