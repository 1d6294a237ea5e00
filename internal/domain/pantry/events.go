package pantry

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/shared"
)

// BatchCreatedEvent is raised when a new batch row enters the ledger
type BatchCreatedEvent struct {
	shared.BaseEvent
	BatchID      uuid.UUID
	UserID       uuid.UUID
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string
}

// BatchConsumedEvent is raised when quantity is taken from a batch
type BatchConsumedEvent struct {
	shared.BaseEvent
	BatchID      uuid.UUID
	UserID       uuid.UUID
	IngredientID string
	Taken        decimal.Decimal
	Remaining    decimal.Decimal
}
