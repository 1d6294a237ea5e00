// Package pantry provides the application layer for the batch ledger
// This implements the use cases defined in the inbound ports
package pantry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// Ledger holds the primitive ledger operations shared by the pantry,
// fulfillment and waste services. All mutating methods expect to run
// inside a caller-owned transaction so that read-then-write sequences
// hold their row locks until commit.
type Ledger struct {
	repo outbound.PantryRepository
}

// NewLedger creates a ledger over the batch repository
func NewLedger(repo outbound.PantryRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Upsert merges quantity into the batch matching the identity key or
// creates a new row. The matched row is locked for the transaction.
func (l *Ledger) Upsert(ctx context.Context, userID uuid.UUID, ingredientID, unit string, quantity decimal.Decimal, bestBefore *time.Time, source string) (*pantry.Batch, error) {
	key := pantry.Key{UserID: userID, IngredientID: ingredientID, Unit: unit, BestBefore: bestBefore}

	existing, err := l.repo.FindByKey(ctx, key, true)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := existing.Add(quantity, bestBefore); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := l.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	batch, err := pantry.NewBatch(userID, ingredientID, unit, quantity, bestBefore, source)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := l.repo.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// DecrementForIngredient consumes requiredQty oldest-expiry-first
// across the user's batches of the ingredient. Batches drained to zero
// are deleted, partial ones updated. Returns the mutations applied and
// the amount actually deducted, which is short when stock ran out.
func (l *Ledger) DecrementForIngredient(ctx context.Context, userID uuid.UUID, ingredientID, unit string, requiredQty decimal.Decimal) ([]pantry.Mutation, decimal.Decimal, error) {
	batches, err := l.repo.FindForConsumption(ctx, userID, ingredientID, unit, true)
	if err != nil {
		return nil, decimal.Zero, err
	}

	mutations, deducted, err := pantry.ConsumeOldestFirst(batches, requiredQty)
	if err != nil {
		return nil, decimal.Zero, errors.NewValidationError(err.Error())
	}

	byID := make(map[uuid.UUID]*pantry.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID()] = b
	}

	for _, m := range mutations {
		batch := byID[m.BatchID]
		if m.Deleted {
			if err := l.repo.Delete(ctx, batch.ID()); err != nil {
				return nil, decimal.Zero, err
			}
			continue
		}
		if err := l.repo.Update(ctx, batch); err != nil {
			return nil, decimal.Zero, err
		}
	}

	return mutations, deducted, nil
}

// Availability sums the remaining quantity across matching batches
func (l *Ledger) Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error) {
	return l.repo.Availability(ctx, userID, ingredientID, unit)
}

// AvailabilityForUpdate sums stock while locking the matched rows for
// the rest of the transaction, so a check-then-decrement sequence
// cannot race with a concurrent consumer.
func (l *Ledger) AvailabilityForUpdate(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error) {
	batches, err := l.repo.FindForConsumption(ctx, userID, ingredientID, unit, true)
	if err != nil {
		return decimal.Zero, err
	}
	return pantry.TotalQuantity(batches), nil
}

// IngredientIDs lists the distinct ingredient ids the user stocks
func (l *Ledger) IngredientIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return l.repo.DistinctIngredientIDs(ctx, userID)
}
