// Package pantry contains the core domain logic for the batch-level
// ingredient ledger. This follows Domain-Driven Design principles with
// rich domain models.
package pantry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartmeal/core/internal/domain/shared"
)

// Batch represents one physical lot of an ingredient owned by a user.
// Two additions of the same (user, ingredient, unit, bestBefore) merge
// into a single batch; a different bestBefore starts a new batch. That
// is what makes oldest-expiry-first consumption possible across lots.
type Batch struct {
	id           uuid.UUID
	userID       uuid.UUID
	ingredientID string
	quantity     decimal.Decimal
	unit         string
	bestBefore   *time.Time
	source       string

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// Key identifies the batch a quantity addition merges into.
type Key struct {
	UserID       uuid.UUID
	IngredientID string
	Unit         string
	BestBefore   *time.Time
}

// NewBatch creates a new Batch with validation
func NewBatch(userID uuid.UUID, ingredientID, unit string, quantity decimal.Decimal, bestBefore *time.Time, source string) (*Batch, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if ingredientID == "" {
		return nil, ErrMissingIngredient
	}
	if unit == "" {
		return nil, ErrMissingUnit
	}
	if quantity.Sign() <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	now := time.Now()
	b := &Batch{
		id:           uuid.New(),
		userID:       userID,
		ingredientID: ingredientID,
		quantity:     quantity,
		unit:         unit,
		bestBefore:   normalizeDate(bestBefore),
		source:       source,
		createdAt:    now,
		updatedAt:    now,
	}

	b.addEvent(BatchCreatedEvent{
		BaseEvent:    shared.BaseEvent{Name: "pantry.batch.created", At: now},
		BatchID:      b.id,
		UserID:       userID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	})

	return b, nil
}

// Reconstitute rebuilds a Batch from persisted state without validation
// or events. For use by the persistence layer only.
func Reconstitute(id, userID uuid.UUID, ingredientID, unit string, quantity decimal.Decimal, bestBefore *time.Time, source string, createdAt, updatedAt time.Time) *Batch {
	return &Batch{
		id:           id,
		userID:       userID,
		ingredientID: ingredientID,
		quantity:     quantity,
		unit:         unit,
		bestBefore:   normalizeDate(bestBefore),
		source:       source,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the batch's unique identifier
func (b *Batch) ID() uuid.UUID {
	return b.id
}

// UserID returns the owning user's identifier
func (b *Batch) UserID() uuid.UUID {
	return b.userID
}

// IngredientID returns the catalog ingredient id this batch holds
func (b *Batch) IngredientID() string {
	return b.ingredientID
}

// Quantity returns the remaining quantity
func (b *Batch) Quantity() decimal.Decimal {
	return b.quantity
}

// Unit returns the unit of measure
func (b *Batch) Unit() string {
	return b.unit
}

// BestBefore returns the expiry date, nil when unknown
func (b *Batch) BestBefore() *time.Time {
	return b.bestBefore
}

// Source returns the provenance tag, empty when not recorded
func (b *Batch) Source() string {
	return b.source
}

// CreatedAt returns when the batch row was first created
func (b *Batch) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns when the batch was last mutated
func (b *Batch) UpdatedAt() time.Time {
	return b.updatedAt
}

// Key returns the batch's merge identity
func (b *Batch) Key() Key {
	return Key{
		UserID:       b.userID,
		IngredientID: b.ingredientID,
		Unit:         b.unit,
		BestBefore:   b.bestBefore,
	}
}

// Add merges a restock into this batch. The explicit bestBefore wins
// when supplied; otherwise the existing one is retained.
func (b *Batch) Add(quantity decimal.Decimal, bestBefore *time.Time) error {
	if quantity.Sign() <= 0 {
		return ErrNonPositiveQuantity
	}

	b.quantity = b.quantity.Add(quantity)
	if bestBefore != nil {
		b.bestBefore = normalizeDate(bestBefore)
	}
	b.touch()

	return nil
}

// Consume takes up to requested from the batch and returns the amount
// actually taken. The batch may end at exactly zero; callers must then
// delete it rather than persist a zero row.
func (b *Batch) Consume(requested decimal.Decimal) (decimal.Decimal, error) {
	if requested.Sign() <= 0 {
		return decimal.Zero, ErrNonPositiveQuantity
	}

	taken := decimal.Min(requested, b.quantity)
	b.quantity = b.quantity.Sub(taken)
	b.touch()

	b.addEvent(BatchConsumedEvent{
		BaseEvent:    shared.BaseEvent{Name: "pantry.batch.consumed", At: time.Now()},
		BatchID:      b.id,
		UserID:       b.userID,
		IngredientID: b.ingredientID,
		Taken:        taken,
		Remaining:    b.quantity,
	})

	return taken, nil
}

// SetQuantity replaces the remaining quantity. Zero is allowed so the
// caller can observe IsEmpty and delete; negative is not.
func (b *Batch) SetQuantity(quantity decimal.Decimal) error {
	if quantity.Sign() < 0 {
		return ErrNegativeQuantity
	}
	b.quantity = quantity
	b.touch()
	return nil
}

// IsEmpty reports whether the batch has been fully consumed
func (b *Batch) IsEmpty() bool {
	return b.quantity.Sign() == 0
}

// HasKnownExpiry reports whether the batch carries a bestBefore date
func (b *Batch) HasKnownExpiry() bool {
	return b.bestBefore != nil
}

// ExpiresWithin reports whether the batch expires between now and
// now+days. Batches with unknown expiry never report as expiring.
func (b *Batch) ExpiresWithin(days int, now time.Time) bool {
	if b.bestBefore == nil {
		return false
	}
	today := truncateToDay(now)
	horizon := today.AddDate(0, 0, days)
	return !b.bestBefore.Before(today) && !b.bestBefore.After(horizon)
}

// Events returns and clears pending domain events
func (b *Batch) Events() []shared.DomainEvent {
	events := b.events
	b.events = nil
	return events
}

func (b *Batch) addEvent(event shared.DomainEvent) {
	b.events = append(b.events, event)
}

func (b *Batch) touch() {
	b.updatedAt = time.Now()
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := truncateToDay(*t)
	return &d
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
