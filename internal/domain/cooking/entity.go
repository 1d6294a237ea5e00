// Package cooking contains the domain types for recipe fulfillment:
// the cooking log written on every successful cook, waste records, and
// the shortage records produced by availability checks.
package cooking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShortageRecord reports one ingredient the pantry cannot cover.
// Produced read-only by both the cook-check path and the shopping-list
// path; DeficitQty is always NeededQty minus AvailableQty.
type ShortageRecord struct {
	IngredientID string          `json:"ingredient_id"`
	NeededQty    decimal.Decimal `json:"needed_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	DeficitQty   decimal.Decimal `json:"deficit_qty"`
	Unit         string          `json:"unit"`
}

// NewShortageRecord derives the deficit from needed and available
func NewShortageRecord(ingredientID string, needed, available decimal.Decimal, unit string) ShortageRecord {
	return ShortageRecord{
		IngredientID: ingredientID,
		NeededQty:    needed,
		AvailableQty: available,
		DeficitQty:   needed.Sub(available),
		Unit:         unit,
	}
}

// Log is one successful cook attempt
type Log struct {
	id       uuid.UUID
	userID   uuid.UUID
	recipeID string
	servings int
	cookedAt time.Time
}

// NewLog creates a cooking log row with validation
func NewLog(userID uuid.UUID, recipeID string, servings int) (*Log, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if recipeID == "" {
		return nil, ErrMissingRecipe
	}
	if servings <= 0 {
		return nil, ErrInvalidServings
	}
	return &Log{
		id:       uuid.New(),
		userID:   userID,
		recipeID: recipeID,
		servings: servings,
		cookedAt: time.Now(),
	}, nil
}

// ReconstituteLog rebuilds a log from persisted state
func ReconstituteLog(id, userID uuid.UUID, recipeID string, servings int, cookedAt time.Time) *Log {
	return &Log{id: id, userID: userID, recipeID: recipeID, servings: servings, cookedAt: cookedAt}
}

// ID returns the log row's identifier
func (l *Log) ID() uuid.UUID { return l.id }

// UserID returns who cooked
func (l *Log) UserID() uuid.UUID { return l.userID }

// RecipeID returns what was cooked
func (l *Log) RecipeID() string { return l.recipeID }

// Servings returns how many servings were cooked
func (l *Log) Servings() int { return l.servings }

// CookedAt returns when the cook completed
func (l *Log) CookedAt() time.Time { return l.cookedAt }

// WasteEntry records discarded pantry stock
type WasteEntry struct {
	id           uuid.UUID
	userID       uuid.UUID
	ingredientID string
	quantity     decimal.Decimal
	unit         string
	reason       string
	occurredAt   time.Time
}

// NewWasteEntry creates a waste record with validation
func NewWasteEntry(userID uuid.UUID, ingredientID string, quantity decimal.Decimal, unit, reason string) (*WasteEntry, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if ingredientID == "" {
		return nil, ErrMissingIngredient
	}
	if quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unit == "" {
		return nil, ErrMissingUnit
	}
	return &WasteEntry{
		id:           uuid.New(),
		userID:       userID,
		ingredientID: ingredientID,
		quantity:     quantity,
		unit:         unit,
		reason:       reason,
		occurredAt:   time.Now(),
	}, nil
}

// ReconstituteWasteEntry rebuilds a waste record from persisted state
func ReconstituteWasteEntry(id, userID uuid.UUID, ingredientID string, quantity decimal.Decimal, unit, reason string, occurredAt time.Time) *WasteEntry {
	return &WasteEntry{id: id, userID: userID, ingredientID: ingredientID, quantity: quantity, unit: unit, reason: reason, occurredAt: occurredAt}
}

// ID returns the waste row's identifier
func (w *WasteEntry) ID() uuid.UUID { return w.id }

// UserID returns whose stock was discarded
func (w *WasteEntry) UserID() uuid.UUID { return w.userID }

// IngredientID returns what was discarded
func (w *WasteEntry) IngredientID() string { return w.ingredientID }

// Quantity returns how much was discarded
func (w *WasteEntry) Quantity() decimal.Decimal { return w.quantity }

// Unit returns the unit of measure
func (w *WasteEntry) Unit() string { return w.unit }

// Reason returns the free-form waste reason
func (w *WasteEntry) Reason() string { return w.reason }

// OccurredAt returns when the waste was recorded
func (w *WasteEntry) OccurredAt() time.Time { return w.occurredAt }
