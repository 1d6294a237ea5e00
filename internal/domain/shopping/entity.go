// Package shopping contains the shopping list aggregate built from a
// meal plan's ingredient needs diffed against the pantry.
package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListStatus tracks a shopping list's lifecycle
type ListStatus string

const (
	StatusOpen      ListStatus = "open"
	StatusCompleted ListStatus = "completed"
	StatusArchived  ListStatus = "archived"
)

// List is a shopping list header with its items
type List struct {
	id        uuid.UUID
	userID    uuid.UUID
	planID    *uuid.UUID
	status    ListStatus
	items     []*Item
	createdAt time.Time
	updatedAt time.Time
}

// Item is one ingredient line on a shopping list
type Item struct {
	id            uuid.UUID
	listID        uuid.UUID
	ingredientID  string
	neededQty     decimal.Decimal
	unit          string
	checked       bool
	fromRecipeIDs []string
	note          string
}

// NewList creates an open shopping list, optionally tied to a plan
func NewList(userID uuid.UUID, planID *uuid.UUID) (*List, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	now := time.Now()
	return &List{
		id:        uuid.New(),
		userID:    userID,
		planID:    planID,
		status:    StatusOpen,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute rebuilds a list from persisted state
func Reconstitute(id, userID uuid.UUID, planID *uuid.UUID, status ListStatus, createdAt, updatedAt time.Time, items []*Item) *List {
	return &List{id: id, userID: userID, planID: planID, status: status, createdAt: createdAt, updatedAt: updatedAt, items: items}
}

// ReconstituteItem rebuilds an item from persisted state
func ReconstituteItem(id, listID uuid.UUID, ingredientID string, neededQty decimal.Decimal, unit string, checked bool, fromRecipeIDs []string, note string) *Item {
	return &Item{id: id, listID: listID, ingredientID: ingredientID, neededQty: neededQty, unit: unit, checked: checked, fromRecipeIDs: fromRecipeIDs, note: note}
}

// ID returns the list's identifier
func (l *List) ID() uuid.UUID { return l.id }

// UserID returns the owning user
func (l *List) UserID() uuid.UUID { return l.userID }

// PlanID returns the meal plan the list was built from, nil for ad-hoc lists
func (l *List) PlanID() *uuid.UUID { return l.planID }

// Status returns the list's lifecycle status
func (l *List) Status() ListStatus { return l.status }

// Items returns the list's lines
func (l *List) Items() []*Item { return l.items }

// CreatedAt returns when the list was built
func (l *List) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the list last changed
func (l *List) UpdatedAt() time.Time { return l.updatedAt }

// AddItem appends one ingredient line
func (l *List) AddItem(ingredientID string, neededQty decimal.Decimal, unit string, fromRecipeIDs []string, note string) error {
	if ingredientID == "" {
		return ErrMissingIngredient
	}
	if neededQty.Sign() <= 0 {
		return ErrInvalidQuantity
	}
	l.items = append(l.items, &Item{
		id:            uuid.New(),
		listID:        l.id,
		ingredientID:  ingredientID,
		neededQty:     neededQty,
		unit:          unit,
		fromRecipeIDs: fromRecipeIDs,
		note:          note,
	})
	l.updatedAt = time.Now()
	return nil
}

// Complete marks the list done. Only open lists can complete.
func (l *List) Complete() error {
	if l.status != StatusOpen {
		return ErrListNotOpen
	}
	l.status = StatusCompleted
	l.updatedAt = time.Now()
	return nil
}

// Archive retires the list
func (l *List) Archive() {
	l.status = StatusArchived
	l.updatedAt = time.Now()
}

// ID returns the item's identifier
func (i *Item) ID() uuid.UUID { return i.id }

// ListID returns the owning list
func (i *Item) ListID() uuid.UUID { return i.listID }

// IngredientID returns the catalog ingredient id
func (i *Item) IngredientID() string { return i.ingredientID }

// NeededQty returns the quantity still to buy
func (i *Item) NeededQty() decimal.Decimal { return i.neededQty }

// Unit returns the unit of measure
func (i *Item) Unit() string { return i.unit }

// Checked reports whether the user ticked the line off
func (i *Item) Checked() bool { return i.checked }

// FromRecipeIDs returns the recipes that contributed the need
func (i *Item) FromRecipeIDs() []string { return i.fromRecipeIDs }

// Note returns the free-form note on the line
func (i *Item) Note() string { return i.note }

// SetChecked toggles the line's checked state
func (i *Item) SetChecked(checked bool) {
	i.checked = checked
}
