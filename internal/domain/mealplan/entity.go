// Package mealplan contains the core domain logic for multi-day meal
// plans and their per-day entries.
package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartmeal/core/internal/domain/shared"
)

// MaxPlanDays bounds plan length; two weeks covers every product flow.
const MaxPlanDays = 14

// MealPlan is a user's plan for a contiguous date range. Entries are
// created together with the header and never partially persisted.
type MealPlan struct {
	id        uuid.UUID
	userID    uuid.UUID
	weekStart time.Time
	days      int
	entries   []*MealEntry
	createdAt time.Time

	events []shared.DomainEvent
}

// MealEntry is one (dayIndex, recipe, servings) slot within a plan
type MealEntry struct {
	id       uuid.UUID
	planID   uuid.UUID
	dayIndex int
	recipeID string
	servings int
}

// NewMealPlan creates a plan header with validation. weekStart is
// normalized to the Monday of its week.
func NewMealPlan(userID uuid.UUID, weekStart time.Time, days int) (*MealPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if days <= 0 || days > MaxPlanDays {
		return nil, ErrInvalidDays
	}

	now := time.Now()
	p := &MealPlan{
		id:        uuid.New(),
		userID:    userID,
		weekStart: NormalizeWeekStart(weekStart),
		days:      days,
		createdAt: now,
	}

	p.addEvent(PlanCreatedEvent{
		BaseEvent: shared.BaseEvent{Name: "mealplan.created", At: now},
		PlanID:    p.id,
		UserID:    userID,
		WeekStart: p.weekStart,
		Days:      days,
	})

	return p, nil
}

// Reconstitute rebuilds a plan from persisted state. For use by the
// persistence layer only.
func Reconstitute(id, userID uuid.UUID, weekStart time.Time, days int, createdAt time.Time, entries []*MealEntry) *MealPlan {
	return &MealPlan{
		id:        id,
		userID:    userID,
		weekStart: weekStart,
		days:      days,
		createdAt: createdAt,
		entries:   entries,
	}
}

// ReconstituteEntry rebuilds an entry from persisted state
func ReconstituteEntry(id, planID uuid.UUID, dayIndex int, recipeID string, servings int) *MealEntry {
	return &MealEntry{id: id, planID: planID, dayIndex: dayIndex, recipeID: recipeID, servings: servings}
}

// ID returns the plan's unique identifier
func (p *MealPlan) ID() uuid.UUID {
	return p.id
}

// UserID returns the owning user's identifier
func (p *MealPlan) UserID() uuid.UUID {
	return p.userID
}

// WeekStart returns the normalized first day of the plan
func (p *MealPlan) WeekStart() time.Time {
	return p.weekStart
}

// WeekEnd returns the last day covered by the plan
func (p *MealPlan) WeekEnd() time.Time {
	return p.weekStart.AddDate(0, 0, p.days-1)
}

// Days returns the plan length
func (p *MealPlan) Days() int {
	return p.days
}

// CreatedAt returns when the plan was generated
func (p *MealPlan) CreatedAt() time.Time {
	return p.createdAt
}

// Entries returns the plan's entries ordered as added
func (p *MealPlan) Entries() []*MealEntry {
	return p.entries
}

// AddEntry appends one day slot. dayIndex must be unique within the
// plan and inside 0..days-1.
func (p *MealPlan) AddEntry(dayIndex int, recipeID string, servings int) error {
	if dayIndex < 0 || dayIndex >= p.days {
		return ErrDayIndexOutOfRange
	}
	if recipeID == "" {
		return ErrMissingRecipe
	}
	if servings <= 0 {
		return ErrInvalidServings
	}
	for _, e := range p.entries {
		if e.dayIndex == dayIndex {
			return ErrDuplicateDayIndex
		}
	}

	p.entries = append(p.entries, &MealEntry{
		id:       uuid.New(),
		planID:   p.id,
		dayIndex: dayIndex,
		recipeID: recipeID,
		servings: servings,
	})

	return nil
}

// IsComplete reports whether every day slot has an entry
func (p *MealPlan) IsComplete() bool {
	return len(p.entries) == p.days
}

// Events returns and clears pending domain events
func (p *MealPlan) Events() []shared.DomainEvent {
	events := p.events
	p.events = nil
	return events
}

func (p *MealPlan) addEvent(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

// ID returns the entry's unique identifier
func (e *MealEntry) ID() uuid.UUID {
	return e.id
}

// PlanID returns the owning plan's identifier
func (e *MealEntry) PlanID() uuid.UUID {
	return e.planID
}

// DayIndex returns the entry's day slot, 0-based from weekStart
func (e *MealEntry) DayIndex() int {
	return e.dayIndex
}

// RecipeID returns the catalog recipe id planned for the day
func (e *MealEntry) RecipeID() string {
	return e.recipeID
}

// Servings returns the planned serving count
func (e *MealEntry) Servings() int {
	return e.servings
}

// NormalizeWeekStart truncates to the Monday of the date's week
func NormalizeWeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
