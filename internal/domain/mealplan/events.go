package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartmeal/core/internal/domain/shared"
)

// PlanCreatedEvent is raised when a plan header is generated
type PlanCreatedEvent struct {
	shared.BaseEvent
	PlanID    uuid.UUID
	UserID    uuid.UUID
	WeekStart time.Time
	Days      int
}
