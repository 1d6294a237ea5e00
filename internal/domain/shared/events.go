package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the fields every domain event shares
type BaseEvent struct {
	Name string
	At   time.Time
}

// EventName returns the event's name
func (e BaseEvent) EventName() string {
	return e.Name
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.At
}
