package store

import (
	"context"

	"cropcal/entities"
)

type Tier string

const (
	TierGuest   Tier = "guest"
	TierDurable Tier = "durable"
)

// CalendarStore owns calendar instances for one durability tier. Returned
// instances are copies; mutating them does not change the store.
type CalendarStore interface {
	Tier() Tier
	Create(ctx context.Context, ownerID string, crop entities.CropDefinition, landSize float64) (*entities.CalendarInstance, error)
	List(ctx context.Context, ownerID string) ([]entities.CalendarInstance, error)
	Get(ctx context.Context, calendarID string) (*entities.CalendarInstance, error)
	UpdateTask(ctx context.Context, calendarID string, taskIndex int, done bool) (*entities.CalendarInstance, error)
	Delete(ctx context.Context, calendarID string) error
}

// Toggler is implemented by stores that can flip a task flag in one step,
// reading and writing under the same lock.
type Toggler interface {
	Toggle(ctx context.Context, calendarID string, taskIndex int) (*entities.CalendarInstance, error)
}
