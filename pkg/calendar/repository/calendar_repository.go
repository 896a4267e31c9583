package repository

import (
	"context"

	"cropcal/entities"
)

// CalendarRepository is the durable record store used by authenticated owners.
// It has no single-task patch: task changes always replace the whole array.
type CalendarRepository interface {
	CreateCalendar(ctx context.Context, c *entities.CalendarInstance) error
	ListCalendars(ctx context.Context, ownerID string) ([]entities.CalendarInstance, error)
	GetCalendar(ctx context.Context, calendarID string) (*entities.CalendarInstance, error)
	ReplaceTasks(ctx context.Context, calendarID string, tasks []entities.Task) error
	DeleteCalendar(ctx context.Context, calendarID string) error
}
