package service

import (
	"context"
	"time"

	"cropcal/entities"
	"cropcal/pkg/calendar/store"
	"cropcal/pkg/lifecycle"
	"cropcal/pkg/session"
)

// CalendarService is the engine surface the presentation layer talks to.
// Every call takes the caller's session explicitly.
type CalendarService interface {
	Crops() []entities.CropDefinition
	CreateCalendar(ctx context.Context, sess session.Session, cropID string, landSize float64) (*entities.CalendarInstance, error)
	ListCalendars(ctx context.Context, sess session.Session) ([]entities.CalendarInstance, store.Tier, error)
	SelectCalendar(ctx context.Context, sess session.Session, calendarID string, now time.Time) (*View, error)
	ToggleTask(ctx context.Context, sess session.Session, calendarID string, taskIndex int) (*entities.CalendarInstance, *Pending, error)
	DeleteCalendar(ctx context.Context, sess session.Session, calendarID string) error
	GetLifecycle(ctx context.Context, sess session.Session, calendarID string, now time.Time) (lifecycle.Figures, error)
}

// View is a calendar with its lifecycle figures as of a given moment.
type View struct {
	Calendar  *entities.CalendarInstance `json:"calendar"`
	Crop      entities.CropDefinition    `json:"crop"`
	Lifecycle lifecycle.Figures          `json:"lifecycle"`
	AsOf      time.Time                  `json:"as_of"`
}

// ActiveCalendar picks the selected calendar if it is still listed, otherwise
// the most recently created one. A deleted selection is therefore never returned.
func ActiveCalendar(list []entities.CalendarInstance, selectedID string) *entities.CalendarInstance {
	if len(list) == 0 {
		return nil
	}
	if selectedID != "" {
		for i := range list {
			if list[i].ID == selectedID {
				return &list[i]
			}
		}
	}
	latest := &list[0]
	for i := range list[1:] {
		if c := &list[i+1]; !c.CreatedAt.Before(latest.CreatedAt) {
			latest = c
		}
	}
	return latest
}
