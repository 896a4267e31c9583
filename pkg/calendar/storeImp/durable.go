package storeImp

import (
	"context"
	"time"

	"cropcal/entities"
	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/repository"
	"cropcal/pkg/calendar/store"
)

// DurableStore persists authenticated owners' calendars through the backend.
// Backend errors are returned wrapped in apperr.ErrBackend, never retried.
type DurableStore struct {
	repo repository.CalendarRepository
	now  func() time.Time
}

func NewDurable(repo repository.CalendarRepository, now func() time.Time) *DurableStore {
	if now == nil {
		now = time.Now
	}
	return &DurableStore{repo: repo, now: now}
}

func (s *DurableStore) Tier() store.Tier { return store.TierDurable }

func (s *DurableStore) Create(ctx context.Context, ownerID string, crop entities.CropDefinition, landSize float64) (*entities.CalendarInstance, error) {
	if ownerID == "" {
		return nil, apperr.Validation("owner_id", "is required for durable calendars")
	}
	c, err := newInstance(ownerID, crop, landSize, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCalendar(ctx, c); err != nil {
		return nil, apperr.Backend("create calendar", err)
	}
	return c.Clone(), nil
}

func (s *DurableStore) List(ctx context.Context, ownerID string) ([]entities.CalendarInstance, error) {
	if ownerID == "" {
		return nil, apperr.Validation("owner_id", "is required for durable calendars")
	}
	out, err := s.repo.ListCalendars(ctx, ownerID)
	if err != nil {
		return nil, apperr.Backend("list calendars", err)
	}
	return out, nil
}

func (s *DurableStore) Get(ctx context.Context, calendarID string) (*entities.CalendarInstance, error) {
	c, err := s.repo.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, s.wrap("get calendar", err)
	}
	return c, nil
}

// UpdateTask reads the current array, flips one flag and writes the whole array back.
func (s *DurableStore) UpdateTask(ctx context.Context, calendarID string, taskIndex int, done bool) (*entities.CalendarInstance, error) {
	c, err := s.Get(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if err := checkTaskIndex(c, taskIndex); err != nil {
		return nil, err
	}
	tasks := entities.CloneTasks(c.Tasks)
	tasks[taskIndex].Done = done
	if err := s.repo.ReplaceTasks(ctx, calendarID, tasks); err != nil {
		return nil, s.wrap("replace tasks", err)
	}
	c.Tasks = tasks
	return c, nil
}

func (s *DurableStore) Delete(ctx context.Context, calendarID string) error {
	if err := s.repo.DeleteCalendar(ctx, calendarID); err != nil {
		return s.wrap("delete calendar", err)
	}
	return nil
}

// wrap keeps not-found as-is so callers can tell "already gone" from a backend fault.
func (s *DurableStore) wrap(op string, err error) error {
	if apperr.IsNotFound(err) {
		return err
	}
	return apperr.Backend(op, err)
}
