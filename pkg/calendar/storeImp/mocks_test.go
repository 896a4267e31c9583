package storeImp

import (
	"context"
	"sync"

	"cropcal/entities"
	"cropcal/pkg/apperr"
)

// fakeRepo is an in-memory backend that records every call.
type fakeRepo struct {
	mu        sync.Mutex
	rows      map[string]*entities.CalendarInstance
	order     []string
	calls     []string
	failNext  error
	lastTasks []entities.Task
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string]*entities.CalendarInstance{}} }

func (f *fakeRepo) record(op string) error {
	f.calls = append(f.calls, op)
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	return nil
}

func (f *fakeRepo) CreateCalendar(_ context.Context, c *entities.CalendarInstance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return err
	}
	f.rows[c.ID] = c.Clone()
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeRepo) ListCalendars(_ context.Context, ownerID string) ([]entities.CalendarInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	var out []entities.CalendarInstance
	for _, id := range f.order {
		if c, ok := f.rows[id]; ok && c.OwnerID == ownerID {
			out = append(out, *c.Clone())
		}
	}
	return out, nil
}

func (f *fakeRepo) GetCalendar(_ context.Context, id string) (*entities.CalendarInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get"); err != nil {
		return nil, err
	}
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("calendar", id)
	}
	return c.Clone(), nil
}

func (f *fakeRepo) ReplaceTasks(_ context.Context, id string, tasks []entities.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("replace"); err != nil {
		return err
	}
	c, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("calendar", id)
	}
	f.lastTasks = entities.CloneTasks(tasks)
	c.Tasks = entities.CloneTasks(tasks)
	return nil
}

func (f *fakeRepo) DeleteCalendar(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return err
	}
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("calendar", id)
	}
	delete(f.rows, id)
	return nil
}
