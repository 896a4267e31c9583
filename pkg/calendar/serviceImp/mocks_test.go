package serviceImp

import (
	"context"
	"sync"

	"cropcal/entities"
	"cropcal/pkg/apperr"
)

// countingRepo is an in-memory backend that counts calls and can be told to fail
// or to block task writes until released.
type countingRepo struct {
	mu       sync.Mutex
	rows     map[string]*entities.CalendarInstance
	order    []string
	calls    int
	failWith error
	gate     chan struct{}
}

func newCountingRepo() *countingRepo {
	return &countingRepo{rows: map[string]*entities.CalendarInstance{}}
}

func (r *countingRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *countingRepo) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.failWith
}

func (r *countingRepo) CreateCalendar(_ context.Context, c *entities.CalendarInstance) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = c.Clone()
	r.order = append(r.order, c.ID)
	return nil
}

func (r *countingRepo) ListCalendars(_ context.Context, ownerID string) ([]entities.CalendarInstance, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.CalendarInstance
	for _, id := range r.order {
		if c, ok := r.rows[id]; ok && c.OwnerID == ownerID {
			out = append(out, *c.Clone())
		}
	}
	return out, nil
}

func (r *countingRepo) GetCalendar(_ context.Context, id string) (*entities.CalendarInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	c, ok := r.rows[id]
	if !ok {
		return nil, apperr.NotFound("calendar", id)
	}
	return c.Clone(), nil
}

func (r *countingRepo) ReplaceTasks(ctx context.Context, id string, tasks []entities.Task) error {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := r.begin(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return apperr.NotFound("calendar", id)
	}
	c.Tasks = entities.CloneTasks(tasks)
	return nil
}

func (r *countingRepo) DeleteCalendar(_ context.Context, id string) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperr.NotFound("calendar", id)
	}
	delete(r.rows, id)
	return nil
}
