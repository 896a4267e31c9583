package storeImp

import (
	"context"
	"sync"
	"time"

	"cropcal/entities"
	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/store"
)

// GuestStore keeps calendars in memory for one unauthenticated session.
// Nothing here ever reaches the durable backend.
type GuestStore struct {
	mu        sync.Mutex
	calendars []*entities.CalendarInstance // creation order
	now       func() time.Time
}

func NewGuest(now func() time.Time) *GuestStore {
	if now == nil {
		now = time.Now
	}
	return &GuestStore{now: now}
}

var _ store.Toggler = (*GuestStore)(nil)

func (s *GuestStore) Tier() store.Tier { return store.TierGuest }

func (s *GuestStore) Create(_ context.Context, ownerID string, crop entities.CropDefinition, landSize float64) (*entities.CalendarInstance, error) {
	if ownerID != "" {
		return nil, apperr.Validation("owner_id", "guest calendars have no owner")
	}
	c, err := newInstance("", crop, landSize, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.calendars = append(s.calendars, c)
	s.mu.Unlock()
	return c.Clone(), nil
}

func (s *GuestStore) List(_ context.Context, _ string) ([]entities.CalendarInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.CalendarInstance, 0, len(s.calendars))
	for _, c := range s.calendars {
		out = append(out, *c.Clone())
	}
	return out, nil
}

func (s *GuestStore) Get(_ context.Context, calendarID string) (*entities.CalendarInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(calendarID); i >= 0 {
		return s.calendars[i].Clone(), nil
	}
	return nil, apperr.NotFound("calendar", calendarID)
}

func (s *GuestStore) UpdateTask(_ context.Context, calendarID string, taskIndex int, done bool) (*entities.CalendarInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(calendarID)
	if i < 0 {
		return nil, apperr.NotFound("calendar", calendarID)
	}
	c := s.calendars[i]
	if err := checkTaskIndex(c, taskIndex); err != nil {
		return nil, err
	}
	c.Tasks[taskIndex].Done = done
	return c.Clone(), nil
}

// Toggle flips one task flag under a single lock, so concurrent toggles of the
// same task from one guest never compute the same new value.
func (s *GuestStore) Toggle(_ context.Context, calendarID string, taskIndex int) (*entities.CalendarInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(calendarID)
	if i < 0 {
		return nil, apperr.NotFound("calendar", calendarID)
	}
	c := s.calendars[i]
	if err := checkTaskIndex(c, taskIndex); err != nil {
		return nil, err
	}
	c.Tasks[taskIndex].Done = !c.Tasks[taskIndex].Done
	return c.Clone(), nil
}

func (s *GuestStore) Delete(_ context.Context, calendarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(calendarID)
	if i < 0 {
		return apperr.NotFound("calendar", calendarID)
	}
	s.calendars = append(s.calendars[:i], s.calendars[i+1:]...)
	return nil
}

func (s *GuestStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calendars)
}

// indexOf must be called with mu held.
func (s *GuestStore) indexOf(id string) int {
	for i, c := range s.calendars {
		if c.ID == id {
			return i
		}
	}
	return -1
}
