package serviceImp

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cropcal/entities"
	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/service"
	"cropcal/pkg/calendar/store"
	"cropcal/pkg/lifecycle"
	"cropcal/pkg/session"
)

type cropCatalog interface {
	Lookup(id string) (entities.CropDefinition, error)
	All() []entities.CropDefinition
}

type guestStores interface {
	For(key string) store.CalendarStore
}

type Options struct {
	// WriteTimeout bounds a detached task write. Zero means 10s.
	WriteTimeout time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

type CalendarSvc struct {
	catalog      cropCatalog
	guests       guestStores
	durable      store.CalendarStore
	log          *zap.Logger
	now          func() time.Time
	writeTimeout time.Duration

	mu     sync.Mutex
	chains map[string]*writeChain
}

func NewCalendarService(cat cropCatalog, guests guestStores, durable store.CalendarStore, opts Options) *CalendarSvc {
	s := &CalendarSvc{
		catalog:      cat,
		guests:       guests,
		durable:      durable,
		log:          opts.Logger,
		now:          opts.Now,
		writeTimeout: opts.WriteTimeout,
		chains:       map[string]*writeChain{},
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 10 * time.Second
	}
	return s
}

var _ service.CalendarService = (*CalendarSvc)(nil)

// storeFor picks the tier from the session handed in with this call.
func (s *CalendarSvc) storeFor(sess session.Session) store.CalendarStore {
	if sess.IsAuthenticated() {
		return s.durable
	}
	return s.guests.For(sess.GuestKey)
}

func (s *CalendarSvc) Crops() []entities.CropDefinition { return s.catalog.All() }

func (s *CalendarSvc) CreateCalendar(ctx context.Context, sess session.Session, cropID string, landSize float64) (*entities.CalendarInstance, error) {
	if strings.TrimSpace(cropID) == "" {
		return nil, apperr.Validation("crop_id", "is required")
	}
	crop, err := s.catalog.Lookup(cropID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(crop.DisplayName) == "" {
		return nil, apperr.Validation("crop", "has no display name")
	}
	if !(landSize > 0) {
		return nil, apperr.Validation("land_size", "must be greater than zero")
	}

	st := s.storeFor(sess)
	c, err := st.Create(ctx, sess.CurrentOwnerID(), crop, landSize)
	if err != nil {
		return nil, err
	}
	s.log.Info("calendar created",
		zap.String("calendar_id", c.ID),
		zap.String("crop", crop.ID),
		zap.String("tier", string(st.Tier())))
	return c, nil
}

func (s *CalendarSvc) ListCalendars(ctx context.Context, sess session.Session) ([]entities.CalendarInstance, store.Tier, error) {
	st := s.storeFor(sess)
	list, err := st.List(ctx, sess.CurrentOwnerID())
	if err != nil {
		return nil, st.Tier(), err
	}
	return list, st.Tier(), nil
}

func (s *CalendarSvc) SelectCalendar(ctx context.Context, sess session.Session, calendarID string, now time.Time) (*service.View, error) {
	c, err := s.load(ctx, sess, calendarID)
	if err != nil {
		return nil, err
	}
	return s.view(c, now)
}

// ToggleTask flips one task and hands back the flipped copy straight away. The
// store write runs separately; its outcome arrives through the returned Pending.
// Durable writes for one calendar run in call order, and each flip is taken
// from the optimistic state left by the toggles still in flight.
func (s *CalendarSvc) ToggleTask(ctx context.Context, sess session.Session, calendarID string, taskIndex int) (*entities.CalendarInstance, *service.Pending, error) {
	st := s.storeFor(sess)
	c, err := s.loadFrom(ctx, st, sess, calendarID)
	if err != nil {
		return nil, nil, err
	}
	if taskIndex < 0 || taskIndex >= len(c.Tasks) {
		return nil, nil, apperr.Validation("task_index", "out of range")
	}

	if st.Tier() == store.TierGuest {
		if t, ok := st.(store.Toggler); ok {
			flipped, err := t.Toggle(ctx, calendarID, taskIndex)
			if err != nil {
				return nil, nil, err
			}
			return flipped, service.Resolved(nil), nil
		}
		done := !c.Tasks[taskIndex].Done
		c.Tasks[taskIndex].Done = done
		_, err := st.UpdateTask(ctx, calendarID, taskIndex, done)
		return c, service.Resolved(err), nil
	}

	// The write outlives the caller: navigating away must not leave it half done.
	wctx := context.WithoutCancel(ctx)

	s.mu.Lock()
	tasks, done, prev := s.enqueue(calendarID, c.Tasks, taskIndex)
	pending := service.Start(func() error {
		defer s.release(calendarID)
		if prev != nil {
			<-prev.Done()
		}
		tctx, cancel := context.WithTimeout(wctx, s.writeTimeout)
		defer cancel()
		_, err := st.UpdateTask(tctx, calendarID, taskIndex, done)
		if err != nil {
			s.log.Warn("task write failed",
				zap.String("calendar_id", calendarID),
				zap.Int("task_index", taskIndex),
				zap.Bool("done", done),
				zap.Error(err))
		}
		return err
	})
	s.chains[calendarID].tail = pending
	s.mu.Unlock()

	c.Tasks = tasks
	return c, pending, nil
}

func (s *CalendarSvc) DeleteCalendar(ctx context.Context, sess session.Session, calendarID string) error {
	st := s.storeFor(sess)
	if _, err := s.loadFrom(ctx, st, sess, calendarID); err != nil {
		return err
	}
	if err := st.Delete(ctx, calendarID); err != nil {
		return err
	}
	s.log.Info("calendar deleted", zap.String("calendar_id", calendarID), zap.String("tier", string(st.Tier())))
	return nil
}

func (s *CalendarSvc) GetLifecycle(ctx context.Context, sess session.Session, calendarID string, now time.Time) (lifecycle.Figures, error) {
	c, err := s.load(ctx, sess, calendarID)
	if err != nil {
		return lifecycle.Figures{}, err
	}
	v, err := s.view(c, now)
	if err != nil {
		return lifecycle.Figures{}, err
	}
	return v.Lifecycle, nil
}

func (s *CalendarSvc) load(ctx context.Context, sess session.Session, calendarID string) (*entities.CalendarInstance, error) {
	return s.loadFrom(ctx, s.storeFor(sess), sess, calendarID)
}

// loadFrom hides other owners' calendars behind not-found.
func (s *CalendarSvc) loadFrom(ctx context.Context, st store.CalendarStore, sess session.Session, calendarID string) (*entities.CalendarInstance, error) {
	if strings.TrimSpace(calendarID) == "" {
		return nil, apperr.Validation("calendar_id", "is required")
	}
	c, err := st.Get(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != sess.CurrentOwnerID() {
		return nil, apperr.NotFound("calendar", calendarID)
	}
	return c, nil
}

func (s *CalendarSvc) view(c *entities.CalendarInstance, now time.Time) (*service.View, error) {
	if now.IsZero() {
		now = s.now()
	}
	crop, err := s.catalog.Lookup(c.CropID)
	if err != nil {
		// Crop removed from the catalog after the calendar was made.
		return nil, err
	}
	fig, err := lifecycle.Compute(c.CreatedAt, now, crop.GrowthDurationDays)
	if err != nil {
		return nil, err
	}
	return &service.View{Calendar: c, Crop: crop, Lifecycle: fig, AsOf: now}, nil
}
