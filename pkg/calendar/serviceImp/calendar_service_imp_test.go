package serviceImp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/service"
	"cropcal/pkg/calendar/store"
	"cropcal/pkg/calendar/storeImp"
	"cropcal/pkg/catalog"
	"cropcal/pkg/lifecycle"
	"cropcal/pkg/session"
)

var t0 = time.Date(2025, 11, 1, 7, 0, 0, 0, time.UTC)

type harness struct {
	svc    *CalendarSvc
	repo   *countingRepo
	guests *storeImp.GuestSessions
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{repo: newCountingRepo(), now: t0}
	clock := func() time.Time { return h.now }
	h.guests = storeImp.NewGuestSessions(time.Hour, clock)
	h.svc = NewCalendarService(
		catalog.Default(),
		h.guests,
		storeImp.NewDurable(h.repo, clock),
		Options{WriteTimeout: time.Second, Now: clock},
	)
	return h
}

var (
	guest  = session.Guest("guest-1")
	farmer = session.Authenticated("farmer-1")
)

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.CreateCalendar(ctx, farmer, "rice", -1)
	assert.True(t, apperr.IsValidation(err))
	_, err = h.svc.CreateCalendar(ctx, farmer, "rice", 0)
	assert.True(t, apperr.IsValidation(err))
	_, err = h.svc.CreateCalendar(ctx, farmer, "", 1)
	assert.True(t, apperr.IsValidation(err))
	_, err = h.svc.CreateCalendar(ctx, farmer, "dragonfruit", 1)
	assert.True(t, apperr.IsNotFound(err))

	assert.Zero(t, h.repo.Calls(), "no store call on invalid input")
	list, _, err := h.svc.ListCalendars(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGuestNeverReachesBackend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c, err := h.svc.CreateCalendar(ctx, guest, "rice", 1)
	require.NoError(t, err)
	assert.True(t, c.IsGuest())

	_, p, err := h.svc.ToggleTask(ctx, guest, c.ID, 0)
	require.NoError(t, err)
	require.NoError(t, p.Wait(ctx))
	_, err = h.svc.SelectCalendar(ctx, guest, c.ID, time.Time{})
	require.NoError(t, err)
	require.NoError(t, h.svc.DeleteCalendar(ctx, guest, c.ID))

	assert.Zero(t, h.repo.Calls())
}

func TestAuthenticatedAlwaysReachesBackend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c, err := h.svc.CreateCalendar(ctx, farmer, "potato", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 1, h.repo.Calls())
	assert.Equal(t, "farmer-1", c.OwnerID)
	assert.Equal(t, "আলু", c.CropName)

	list, tier, err := h.svc.ListCalendars(ctx, farmer)
	require.NoError(t, err)
	assert.Equal(t, store.TierDurable, tier)
	require.Len(t, list, 1)
}

func TestPotatoLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	for _, sess := range []session.Session{guest, farmer} {
		c, err := h.svc.CreateCalendar(ctx, sess, "potato", 1)
		require.NoError(t, err)

		fig, err := h.svc.GetLifecycle(ctx, sess, c.ID, t0.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Figures{AgeDays: 10, RemainingDays: 80, ProgressPercent: 11}, fig)

		// Derived on every read, never cached.
		fig, err = h.svc.GetLifecycle(ctx, sess, c.ID, t0.AddDate(0, 0, 90))
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Figures{AgeDays: 90, RemainingDays: 0, ProgressPercent: 100}, fig)
	}
}

func TestSelectUsesClockWhenNowUnset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, guest, "rice", 1)
	require.NoError(t, err)

	h.now = t0.AddDate(0, 0, 60)
	v, err := h.svc.SelectCalendar(ctx, guest, c.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 60, v.Lifecycle.AgeDays)
	assert.Equal(t, 50, v.Lifecycle.ProgressPercent)
	assert.Equal(t, "rice", v.Crop.ID)
}

func TestToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	for _, sess := range []session.Session{guest, farmer} {
		h := newHarness(t)
		c, err := h.svc.CreateCalendar(ctx, sess, "rice", 1)
		require.NoError(t, err)
		_, p, err := h.svc.ToggleTask(ctx, sess, c.ID, 4)
		require.NoError(t, err)
		require.NoError(t, p.Wait(ctx))

		first, p, err := h.svc.ToggleTask(ctx, sess, c.ID, 2)
		require.NoError(t, err)
		assert.True(t, first.Tasks[2].Done)
		require.NoError(t, p.Wait(ctx))

		second, p, err := h.svc.ToggleTask(ctx, sess, c.ID, 2)
		require.NoError(t, err)
		assert.False(t, second.Tasks[2].Done)
		require.NoError(t, p.Wait(ctx))

		v, err := h.svc.SelectCalendar(ctx, sess, c.ID, time.Time{})
		require.NoError(t, err)
		for i, tk := range v.Calendar.Tasks {
			assert.Equal(t, i == 4, tk.Done, "task %d", i)
		}
	}
}

func TestToggleBackToBackSameTask(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, farmer, "rice", 1)
	require.NoError(t, err)

	h.repo.gate = make(chan struct{})
	first, p1, err := h.svc.ToggleTask(ctx, farmer, c.ID, 2)
	require.NoError(t, err)
	second, p2, err := h.svc.ToggleTask(ctx, farmer, c.ID, 2)
	require.NoError(t, err)
	assert.True(t, first.Tasks[2].Done)
	assert.False(t, second.Tasks[2].Done, "second toggle sees the first one still in flight")

	close(h.repo.gate)
	require.NoError(t, p1.Wait(ctx))
	require.NoError(t, p2.Wait(ctx))

	v, err := h.svc.SelectCalendar(ctx, farmer, c.ID, time.Time{})
	require.NoError(t, err)
	for i, tk := range v.Calendar.Tasks {
		assert.False(t, tk.Done, "task %d", i)
	}
	assert.Empty(t, h.svc.chains)
}

func TestToggleBackToBackDifferentTasks(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, farmer, "rice", 1)
	require.NoError(t, err)

	h.repo.gate = make(chan struct{})
	_, p1, err := h.svc.ToggleTask(ctx, farmer, c.ID, 0)
	require.NoError(t, err)
	second, p2, err := h.svc.ToggleTask(ctx, farmer, c.ID, 1)
	require.NoError(t, err)
	assert.True(t, second.Tasks[0].Done, "earlier unsaved toggle is kept")
	assert.True(t, second.Tasks[1].Done)

	close(h.repo.gate)
	require.NoError(t, p1.Wait(ctx))
	require.NoError(t, p2.Wait(ctx))

	v, err := h.svc.SelectCalendar(ctx, farmer, c.ID, time.Time{})
	require.NoError(t, err)
	for i, tk := range v.Calendar.Tasks {
		assert.Equal(t, i <= 1, tk.Done, "task %d", i)
	}
}

func TestGuestToggleConcurrent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, guest, "rice", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, p, err := h.svc.ToggleTask(ctx, guest, c.ID, 3)
			if assert.NoError(t, err) {
				assert.NoError(t, p.Err())
			}
		}()
	}
	wg.Wait()

	v, err := h.svc.SelectCalendar(ctx, guest, c.ID, time.Time{})
	require.NoError(t, err)
	assert.False(t, v.Calendar.Tasks[3].Done)
}

func TestToggleIsOptimistic(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, farmer, "rice", 1)
	require.NoError(t, err)

	h.repo.gate = make(chan struct{})
	got, p, err := h.svc.ToggleTask(ctx, farmer, c.ID, 0)
	require.NoError(t, err)
	assert.True(t, got.Tasks[0].Done, "returned before the write lands")
	select {
	case <-p.Done():
		t.Fatal("write finished while gated")
	default:
	}

	close(h.repo.gate)
	require.NoError(t, p.Wait(ctx))
}

func TestToggleSurvivesCallerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(context.Background(), farmer, "rice", 1)
	require.NoError(t, err)

	h.repo.gate = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	_, p, err := h.svc.ToggleTask(ctx, farmer, c.ID, 1)
	require.NoError(t, err)
	cancel()
	close(h.repo.gate)
	require.NoError(t, p.Wait(context.Background()))

	v, err := h.svc.SelectCalendar(context.Background(), farmer, c.ID, time.Time{})
	require.NoError(t, err)
	assert.True(t, v.Calendar.Tasks[1].Done)
}

func TestToggleReportsBackendFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, farmer, "rice", 1)
	require.NoError(t, err)

	boom := errors.New("503 from backend")
	h.repo.failWith = boom
	_, p, err := h.svc.ToggleTask(ctx, farmer, c.ID, 0)
	require.NoError(t, err)
	werr := p.Wait(ctx)
	assert.True(t, apperr.IsBackend(werr))
	assert.ErrorIs(t, werr, boom)

	// No local fallback: the guest tier is untouched.
	list, _, err := h.svc.ListCalendars(ctx, session.Guest(""))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggleBadIndex(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, guest, "rice", 1)
	require.NoError(t, err)
	_, _, err = h.svc.ToggleTask(ctx, guest, c.ID, 7)
	assert.True(t, apperr.IsValidation(err))
	_, _, err = h.svc.ToggleTask(ctx, guest, "missing", 0)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteRemovesFromListAndSelection(t *testing.T) {
	ctx := context.Background()
	for _, sess := range []session.Session{guest, farmer} {
		h := newHarness(t)
		a, err := h.svc.CreateCalendar(ctx, sess, "rice", 1)
		require.NoError(t, err)
		h.now = h.now.Add(time.Minute)
		b, err := h.svc.CreateCalendar(ctx, sess, "potato", 1)
		require.NoError(t, err)

		require.NoError(t, h.svc.DeleteCalendar(ctx, sess, b.ID))
		list, _, err := h.svc.ListCalendars(ctx, sess)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, a.ID, list[0].ID)

		assert.Equal(t, a.ID, service.ActiveCalendar(list, b.ID).ID)
		_, err = h.svc.SelectCalendar(ctx, sess, b.ID, time.Time{})
		assert.True(t, apperr.IsNotFound(err))
		assert.True(t, apperr.IsNotFound(h.svc.DeleteCalendar(ctx, sess, b.ID)))
	}
}

func TestOtherOwnersCalendarsHidden(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, err := h.svc.CreateCalendar(ctx, farmer, "rice", 1)
	require.NoError(t, err)

	intruder := session.Authenticated("farmer-2")
	_, err = h.svc.SelectCalendar(ctx, intruder, c.ID, time.Time{})
	assert.True(t, apperr.IsNotFound(err))
	_, _, err = h.svc.ToggleTask(ctx, intruder, c.ID, 0)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(h.svc.DeleteCalendar(ctx, intruder, c.ID)))
}

func TestGuestCalendarNotMigratedOnLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	g, err := h.svc.CreateCalendar(ctx, guest, "rice", 1)
	require.NoError(t, err)

	// Same person, now logged in.
	loggedIn := session.Session{OwnerID: "farmer-1", GuestKey: guest.GuestKey}
	list, tier, err := h.svc.ListCalendars(ctx, loggedIn)
	require.NoError(t, err)
	assert.Equal(t, store.TierDurable, tier)
	assert.Empty(t, list)
	_, err = h.svc.SelectCalendar(ctx, loggedIn, g.ID, time.Time{})
	assert.True(t, apperr.IsNotFound(err))

	// Still there in the guest tier.
	list, tier, err = h.svc.ListCalendars(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, store.TierGuest, tier)
	assert.Len(t, list, 1)
}

func TestGuestsAreIsolated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.svc.CreateCalendar(ctx, session.Guest("a"), "rice", 1)
	require.NoError(t, err)
	list, _, err := h.svc.ListCalendars(ctx, session.Guest("b"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCropsListsCatalog(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, catalog.Default().All(), h.svc.Crops())
}
