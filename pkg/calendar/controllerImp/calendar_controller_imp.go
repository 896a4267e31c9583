package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/controller"
	"cropcal/pkg/calendar/service"
	"cropcal/pkg/calendar/store"
	"cropcal/pkg/session"
)

type CalendarCtrl struct {
	svc service.CalendarService
	log *zap.Logger
}

func New(svc service.CalendarService, log *zap.Logger) *CalendarCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarCtrl{svc: svc, log: log}
}

var _ controller.CalendarController = (*CalendarCtrl)(nil)

type createReq struct {
	CropID   string   `json:"crop_id"`
	LandSize *float64 `json:"land_size"`
}

func (h *CalendarCtrl) Crops(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Crops())
}

func (h *CalendarCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.LandSize == nil {
		return h.fail(c, apperr.Validation("land_size", "is required"))
	}
	sess := session.From(c)
	cal, err := h.svc.CreateCalendar(c.Request().Context(), sess, req.CropID, *req.LandSize)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"calendar": cal, "tier": tierOf(sess)})
}

func (h *CalendarCtrl) List(c echo.Context) error {
	list, tier, err := h.svc.ListCalendars(c.Request().Context(), session.From(c))
	if err != nil {
		return h.fail(c, err)
	}
	resp := map[string]any{"calendars": list, "tier": tier}
	if tier == store.TierGuest {
		resp["notice"] = "guest mode: calendars are kept only for this session"
	}
	if active := service.ActiveCalendar(list, c.QueryParam("selected")); active != nil {
		resp["active_id"] = active.ID
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CalendarCtrl) Select(c echo.Context) error {
	now, err := parseNow(c)
	if err != nil {
		return h.fail(c, err)
	}
	v, err := h.svc.SelectCalendar(c.Request().Context(), session.From(c), c.Param("id"), now)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CalendarCtrl) Lifecycle(c echo.Context) error {
	now, err := parseNow(c)
	if err != nil {
		return h.fail(c, err)
	}
	fig, err := h.svc.GetLifecycle(c.Request().Context(), session.From(c), c.Param("id"), now)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, fig)
}

// ToggleTask waits for the write unless ?async=1, in which case the optimistic
// calendar comes back with 202 and the write finishes on its own.
func (h *CalendarCtrl) ToggleTask(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return h.fail(c, apperr.Validation("task_index", "must be an integer"))
	}
	ctx := c.Request().Context()
	cal, pending, err := h.svc.ToggleTask(ctx, session.From(c), c.Param("id"), idx)
	if err != nil {
		return h.fail(c, err)
	}
	if c.QueryParam("async") == "1" {
		return c.JSON(http.StatusAccepted, map[string]any{"calendar": cal, "status": "pending"})
	}
	if err := pending.Wait(ctx); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"calendar": cal, "status": "saved"})
}

func (h *CalendarCtrl) Delete(c echo.Context) error {
	if err := h.svc.DeleteCalendar(c.Request().Context(), session.From(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseNow(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("now")
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("now", "must be RFC3339")
	}
	return t, nil
}

func tierOf(s session.Session) store.Tier {
	if s.IsAuthenticated() {
		return store.TierDurable
	}
	return store.TierGuest
}

// fail maps the engine's error taxonomy onto HTTP statuses.
func (h *CalendarCtrl) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsBackend(err):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
