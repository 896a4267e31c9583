package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var appStart = time.Now()

type guestCounter interface {
	Len() int
}

type HealthCtrl struct {
	db     *gorm.DB
	guests guestCounter
	log    *zap.Logger
}

func NewHealthCtrl(db *gorm.DB, guests guestCounter, log *zap.Logger) *HealthCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthCtrl{db: db, guests: guests, log: log}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
		h.log.Warn("health check failed", zap.String("database", dbErr))
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}

	guests := 0
	if h.guests != nil {
		guests = h.guests.Len()
	}

	resp := map[string]any{
		"status":         map[string]any{"ok": dbOK},
		"uptime_sec":     int(time.Since(appStart).Seconds()),
		"guest_sessions": guests,
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
		},
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
