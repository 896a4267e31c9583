package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropcal/pkg/auth/controller"
	"cropcal/pkg/middleware"
	"cropcal/pkg/session"
)

// guestForgetter ends a guest session's transient calendars.
type guestForgetter interface {
	Forget(key string)
}

type authCtrl struct {
	guests guestForgetter
	log    *zap.Logger
}

func NewAuthController(guests guestForgetter, log *zap.Logger) controller.AuthController {
	if log == nil {
		log = zap.NewNop()
	}
	return &authCtrl{guests: guests, log: log}
}

type loginReq struct {
	OwnerID string `json:"owner_id" form:"owner_id" query:"owner_id"`
}

// Login is a development stand-in for a real identity provider. Guest
// calendars are not carried over; the guest session ends here.
func (h *authCtrl) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}
	owner := strings.TrimSpace(req.OwnerID)
	if owner == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "owner_id is required"})
	}
	sess := session.From(c)
	if h.guests != nil && sess.GuestKey != "" && !sess.IsAuthenticated() {
		h.guests.Forget(sess.GuestKey)
	}
	c.SetCookie(&http.Cookie{Name: middleware.OwnerCookie, Value: owner, Path: "/", HttpOnly: true})
	h.log.Info("login", zap.String("owner_id", owner))
	return c.JSON(http.StatusOK, map[string]string{"owner_id": owner})
}

func (h *authCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: middleware.OwnerCookie, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	sess := session.From(c)
	tier := "guest"
	if sess.IsAuthenticated() {
		tier = "durable"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"owner_id":      sess.CurrentOwnerID(),
		"authenticated": sess.IsAuthenticated(),
		"tier":          tier,
	})
}
