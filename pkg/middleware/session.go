package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cropcal/pkg/session"
)

const (
	OwnerCookie = "OWNER_ID"
	GuestCookie = "GUEST_SID"
	OwnerHeader = "X-Owner-Id"
)

// Session resolves the caller on every request. An owner id (header when
// headerAuth is on, else cookie) makes the request authenticated; anyone else
// is a guest keyed by a GUEST_SID cookie, issued on first contact.
func Session(headerAuth bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := ""
			if headerAuth {
				owner = strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
			}
			if owner == "" {
				if ck, err := c.Cookie(OwnerCookie); err == nil {
					owner = strings.TrimSpace(ck.Value)
				}
			}

			guest := ""
			if ck, err := c.Cookie(GuestCookie); err == nil && ck.Value != "" {
				guest = ck.Value
			} else {
				guest = uuid.NewString()
				c.SetCookie(&http.Cookie{Name: GuestCookie, Value: guest, Path: "/", HttpOnly: true})
			}

			if owner != "" {
				session.Set(c, session.Session{OwnerID: owner, GuestKey: guest})
			} else {
				session.Set(c, session.Guest(guest))
			}
			return next(c)
		}
	}
}
