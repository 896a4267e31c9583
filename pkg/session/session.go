// Package session carries caller identity as a plain value. It is read once per
// operation and never cached, since login state can change between calls.
package session

import "github.com/labstack/echo/v4"

const contextKey = "session"

type Session struct {
	// OwnerID is empty for guests.
	OwnerID string `json:"owner_id,omitempty"`
	// GuestKey identifies a guest's transient calendars. Ignored once authenticated.
	GuestKey string `json:"guest_key,omitempty"`
}

func Guest(key string) Session { return Session{GuestKey: key} }

func Authenticated(ownerID string) Session { return Session{OwnerID: ownerID} }

func (s Session) CurrentOwnerID() string { return s.OwnerID }

func (s Session) IsAuthenticated() bool { return s.OwnerID != "" }

// Set stores s on the request context.
func Set(c echo.Context, s Session) { c.Set(contextKey, s) }

// From returns the request's session, or an anonymous guest when none was set.
func From(c echo.Context) Session {
	if s, ok := c.Get(contextKey).(Session); ok {
		return s
	}
	return Session{}
}
