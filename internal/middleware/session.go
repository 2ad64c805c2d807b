package middleware

// session.go resolves the incoming session cookie into a per-request session
// view. It runs first in the pipeline: everything downstream (the enricher,
// the gate, handlers) reads the resolved state from the request context and
// never touches the raw cookie value.

import (
	"github.com/labstack/echo/v4"

	"github.com/conspiralab/conspiralab/internal/session"
)

const sessionCtxKey = "session_ctx"

// ResolveSession returns a middleware that loads the server-side record for
// the request's session cookie and attaches a session.Context. Every request
// gets a context, identity or not; a store failure during resolution is
// logged and leaves the context anonymous, which downstream makes the gate
// deny protected access (fail closed) while public pages still render.
func ResolveSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := &session.Context{}
			c.Set(sessionCtxKey, sc)

			ck, err := c.Cookie(session.CookieName)
			if err != nil || ck.Value == "" {
				// Anonymous browsing: the common, cheap path.
				return next(c)
			}
			sc.ID = ck.Value

			rec, err := store.Get(c.Request().Context(), ck.Value)
			if err != nil {
				c.Logger().Errorf("session: resolve failed: %v", err)
				return next(c)
			}
			if rec == nil {
				// Unknown or expired id; the cookie is dead weight.
				return next(c)
			}
			sc.UserID = rec.UserID
			sc.Role = rec.Role
			return next(c)
		}
	}
}

// SessionFrom returns the request's resolved session view. It is never nil
// on a pipeline that runs ResolveSession first.
func SessionFrom(c echo.Context) *session.Context {
	if sc, ok := c.Get(sessionCtxKey).(*session.Context); ok {
		return sc
	}
	return &session.Context{}
}
