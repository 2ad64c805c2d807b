package middleware

// enrich.go populates the per-request current-user slot that every renderer
// consumes. It is the only place that resolves an identity reference against
// the credential store, and it is the authoritative existence check: the gate
// deliberately does not repeat it. The pipeline order is fixed: session
// resolution, then this enricher, then the gate. A reference cleared here is
// already absent by the time the gate decides.

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/conspiralab/conspiralab/internal/model"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/session"
)

const currentUserKey = "current_user"

// UserFinder is the credential store read contract the enricher depends on.
// Implementations return repository.ErrNotFound for a dangling or malformed
// reference; any other error is an operational failure.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// LoadCurrentUser returns a middleware that sets the current-user slot on
// every request: nil for anonymous, or the four-field public projection of
// the referenced user. It never terminates the request.
//
// A reference that resolves to nothing is self-healed: the identity is
// cleared from the request's session view and, best effort, from the backing
// store so later requests on the same cookie skip the lookup entirely. A
// store failure is logged and the request continues anonymously (fail open);
// that policy is correct only because the gate, not this stage, guards
// protected routes.
func LoadCurrentUser(users UserFinder, sessions session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(currentUserKey, (*model.PublicIdentity)(nil))

			sc := SessionFrom(c)
			if !sc.HasIdentity() {
				return next(c)
			}

			u, err := users.FindByID(c.Request().Context(), sc.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// The session outlived its user. Expected; repair and move on.
					c.Logger().Debugf("session %q references missing user %q, clearing", sc.ID, sc.UserID)
					sc.ClearIdentity()
					if sessions != nil && sc.ID != "" {
						if err := sessions.ClearIdentity(c.Request().Context(), sc.ID); err != nil {
							c.Logger().Warnf("session: clear identity failed: %v", err)
						}
					}
					return next(c)
				}
				c.Logger().Errorf("enrich: user lookup failed: %v", err)
				return next(c)
			}

			c.Set(currentUserKey, u.Public())
			return next(c)
		}
	}
}

// CurrentUser returns the request's public identity, or nil when anonymous.
func CurrentUser(c echo.Context) *model.PublicIdentity {
	if u, ok := c.Get(currentUserKey).(*model.PublicIdentity); ok {
		return u
	}
	return nil
}
