package middleware

// gate.go is the authentication gate for protected routes. It is a pure
// boolean check on the resolved session view: identity reference present or
// not. It performs no store access, so store availability cannot change its
// decision: a request that cannot prove an identity is redirected, always.

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginPath is the well-known login entry point the gate redirects to.
const LoginPath = "/login"

// RequireAuth returns a middleware that lets a request through only when its
// session carries an identity reference, and otherwise short-circuits with a
// redirect to the login entry point. It does not verify that the referenced
// user still exists; the enricher, which runs before the gate, has already
// cleared references that resolve to nothing.
func RequireAuth(loginPath string) echo.MiddlewareFunc {
	if loginPath == "" {
		loginPath = LoginPath
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).HasIdentity() {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
