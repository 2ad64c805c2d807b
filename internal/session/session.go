// Package session implements the server-side session store behind the opaque
// browser cookie. A session record maps a random identifier to authentication
// state; nothing downstream of this package ever sees the raw cookie value
// other than as an opaque key, and a session never holds credential material.
package session

import "time"

// CookieName is the browser cookie carrying the opaque session identifier.
const CookieName = "cl_session"

// Session is the stored record behind a session identifier.
//
// UserID is an identity reference (a pointer at a user document, not the
// document itself). It may reference a user that has since been deleted; that
// is an expected, recoverable state repaired lazily by the enricher
// middleware. Role is a denormalized copy of the user's role at login time.
type Session struct {
	UserID    string
	Role      string
	CreatedAt time.Time
}

// Context is the per-request view of a resolved session. ID is the presented
// session identifier (empty when the request carried no cookie); UserID and
// Role are filled only when the store held a live record.
type Context struct {
	ID     string
	UserID string
	Role   string
}

// HasIdentity reports whether the session carries an identity reference.
// This is the only check the authentication gate performs.
func (c *Context) HasIdentity() bool {
	return c != nil && c.UserID != ""
}

// ClearIdentity drops the identity reference and the cached role from the
// request's session view. Clearing an already-empty context is a no-op, so
// the operation is safe to call any number of times.
func (c *Context) ClearIdentity() {
	if c == nil {
		return
	}
	c.UserID = ""
	c.Role = ""
}
