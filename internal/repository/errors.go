// Package repository defines sentinel errors shared across repositories.
// Handlers translate these into HTTP responses (404, 409) and the enricher
// middleware uses ErrNotFound to tell an expected stale reference apart from
// an operational store failure. mongo.ErrNoDocuments never escapes this
// package.
package repository

import "errors"

// ErrNotFound is returned when a referenced document does not exist. For the
// user repository this includes syntactically invalid identity references: a
// garbage reference and a deleted user look the same to callers.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that is already taken.
// Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when a theory title collides with an existing
// slug. Handlers translate this into HTTP 409.
var ErrSlugExists = errors.New("slug already exists")
