// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow handlers to
// distinguish between failure scenarios: ErrNotFound maps to a 404
// response for single-item operations and to a silent skip for batch
// operations, while the uniqueness errors map to 409.
package repository

import "errors"

// ErrNotFound is returned when an operation references a registration,
// user or email config that does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when creating a user with a username
// that is already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when creating a user with an email that
// is already registered.
var ErrEmailExists = errors.New("email already exists")
