package store

import "errors"

// Sentinel errors returned by the store. Callers match them with errors.Is.
var (
	// ErrEmailTaken is returned when a user registration collides with an
	// existing normalized email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateID is returned when a complaint insert collides with an
	// existing complaint id. Complaint ids are caller-supplied, so a
	// collision is a caller error.
	ErrDuplicateID = errors.New("complaint id already exists")

	// ErrNotFound is returned when a row is absent or owned by a different
	// user. The two cases are deliberately indistinguishable so that
	// complaint ids never leak existence across owners.
	ErrNotFound = errors.New("not found")
)
