// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel error values reused across repositories. They let
// higher layers such as the rules engine and handlers distinguish failure
// scenarios: ErrEmailExists signals the uniqueness constraint on users.email,
// the *NotFound values signal an id that does not resolve, and ErrForbidden
// is available for owner-scoped queries that touch someone else's resource.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when inserting a user whose email is already
// taken. The check is the database UNIQUE KEY, not an application pre-check,
// so two concurrent registrations cannot both pass.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when an owner-scoped statement affects a resource
// owned by someone else. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// Not-found sentinels, one per entity. Handlers translate these into
// HTTP 404 responses.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBoatNotFound    = errors.New("boat not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrEntryNotFound   = errors.New("logbook entry not found")
)

// isDuplicate reports whether a MySQL error is a duplicate-key violation
// (error 1062). The driver does not expose a typed error for it, so the
// message is inspected the same way across repositories.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1062")
}
