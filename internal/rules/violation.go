// Package rules implements the business-rule engine evaluated before every
// mutating command, together with the ownership resolver it relies on. The
// engine is stateless per call: all state lives in the repositories it reads
// through, so concurrent requests never contend inside this package.
package rules

import "net/http"

// Business codes carried by rule denials so that clients can discriminate
// programmatically, independent of the HTTP status.
const (
	// CodePermitRequired denies boat creation by a user without a recorded
	// boat license number.
	CodePermitRequired = "PERMIT_REQUIRED"
	// CodeUserHasNoBoat denies trip creation when the acting user owns no
	// boat matching the referenced id (including ids that do not exist).
	CodeUserHasNoBoat = "USER_HAS_NO_BOAT"
)

// Violation is a rule denial. It carries the HTTP status the handler should
// respond with, an optional machine-readable business code, and a
// human-readable message for the error body.
type Violation struct {
	Status       int
	BusinessCode string
	Message      string
}

func (v *Violation) Error() string { return v.Message }

// invalid builds a 400 validation failure.
func invalid(msg string) *Violation {
	return &Violation{Status: http.StatusBadRequest, Message: msg}
}

// forbidden builds a 403 denial with an optional business code.
func forbidden(code, msg string) *Violation {
	return &Violation{Status: http.StatusForbidden, BusinessCode: code, Message: msg}
}
