// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"github.com/samber/oops"
)

// Error codes for decision failures.
const (
	CodeInFlight  = "DECISION_IN_FLIGHT"
	CodeTransport = "DECISION_TRANSPORT"
	CodeStatus    = "DECISION_STATUS"
	CodeMalformed = "DECISION_MALFORMED"
	CodeActorGone = "ACTOR_GONE"
	CodeBadURL    = "CONFIG_INVALID"
)

// ErrInFlight creates an error for a call made while another is outstanding.
func ErrInFlight(actorID string) error {
	return oops.Code(CodeInFlight).
		With("actor_id", actorID).
		Errorf("decision call already in flight for %s", actorID)
}

// ErrActorGone creates an error for a call whose actor was torn down while
// the call was outstanding.
func ErrActorGone(actorID string, cause error) error {
	return oops.Code(CodeActorGone).
		With("actor_id", actorID).
		Wrapf(cause, "actor %s gone during decision call", actorID)
}

// ErrTransport wraps a network failure talking to the decision service.
func ErrTransport(endpoint string, cause error) error {
	return oops.Code(CodeTransport).
		With("endpoint", endpoint).
		Wrapf(cause, "decision service unreachable")
}

// ErrStatus creates an error for a non-2xx reply.
func ErrStatus(endpoint string, status int, body string) error {
	return oops.Code(CodeStatus).
		With("endpoint", endpoint).
		With("status", status).
		With("body", body).
		Errorf("decision service returned status %d", status)
}

// ErrMalformed wraps a reply that could not be decoded or failed validation.
func ErrMalformed(endpoint string, cause error) error {
	return oops.Code(CodeMalformed).
		With("endpoint", endpoint).
		Wrapf(cause, "malformed decision payload")
}

func hasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == code
}

// IsInFlight reports whether err rejected a call because another was outstanding.
func IsInFlight(err error) bool {
	return hasCode(err, CodeInFlight)
}

// IsStale reports whether err means the actor no longer exists. Callers must
// not touch actor state after such an error.
func IsStale(err error) bool {
	return hasCode(err, CodeActorGone)
}
