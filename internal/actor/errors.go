// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"github.com/samber/oops"

	"github.com/hearthsim/hearth/internal/world"
)

// Error codes for actor failures.
const (
	CodeDuplicateActor = "DUPLICATE_ACTOR"
	CodeInvalidActor   = "INVALID_ACTOR"
	CodeMoveTimeout    = "MOVE_TIMEOUT"
	CodeUnknownItem    = "UNKNOWN_ITEM"
)

// ErrDuplicateActor creates an error for a second actor with the same id.
func ErrDuplicateActor(id string) error {
	return oops.Code(CodeDuplicateActor).
		With("actor_id", id).
		Errorf("actor %q already exists", id)
}

// ErrInvalidActor creates an error for an actor that cannot be run.
func ErrInvalidActor(id, reason string) error {
	return oops.Code(CodeInvalidActor).
		With("actor_id", id).
		With("reason", reason).
		Errorf("invalid actor %q: %s", id, reason)
}

// ErrMoveTimeout creates an error for a move that did not arrive in time.
func ErrMoveTimeout(id string, target world.Point) error {
	return oops.Code(CodeMoveTimeout).
		With("actor_id", id).
		With("target", target.String()).
		Errorf("move to %s timed out", target)
}
