// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package resource

import "github.com/samber/oops"

// Error codes for registry failures.
const (
	CodeLocationNotFound  = "LOCATION_NOT_FOUND"
	CodeDuplicateLocation = "DUPLICATE_LOCATION"
	CodeInvalidStatus     = "INVALID_STATUS"
)

// ErrLocationNotFound creates an error for an unknown location name.
func ErrLocationNotFound(name string) error {
	return oops.Code(CodeLocationNotFound).
		With("location", name).
		Errorf("location %q not registered", name)
}

// ErrDuplicateLocation creates an error for a second registration of a name.
func ErrDuplicateLocation(name string) error {
	return oops.Code(CodeDuplicateLocation).
		With("location", name).
		Errorf("location %q already registered", name)
}

// ErrInvalidStatus creates an error for a malformed group or value.
func ErrInvalidStatus(group Group, value string) error {
	return oops.Code(CodeInvalidStatus).
		With("group", string(group)).
		With("value", value).
		Errorf("invalid status %q for group %q", value, group)
}
