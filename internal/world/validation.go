// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MaxIDLength   = 64
	MaxNameLength = 100
	MaxNoteLength = 512
	MaxMoodTags   = 16
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateID checks that an actor identifier is usable as a registry key.
// Identifiers must be non-empty, valid UTF-8, free of whitespace and control
// characters, and within length limit.
func ValidateID(id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if !utf8.ValidString(id) {
		return &ValidationError{Field: "id", Message: "must be valid UTF-8"}
	}
	if len(id) > MaxIDLength {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("exceeds maximum length of %d", MaxIDLength)}
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return &ValidationError{Field: "id", Message: "cannot contain whitespace or control characters"}
	}
	return nil
}

// ValidateName checks that a display or location name is valid.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !utf8.ValidString(name) {
		return &ValidationError{Field: "name", Message: "must be valid UTF-8"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxNameLength)}
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return &ValidationError{Field: "name", Message: "cannot contain control characters"}
	}
	return nil
}
