// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package resource

import "strings"

// Group is a prefix group of mutually exclusive status values.
type Group string

// Built-in groups.
const (
	GroupOccupancy     Group = "occupancy"
	GroupOwnerPresence Group = "owner_presence"
)

// Prefix returns the tag prefix shared by every value in the group.
func (g Group) Prefix() string {
	return string(g) + "_"
}

// Tag renders a value of the group as an advisory status tag.
func (g Group) Tag(value string) string {
	return g.Prefix() + value
}

// Status is one value of a prefix group. The zero Status means "no value".
type Status struct {
	Group Group
	Value string
}

// Tag renders the status as an advisory tag, e.g. "occupancy_occupied_by_ana".
func (s Status) Tag() string {
	if s.Value == "" {
		return ""
	}
	return s.Group.Tag(s.Value)
}

// IsZero reports whether the status carries no value.
func (s Status) IsZero() bool {
	return s.Value == ""
}

const occupiedByPrefix = "occupied_by_"

// Occupancy and presence values.
var (
	Vacant       = Status{Group: GroupOccupancy, Value: "vacant"}
	OwnerPresent = Status{Group: GroupOwnerPresence, Value: "present"}
	OwnerAbsent  = Status{Group: GroupOwnerPresence, Value: "absent"}
)

// OccupiedBy returns the occupancy status naming actorID as occupant.
func OccupiedBy(actorID string) Status {
	return Status{Group: GroupOccupancy, Value: occupiedByPrefix + actorID}
}

// Occupant returns the actor named by an occupancy status.
func (s Status) Occupant() (string, bool) {
	if s.Group != GroupOccupancy || !strings.HasPrefix(s.Value, occupiedByPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s.Value, occupiedByPrefix), true
}
