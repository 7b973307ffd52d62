// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import "time"

// Time-of-day categories.
const (
	TimeMorning   = "morning"
	TimeMidday    = "midday"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeNight     = "night"
	TimeLateNight = "late_night"
)

// TimeReading is one reading of the world clock.
type TimeReading struct {
	Timestamp time.Time `json:"current_timestamp"`
	TimeOfDay string    `json:"time_of_day"`
	DayOfWeek string    `json:"day_of_week,omitempty"`
}

// Clock is the world-clock service.
type Clock interface {
	Now() TimeReading
}

// TimeOfDayFor maps a timestamp to its coarse time-of-day category.
func TimeOfDayFor(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return TimeMorning
	case h >= 11 && h < 14:
		return TimeMidday
	case h >= 14 && h < 18:
		return TimeAfternoon
	case h >= 18 && h < 21:
		return TimeEvening
	case h >= 21:
		return TimeNight
	default:
		return TimeLateNight
	}
}

// ReadingAt builds a TimeReading for t.
func ReadingAt(t time.Time) TimeReading {
	return TimeReading{
		Timestamp: t.UTC(),
		TimeOfDay: TimeOfDayFor(t),
		DayOfWeek: t.Weekday().String(),
	}
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() TimeReading {
	return ReadingAt(f())
}
