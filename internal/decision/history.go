// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"strings"
	"sync"
)

// DefaultHistoryTurns is the window size used when none is configured.
const DefaultHistoryTurns = 10

// History is a bounded window of recent conversational turns; the oldest
// turn is dropped first. Conversation partners record into each other's
// history, so it is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	limit int
	turns []Turn
}

// NewHistory creates a history holding at most limit turns.
// A non-positive limit uses DefaultHistoryTurns.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryTurns
	}
	return &History{limit: limit}
}

// Add records turns in order.
func (h *History) Add(turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, turns...)
	if over := len(h.turns) - h.limit; over > 0 {
		h.turns = append(h.turns[:0:0], h.turns[over:]...)
	}
}

// Recent returns a copy of the window, oldest first.
func (h *History) Recent() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Turn(nil), h.turns...)
}

// Len returns the number of turns held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Summarize renders turns as "Name: text" lines, truncated to maxLen bytes
// from the oldest end so the newest lines survive.
func Summarize(turns []Turn, maxLen int) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		name := t.SpeakerName
		if name == "" {
			name = t.SpeakerID
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	s := b.String()
	if maxLen > 0 && len(s) > maxLen {
		s = strings.ToValidUTF8(s[len(s)-maxLen:], "")
		// Drop the partial first line.
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
	}
	return s
}
