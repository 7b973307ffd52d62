// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package intent extracts actionable cues from a decision's free-text action
// summary. Parsing is best effort: anything it cannot read is NoMatch and the
// caller falls back to moving to the decision's literal coordinates.
package intent

import (
	"regexp"
	"strings"
)

// Kind identifies what a summary asks for.
type Kind int

// Intent kinds.
const (
	NoMatch Kind = iota
	WaitFor
	SocializeWith
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case WaitFor:
		return "wait_for"
	case SocializeWith:
		return "socialize_with"
	default:
		return "no_match"
	}
}

// Intent is the typed result of parsing an action summary.
type Intent struct {
	Kind Kind
	// Name is the referenced location (WaitFor) or actor (SocializeWith).
	Name string
}

var (
	// "wait near the Bathroom", "waiting outside Bathroom (it is occupied)"
	waitPattern = regexp.MustCompile(`(?i)\bwait(?:ing)?\s+(?:near|by|outside(?:\s+of)?|next\s+to|for)\s+(?:the\s+)?([\p{L}\p{N}][\p{L}\p{N}_'\- ]*)`)

	// "chat with Dana", "go talk to Dana about dinner", "greet Dana"
	socialPattern = regexp.MustCompile(`(?i)\b(?:chat|talk|speak|sociali[sz]e|converse|catch\s+up|hang\s+out)\s+(?:with|to)\s+([\p{L}][\p{L}'\-]*(?:\s+[\p{L}][\p{L}'\-]*)?)` +
		`|\b(?:greet|visit|join|approach)\s+([\p{L}][\p{L}'\-]*(?:\s+[\p{L}][\p{L}'\-]*)?)`)

	// Words that end a captured name.
	nameStop = regexp.MustCompile(`(?i)\s+(?:about|in|at|by|on|for|from|with|near|over|outside|because|and|to|so|until|while|since|before|after|it|who|which|when|if|then|now|again|later|soon|today|tonight|here|there)\b.*$`)
)

// Parse reads a summary. A wait cue wins over a social cue because a summary
// like "wait near the bathroom, then chat with Dana" describes a wait first.
func Parse(summary string) Intent {
	s := strings.TrimSpace(summary)
	if s == "" {
		return Intent{}
	}
	if m := waitPattern.FindStringSubmatch(s); m != nil {
		if name := cleanName(m[1]); name != "" {
			return Intent{Kind: WaitFor, Name: name}
		}
	}
	if name, ok := ParseSocial(s); ok {
		return Intent{Kind: SocializeWith, Name: name}
	}
	return Intent{}
}

// ParseSocial reads only the social cue of a summary.
func ParseSocial(summary string) (string, bool) {
	m := socialPattern.FindStringSubmatch(summary)
	if m == nil {
		return "", false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	name := cleanName(raw)
	if name == "" || isPronoun(name) {
		return "", false
	}
	return name, true
}

func cleanName(raw string) string {
	name := nameStop.ReplaceAllString(raw, "")
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "the ")
	name = strings.TrimPrefix(name, "The ")
	return strings.Trim(name, " '-_")
}

var pronouns = map[string]bool{
	"someone": true, "somebody": true, "anyone": true, "everyone": true,
	"them": true, "him": true, "her": true, "people": true, "others": true,
	"myself": true, "you": true, "roommates": true, "a": true, "my": true,
}

func isPronoun(name string) bool {
	first, _, _ := strings.Cut(strings.ToLower(name), " ")
	return pronouns[first]
}
