// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package intent

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// DefaultFillerPatterns match summaries that describe aimless activity.
// Such summaries are not worth announcing.
var DefaultFillerPatterns = []string{
	"*explor*",
	"*wander*",
	"*idl{e,ing}*",
	"*stroll*",
	"*look* around*",
	"*roam*",
	"*pac{e,ing} around*",
	"*stretch* {my,their} legs*",
}

// Classifier recognises filler action summaries.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// NewClassifier compiles the given glob patterns. Matching is
// case-insensitive; patterns are lowercased before compiling.
// Returns an error if any pattern has invalid glob syntax.
func NewClassifier(patterns ...string) (*Classifier, error) {
	c := &Classifier{patterns: make([]compiledPattern, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, oops.Code("INVALID_PATTERN").With("pattern", p).Wrap(err)
		}
		c.patterns = append(c.patterns, compiledPattern{pattern: p, glob: g})
	}
	return c, nil
}

// DefaultClassifier returns a classifier for DefaultFillerPatterns.
//
// Panics if the default patterns fail to compile (programming error).
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultFillerPatterns...)
	if err != nil {
		panic(err)
	}
	return c
}

// IsFiller reports whether the summary describes a filler activity.
// Empty summaries count as filler.
func (c *Classifier) IsFiller(summary string) bool {
	s := strings.ToLower(strings.TrimSpace(summary))
	if s == "" {
		return true
	}
	for _, p := range c.patterns {
		if p.glob.Match(s) {
			return true
		}
	}
	return false
}
