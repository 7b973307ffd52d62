// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package action

import (
	"unicode"
)

// Paginate splits text into pages of at most budget runes, preferring to
// break just after whitespace or punctuation in the second half of a page.
// Pages are contiguous: joining them reproduces text exactly. A page may
// carry the whitespace it broke on; displays trim it. A non-positive budget
// yields a single page.
func Paginate(text string, budget int) []string {
	runes := []rune(text)
	if budget <= 0 || len(runes) <= budget {
		return []string{text}
	}

	var pages []string
	for len(runes) > budget {
		cut := breakPoint(runes, budget)
		pages = append(pages, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		pages = append(pages, string(runes))
	}
	return pages
}

// breakPoint returns the page length for runes, which is longer than budget.
// Whitespace wins over punctuation; with neither in reach the page is cut
// at the budget.
func breakPoint(runes []rune, budget int) int {
	lo := max(1, budget/2)
	for _, boundary := range []func(rune) bool{unicode.IsSpace, isBreakingPunct} {
		for i := budget; i >= lo; i-- {
			if boundary(runes[i-1]) {
				return i
			}
		}
	}
	return budget
}

func isBreakingPunct(r rune) bool {
	return unicode.IsPunct(r) && r != '\'' && r != '-'
}
