// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils provides helpers to compare feature names typed by users.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

var printer = message.NewPrinter(language.English)

// FormatInt renders n with thousands separators, as in 1,234,567.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// NameFilter matches feature names against a set of folded names. The zero
// value matches everything.
type NameFilter map[string]struct{}

// NewNameFilter builds a filter from user supplied names. Blank names are
// ignored; a filter without names matches everything.
func NewNameFilter(names []string) NameFilter {
	var f NameFilter

	for _, n := range names {
		folded := LowerASCIIFolding(n)
		if folded == "" {
			continue
		}

		if f == nil {
			f = make(NameFilter)
		}

		f[folded] = struct{}{}
	}

	return f
}

// Match reports whether name passes the filter.
func (f NameFilter) Match(name string) bool {
	if len(f) == 0 {
		return true
	}

	_, ok := f[LowerASCIIFolding(name)]

	return ok
}
