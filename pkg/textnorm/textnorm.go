// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm canonicalizes user-entered text before it is stored.
//
// # Usage
//
// Contact names arrive from many keyboards. "José" typed as a precomposed
// character and as "e" plus a combining accent must compare equal, so both
// are folded to NFC.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dropControl removes control characters other than ordinary whitespace.
var dropControl = transform.RemoveFunc(func(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
})

// Name normalizes a personal name.
//
// # Transformation Pipeline
//
// 1. Removes control characters.
// 2. Composes to NFC.
// 3. Collapses runs of whitespace and trims the ends.
func Name(s string) string {
	t := transform.Chain(dropControl, norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = norm.NFC.String(s)
	}

	return strings.Join(strings.Fields(result), " ")
}

// Text composes free-form text to NFC and trims surrounding whitespace.
// Inner line breaks are preserved.
func Text(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Ptr applies fn to *s when s is non-nil.
func Ptr(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	v := fn(*s)
	return &v
}
