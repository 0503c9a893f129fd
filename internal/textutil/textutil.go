// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides text cleanup shared by the record builders.
package textutil

import "strings"

// NormalizeSpace collapses every run of whitespace (spaces, tabs,
// newlines) into a single space and trims the result. Extracted PDF
// and HTML text both arrive with layout-driven whitespace that would
// otherwise bloat the snippets.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
