// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import "testing"

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already clean", "one two", "one two"},
		{"tabs and newlines", "one\ttwo\nthree", "one two three"},
		{"runs of spaces", "a   b    c", "a b c"},
		{"surrounding whitespace", "  padded  ", "padded"},
		{"only whitespace", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpace(tt.in); got != tt.want {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
