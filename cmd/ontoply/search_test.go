// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "Bias", 40, "Bias"},
		{"exact", "0123456789", 10, "0123456789"},
		{"ascii", "0123456789AB", 10, "0123456..."},
		{"multi-byte", "β-Hydroxy-β-methylbutyrate", 10, "β-Hydro..."},
		{"cut on a multi-byte rune", "ααααααααααα", 10, "ααααααα..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}
}
