// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/contactly/pkg/textnorm"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Alice", "Alice"},
		{"trims", "  Alice  ", "Alice"},
		{"collapses_spaces", "Mary   Ann", "Mary Ann"},
		{"composes_accent", "José", "José"},
		{"keeps_precomposed", "José", "José"},
		{"drops_control", "Ali\x00ce", "Alice"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Name(tt.input))
		})
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "line one\nline two", textnorm.Text("  line one\nline two \n"))
	assert.Equal(t, "café", textnorm.Text("café"))
}

func TestPtr(t *testing.T) {
	assert.Nil(t, textnorm.Ptr(nil, textnorm.Name))

	value := " Bob "
	got := textnorm.Ptr(&value, textnorm.Name)
	assert.Equal(t, "Bob", *got)
	assert.Equal(t, " Bob ", value)
}
