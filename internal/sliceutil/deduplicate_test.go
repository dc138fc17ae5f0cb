package sliceutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	type pkg struct {
		ID   int
		Name string
	}

	tests := []struct {
		name  string
		items []pkg
		want  []pkg
	}{
		{"empty", nil, nil},
		{"no duplicates", []pkg{{1, "Carta Natal"}, {2, "Tarot"}}, []pkg{{1, "Carta Natal"}, {2, "Tarot"}}},
		{"first occurrence wins", []pkg{{1, "Carta Natal"}, {2, "Tarot"}, {1, "Duplicada"}}, []pkg{{1, "Carta Natal"}, {2, "Tarot"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Deduplicate(tt.items, func(p pkg) int { return p.ID })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeduplicate_StringKey(t *testing.T) {
	t.Parallel()
	got := Deduplicate([]string{"Precio", "precio", "costo", "PRECIO"}, strings.ToLower)
	assert.Equal(t, []string{"Precio", "costo"}, got)
}
