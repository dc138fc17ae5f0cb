package stringutil

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Accents removed", "¿Cuánto CUESTA?", "¿cuanto cuesta?"},
		{"Tilde n", "Señal", "senal"},
		{"Plain ascii", "Price", "price"},
		{"Empty", "", ""},
		{"Already folded", "sesion", "sesion"},
		{"Precomposed and decomposed agree", "sésión", "sesion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"Short string unchanged", "hola", 10, "hola"},
		{"Exact length unchanged", "hola", 4, "hola"},
		{"Cut with ellipsis", "hola mundo", 4, "hola..."},
		{"Multibyte runes", "áéíóú", 2, "áé..."},
		{"Zero max", "hola", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   bool
	}{
		{"Whole word", "no me gusta", "no", true},
		{"Inside another word", "es bueno", "no", false},
		{"Second occurrence matches", "bueno, no", "no", true},
		{"Phrase", "yo no quiero eso", "no quiero", true},
		{"Punctuation boundary", "¡genial!", "genial", true},
		{"Accented neighbour is a letter", "nó", "n", false},
		{"Empty phrase", "texto", "", false},
		{"Missing", "hola", "adios", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsWord(tt.text, tt.phrase); got != tt.want {
				t.Errorf("ContainsWord(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
			}
		})
	}
}
