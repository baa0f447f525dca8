package render

import "testing"

func TestPlaceholderColorStable(t *testing.T) {
	first := PlaceholderColor("Cristiano")
	for i := 0; i < 10; i++ {
		if got := PlaceholderColor("Cristiano"); got != first {
			t.Fatalf("expected stable color, got %s then %s", first, got)
		}
	}
}

func TestPlaceholderColorInPalette(t *testing.T) {
	names := []string{"Alice", "Bob", "Zlatan", "", "  ", "ñ"}
	for _, name := range names {
		color := PlaceholderColor(name)
		found := false
		for _, p := range placeholderPalette {
			if p == color {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("color %s for %q is not in the palette", color, name)
		}
	}
}

func TestInitialLetter(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"bob", "B"},
		{"Alice", "A"},
		{"ñandú", "Ñ"},
		{"", "?"},
		{"   ", "?"},
	}
	for _, tt := range tests {
		if got := InitialLetter(tt.name); got != tt.want {
			t.Errorf("InitialLetter(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
