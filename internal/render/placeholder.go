package render

import (
	"hash/fnv"
	"strings"
	"unicode/utf8"
)

// placeholderPalette holds the colors used for initial-letter avatar
// placeholders. Selection is a stable hash of the display name, so the same
// name always gets the same color.
var placeholderPalette = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71",
	"#1abc9c", "#3498db", "#9b59b6", "#e84393",
	"#16a085", "#d35400", "#2980b9", "#8e44ad",
}

// PlaceholderColor returns the deterministic placeholder color for a name.
func PlaceholderColor(displayName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(displayName))
	return placeholderPalette[h.Sum32()%uint32(len(placeholderPalette))]
}

// InitialLetter returns the uppercased first rune of the name, or "?" for an
// empty name.
func InitialLetter(displayName string) string {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(r))
}
