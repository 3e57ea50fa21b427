package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText converts HTML to plain text using a proper HTML parser.
// Handles entities, strips tags, and preserves readable text.
func ToText(s string) string {
	return html2text.HTML2Text(s)
}

// CleanForecastText returns forecast prose as a single line of plain text.
// Strings without markup or entities are returned trimmed but otherwise as-is.
func CleanForecastText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = ToText(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
