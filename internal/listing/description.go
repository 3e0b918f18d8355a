package listing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Marketplace bounds for listing descriptions.
const (
	maxDescriptionLength = 4000
	fallbackDescription  = "Quality pre-owned item in good condition. See photos for details."
)

// SanitizeDescription trims and length-bounds free text for the
// marketplace. HTML and special characters pass through unmodified; the
// marketplace accepts them and stripping would corrupt legitimate text.
func SanitizeDescription(text string) string {
	out := strings.TrimSpace(text)
	if out == "" {
		return fallbackDescription
	}
	if len(out) > maxDescriptionLength {
		// Cut back to a rune boundary so truncation never produces
		// invalid UTF-8.
		cut := maxDescriptionLength
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// BuildDescriptionHTML wraps the sanitized description in the fixed
// listing template with the item name, condition, and brand.
func BuildDescriptionHTML(name, condition, brand, description, issues string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s</h2>", name)
	fmt.Fprintf(&b, "<p>%s</p>", description)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><strong>Condition:</strong> %s</li>", condition)
	fmt.Fprintf(&b, "<li><strong>Brand:</strong> %s</li>", brand)
	if issues != "" && !strings.EqualFold(issues, "none") {
		fmt.Fprintf(&b, "<li><strong>Known issues:</strong> %s</li>", issues)
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Sold by BluBerry. Carefully inspected before listing.</p>")

	return b.String()
}
