package listing_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/bluberryhq/bluberry/internal/listing"
)

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "A nice lamp", listing.SanitizeDescription("  A nice lamp  "))

	fallback := listing.SanitizeDescription("   ")
	assert.NotEmpty(t, fallback)
	assert.Equal(t, fallback, listing.SanitizeDescription(""))

	long := strings.Repeat("x", 5000)
	assert.Len(t, listing.SanitizeDescription(long), 4000)

	// HTML passes through untouched.
	withHTML := "<b>Bold</b> & special chars"
	assert.Equal(t, withHTML, listing.SanitizeDescription(withHTML))
}

func TestSanitizeDescription_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes; placing it across the length limit must not
	// leave a dangling lead byte behind.
	in := strings.Repeat("x", 3999) + "é" + strings.Repeat("y", 100)

	out := listing.SanitizeDescription(in)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 3999, len(out))
	assert.Equal(t, strings.Repeat("x", 3999), out)

	// A multi-byte rune ending exactly at the limit survives whole.
	exact := strings.Repeat("x", 3998) + "é" + strings.Repeat("y", 100)
	out = listing.SanitizeDescription(exact)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 4000, len(out))
	assert.True(t, strings.HasSuffix(out, "é"))
}

func TestBuildDescriptionHTML(t *testing.T) {
	html := listing.BuildDescriptionHTML(
		"Dyson V8 Vacuum", "USED_EXCELLENT", "Dyson",
		"Works perfectly, recently serviced.", "Small scuff on handle",
	)

	assert.Contains(t, html, "<h2>Dyson V8 Vacuum</h2>")
	assert.Contains(t, html, "Works perfectly, recently serviced.")
	assert.Contains(t, html, "USED_EXCELLENT")
	assert.Contains(t, html, "Dyson")
	assert.Contains(t, html, "Small scuff on handle")
}

func TestBuildDescriptionHTML_OmitsNoneIssues(t *testing.T) {
	html := listing.BuildDescriptionHTML(
		"Lamp", "USED_GOOD", "Unbranded", "A lamp.", "None",
	)
	assert.NotContains(t, html, "Known issues")
}
