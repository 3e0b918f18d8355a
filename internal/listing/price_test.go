package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluberryhq/bluberry/internal/listing"
)

func strPtr(s string) *string {
	return &s
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want float64
	}{
		{name: "currency formatted", raw: strPtr("$1,234.50"), want: 1234.50},
		{name: "plain number", raw: strPtr("45"), want: 45},
		{name: "decimal", raw: strPtr("19.99"), want: 19.99},
		{name: "embedded text", raw: strPtr("around $250 or so"), want: 250},
		{name: "nil", raw: nil, want: 0},
		{name: "empty string", raw: strPtr(""), want: 0},
		{name: "unparseable", raw: strPtr("call for price"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, listing.ParsePrice(tt.raw), 0.0001)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1234.50", listing.FormatPrice(1234.5))
	assert.Equal(t, "0.00", listing.FormatPrice(0))
}
