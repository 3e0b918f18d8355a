package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice extracts a numeric price from the stored estimate, which
// may be a plain number or a currency-formatted string like "$1,234.50".
// All non-numeric characters except the decimal point are stripped;
// absent or unparseable input yields 0.00, never an error.
func ParsePrice(raw *string) float64 {
	if raw == nil {
		return 0
	}

	var b strings.Builder
	for _, r := range *raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// FormatPrice renders a price for the marketplace amount field.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
