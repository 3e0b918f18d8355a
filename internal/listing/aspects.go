package listing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bluberryhq/bluberry/internal/ebay"
)

// AspectName identifies a marketplace item attribute. The pipeline
// special-cases a few well-known names; everything else flows through the
// generic matching path.
type AspectName string

// Well-known aspect names, cased exactly as the marketplace defines them.
const (
	AspectCondition       AspectName = "Condition"
	AspectBrand           AspectName = "Brand"
	AspectModel           AspectName = "Model"
	AspectType            AspectName = "Type"
	AspectColor           AspectName = "Color"
	AspectStorageCapacity AspectName = "Storage Capacity"
)

// AspectSet maps aspect names to their values. Built fresh per listing
// attempt, never merged with a prior attempt's values.
type AspectSet map[AspectName][]string

// storageTokenRe extracts storage-capacity tokens like "128GB", "1 TB".
var storageTokenRe = regexp.MustCompile(`(?i)\b(\d+)\s*(GB|TB)\b`)

// knownBrands is scanned against the item text to back-fill the Brand
// aspect when auto-fill found nothing.
var knownBrands = []string{
	"Apple", "Samsung", "Sony", "LG", "Dell", "HP", "Lenovo", "Asus",
	"Microsoft", "Google", "Nintendo", "Bose", "Dyson", "KitchenAid",
	"Panasonic", "Canon", "Nikon", "GoPro", "Fitbit", "Garmin",
}

// AspectResolver fetches a category's required aspects and auto-fills
// them from an item's text.
type AspectResolver struct {
	taxonomy ebay.TaxonomyAPI
	log      *slog.Logger
}

// NewAspectResolver creates a resolver backed by the given taxonomy API.
func NewAspectResolver(taxonomy ebay.TaxonomyAPI, log *slog.Logger) *AspectResolver {
	return &AspectResolver{taxonomy: taxonomy, log: log}
}

// Required returns the category's required aspects. Fetch failure
// degrades to an empty list; missing aspect metadata is non-fatal.
func (r *AspectResolver) Required(
	ctx context.Context,
	treeID, categoryID string,
) ([]ebay.Aspect, Outcome) {
	aspects, err := r.taxonomy.AspectsForCategory(ctx, treeID, categoryID)
	if err != nil {
		r.log.Warn("aspect lookup failed",
			"category_id", categoryID, "error", err)
		return nil, Degraded(fmt.Sprintf("aspect lookup failed: %v", err))
	}

	var required []ebay.Aspect
	for _, a := range aspects {
		if a.Required {
			required = append(required, a)
		}
	}
	return required, OK()
}

// AutoFill attempts to fill each required aspect from the item's title
// and description. Aspects with no confident match are omitted rather
// than set to a placeholder.
func (r *AspectResolver) AutoFill(required []ebay.Aspect, title, description string) AspectSet {
	haystack := title + " " + description
	filled := AspectSet{}

	for _, aspect := range required {
		name := AspectName(aspect.Name)

		var value string
		var ok bool
		switch name {
		case AspectColor:
			value, ok = matchColor(haystack, aspect.Values)
		case AspectStorageCapacity:
			value, ok = matchStorageCapacity(haystack, aspect.Values)
		default:
			value, ok = matchSubstring(haystack, aspect.Values)
		}

		if ok {
			filled[name] = []string{value}
		}
	}
	return filled
}

// matchColor finds the first allowed color present in the text as a
// whole word. A plain substring scan would match "Red" inside
// "Shredder", so word boundaries are required here.
func matchColor(haystack string, allowed []string) (string, bool) {
	for _, color := range allowed {
		if color == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(color) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(haystack) {
			return color, true
		}
	}
	return "", false
}

// matchStorageCapacity extracts a "<N> <GB|TB>" token from the text and
// matches it against the allowed values ignoring case and whitespace.
// The marketplace's original casing is returned, not the extracted
// token. No allowed-value match means the aspect is omitted even when a
// raw token was extracted.
func matchStorageCapacity(haystack string, allowed []string) (string, bool) {
	m := storageTokenRe.FindStringSubmatch(haystack)
	if m == nil {
		return "", false
	}
	token := m[1] + " " + strings.ToUpper(m[2])

	normalize := func(s string) string {
		return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	}
	want := normalize(token)
	for _, v := range allowed {
		if normalize(v) == want {
			return v, true
		}
	}
	return "", false
}

// matchSubstring finds the first allowed value that appears in the text,
// case-insensitively.
func matchSubstring(haystack string, allowed []string) (string, bool) {
	lower := strings.ToLower(haystack)
	for _, v := range allowed {
		if v == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(v)) {
			return v, true
		}
	}
	return "", false
}

// Finalize produces the final aspect map for the inventory payload:
// Condition is force-set to the mapped enum, Brand/Model/Type are
// back-filled when empty, and the cleanup pass drops any aspect with an
// empty or whitespace-only value.
func Finalize(filled AspectSet, condition, title string) AspectSet {
	out := AspectSet{}
	for name, values := range filled {
		out[name] = values
	}

	// The mapped condition always wins over any auto-filled value.
	out[AspectCondition] = []string{condition}

	if isUnset(out[AspectBrand]) {
		out[AspectBrand] = []string{detectBrand(title)}
	}
	if isUnset(out[AspectModel]) {
		out[AspectModel] = []string{title}
	}
	if isUnset(out[AspectType]) {
		out[AspectType] = []string{title}
	}

	for name, values := range out {
		if !allNonEmpty(values) {
			delete(out, name)
		}
	}
	return out
}

func detectBrand(title string) string {
	lower := strings.ToLower(title)
	for _, brand := range knownBrands {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return "Unbranded"
}

func isUnset(values []string) bool {
	return len(values) == 0 || strings.TrimSpace(values[0]) == ""
}

func allNonEmpty(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// ItemSpecifics converts the aspect set to offer itemSpecifics entries,
// dropping entries whose first value is empty or "Not Specified".
func ItemSpecifics(aspects AspectSet) []ebay.NameValue {
	var out []ebay.NameValue
	for name, values := range aspects {
		if len(values) == 0 {
			continue
		}
		first := strings.TrimSpace(values[0])
		if first == "" || first == "Not Specified" {
			continue
		}
		out = append(out, ebay.NameValue{Name: string(name), Value: values})
	}
	return out
}

// WireAspects converts the aspect set to the string-keyed map the
// inventory item payload expects.
func WireAspects(aspects AspectSet) map[string][]string {
	out := make(map[string][]string, len(aspects))
	for name, values := range aspects {
		out[string(name)] = values
	}
	return out
}
