package ebay

// Sell Inventory API payload types. Field names follow the wire format
// documented for /sell/inventory/v1.

// InventoryItem is the PUT inventory_item request body.
type InventoryItem struct {
	Product              *Product      `json:"product,omitempty"`
	Condition            string        `json:"condition,omitempty"`
	ConditionDescription string        `json:"conditionDescription,omitempty"`
	Availability         *Availability `json:"availability,omitempty"`
	PackageSpecs         *PackageSpecs `json:"packageWeightAndSize,omitempty"`
}

// Product holds product details including the structured aspects.
type Product struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
	ImageURLs   []string            `json:"imageUrls,omitempty"`
	Brand       string              `json:"brand,omitempty"`
}

// Availability holds inventory availability.
type Availability struct {
	ShipToLocationAvailability *ShipToLocation `json:"shipToLocationAvailability,omitempty"`
}

// ShipToLocation holds quantity info.
type ShipToLocation struct {
	Quantity int `json:"quantity,omitempty"`
}

// PackageSpecs holds the parcel weight and dimensions.
type PackageSpecs struct {
	Weight     *Weight     `json:"weight,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// Weight is a parcel weight.
type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // "POUND", "KILOGRAM"
}

// Dimensions are parcel dimensions.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"` // "INCH", "CENTIMETER"
}

// Offer is the POST offer request body. Condition and the condition
// note ride on the offer as well as the inventory item; the marketplace
// expects them at both levels.
type Offer struct {
	SKU                  string           `json:"sku"`
	MarketplaceID        string           `json:"marketplaceId"`
	Format               string           `json:"format"` // "FIXED_PRICE"
	AvailableQuantity    int              `json:"availableQuantity,omitempty"`
	CategoryID           string           `json:"categoryId,omitempty"`
	Condition            string           `json:"condition,omitempty"`
	ConditionDescription string           `json:"conditionDescription,omitempty"`
	ListingDescription   string           `json:"listingDescription,omitempty"`
	ListingPolicies      *ListingPolicies `json:"listingPolicies,omitempty"`
	PricingSummary       *PricingSummary  `json:"pricingSummary,omitempty"`
	MerchantLocationKey  string           `json:"merchantLocationKey,omitempty"`
	ItemSpecifics        []NameValue      `json:"itemSpecifics,omitempty"`
}

// NameValue is one itemSpecifics entry.
type NameValue struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// ListingPolicies holds policy references.
type ListingPolicies struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId,omitempty"`
	PaymentPolicyID     string `json:"paymentPolicyId,omitempty"`
	ReturnPolicyID      string `json:"returnPolicyId,omitempty"`
}

// PricingSummary holds pricing info.
type PricingSummary struct {
	Price *Amount `json:"price,omitempty"`
}

// Amount holds monetary values.
type Amount struct {
	Value    string `json:"value,omitempty"`
	Currency string `json:"currency,omitempty"`
}
