package pricing

import "strings"

// heuristicBases maps item keywords to base resale prices. Scanned in
// order; first match wins, so more specific keywords come first.
var heuristicBases = []struct {
	keyword string
	base    float64
}{
	{"macbook", 600},
	{"laptop", 300},
	{"iphone", 250},
	{"ipad", 200},
	{"tablet", 120},
	{"phone", 100},
	{"tv", 150},
	{"monitor", 80},
	{"camera", 120},
	{"console", 150},
	{"vacuum", 80},
	{"headphone", 60},
	{"speaker", 50},
	{"watch", 60},
	{"bike", 100},
	{"furniture", 75},
	{"chair", 40},
	{"desk", 60},
	{"table", 50},
}

const heuristicFloor = 15.0

// conditionMultipliers scale the base by the user's free-text condition.
var conditionMultipliers = []struct {
	keyword    string
	multiplier float64
}{
	{"like new", 1.1},
	{"brand new", 1.2},
	{"excellent", 1.0},
	{"good", 0.8},
	{"fair", 0.6},
	{"poor", 0.4},
	{"broken", 0.2},
	{"new", 1.2},
}

// HeuristicPrice is the static last-resort estimate. It always returns
// a positive price.
func HeuristicPrice(item ItemDetails) float64 {
	text := strings.ToLower(item.Name + " " + item.Description)

	base := heuristicFloor
	for _, entry := range heuristicBases {
		if strings.Contains(text, entry.keyword) {
			base = entry.base
			break
		}
	}

	condition := strings.ToLower(item.Condition)
	multiplier := 0.8
	for _, entry := range conditionMultipliers {
		if strings.Contains(condition, entry.keyword) {
			multiplier = entry.multiplier
			break
		}
	}

	price := base * multiplier
	if price < heuristicFloor {
		price = heuristicFloor
	}
	return price
}
