package scaling

import "strings"

// baseFactors converts a mass or volume unit to grams, 1 g being taken as
// 1 ml. An empty unit is already in base units.
var baseFactors = map[string]float64{
	"":    1,
	"g":   1,
	"ml":  1,
	"cm3": 1,
	"cl":  10,
	"kg":  1000,
	"l":   1000,
}

// BaseAmount converts qty to grams. ok is false for spoons, cups and
// counted units, which have no fixed weight.
func BaseAmount(qty float64, unit string) (float64, bool) {
	f, ok := baseFactors[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, false
	}
	return qty * f, true
}
