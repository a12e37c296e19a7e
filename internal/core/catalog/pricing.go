package catalog

import "fmt"

// Base price per treatment. Custom work is quoted above the catalog mid-range.
var styleBasePrice = map[StyleKey]int{
	StyleHalfHalf:      125,
	StylePatches:       150,
	StyleEmbroidered:   175,
	StyleBotanical:     175,
	StyleDazzle:        225,
	StyleWearableArt:   250,
	StyleBejeweled:     275,
	StyleCoutureJewels: 350,
	StyleCustom:        300,
}

// Modifier per garment type, reflecting working surface and handling.
var garmentModifier = map[Category]int{
	CategoryJacket:  25,
	CategoryDress:   15,
	CategoryHoodie:  10,
	CategoryShirt:   5,
	CategoryVest:    0,
	CategoryCropTop: -10,
}

// Price computes the quoted price for a pricing key on a garment type.
// Pure two-table lookup; currency presentation is a display concern.
func Price(style StyleKey, garment Category) (int, error) {
	base, ok := styleBasePrice[style]
	if !ok {
		return 0, fmt.Errorf("no base price for style %q", style)
	}
	mod, ok := garmentModifier[garment]
	if !ok {
		return 0, fmt.Errorf("no garment modifier for category %q", garment)
	}
	return base + mod, nil
}

// PricingEntry is one row of the public pricing table.
type PricingEntry struct {
	StyleKey    StyleKey `json:"style_key"`
	GarmentType Category `json:"garment_type"`
	Price       int      `json:"price"`
	Label       string   `json:"label"`
}

// PricingTable renders the full style x garment price matrix, custom included.
func PricingTable() []PricingEntry {
	keys := append(AllStyles(), StyleCustom)
	entries := make([]PricingEntry, 0, len(keys)*len(AllCategories()))
	for _, k := range keys {
		for _, c := range AllCategories() {
			price, _ := Price(k, c)
			entries = append(entries, PricingEntry{
				StyleKey:    k,
				GarmentType: c,
				Price:       price,
				Label:       styleNames[k],
			})
		}
	}
	return entries
}
