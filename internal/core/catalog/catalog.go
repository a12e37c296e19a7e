package catalog

import (
	"fmt"
	"strings"
)

// Category is the closed set of garment types the detector may return.
type Category string

const (
	CategoryJacket  Category = "jacket"
	CategoryShirt   Category = "shirt"
	CategoryVest    Category = "vest"
	CategoryCropTop Category = "crop_top"
	CategoryDress   Category = "dress"
	CategoryHoodie  Category = "hoodie"
)

// StyleKey is the closed set of catalog treatments. StyleCustom is the
// pricing key used when the customer writes their own instructions.
type StyleKey string

const (
	StyleBejeweled     StyleKey = "bejeweled"
	StyleEmbroidered   StyleKey = "embroidered"
	StyleWearableArt   StyleKey = "wearable_art"
	StyleDazzle        StyleKey = "dazzle"
	StyleBotanical     StyleKey = "botanical"
	StyleHalfHalf      StyleKey = "half_half"
	StylePatches       StyleKey = "patches"
	StyleCoutureJewels StyleKey = "couture_jewels"
	StyleCustom        StyleKey = "custom"
)

// AllCategories returns every garment category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryJacket,
		CategoryShirt,
		CategoryVest,
		CategoryCropTop,
		CategoryDress,
		CategoryHoodie,
	}
}

// AllStyles returns every catalog style (cheapest first), excluding StyleCustom.
func AllStyles() []StyleKey {
	return []StyleKey{
		StyleHalfHalf,
		StylePatches,
		StyleEmbroidered,
		StyleBotanical,
		StyleDazzle,
		StyleWearableArt,
		StyleBejeweled,
		StyleCoutureJewels,
	}
}

var categoryNames = map[Category]string{
	CategoryJacket:  "Jacket",
	CategoryShirt:   "Shirt",
	CategoryVest:    "Vest",
	CategoryCropTop: "Crop Top",
	CategoryDress:   "Dress",
	CategoryHoodie:  "Hoodie",
}

// ParseCategory validates a raw category string from the detector or a request.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryNames[c]; !ok {
		return "", fmt.Errorf("unknown garment category: %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Display returns the human label, e.g. "crop top" -> "Crop Top".
func (c Category) Display() string {
	return categoryNames[c]
}

// Spoken returns the category as it reads inside a sentence ("crop top").
func (c Category) Spoken() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

var styleNames = map[StyleKey]string{
	StyleBejeweled:     "Bejeweled with Pearls",
	StyleEmbroidered:   "Embroidered",
	StyleWearableArt:   "Wearable Art",
	StyleDazzle:        "Dazzle It Up",
	StyleBotanical:     "Botanical Garden",
	StyleHalfHalf:      "Half & Half",
	StylePatches:       "Patches",
	StyleCoutureJewels: "Couture Jewels",
	StyleCustom:        "Custom Design",
}

var styleDescriptions = map[StyleKey]string{
	StyleBejeweled:     "Hand-sewn freshwater pearls and jeweled accents for a luxurious, couture finish.",
	StyleEmbroidered:   "Intricate hand-embroidered motifs with rich, colorful threadwork patterns.",
	StyleWearableArt:   "Bold hand-painted artistic designs — abstract, figurative, or pop art on denim.",
	StyleDazzle:        "Rhinestones, crystals, and sparkling stones creating glamorous, eye-catching patterns.",
	StyleBotanical:     "Nature-inspired florals, leaf motifs, and garden-themed embellishments.",
	StyleHalfHalf:      "Striking two-tone treatment with contrasting denim panels and color-blocking.",
	StylePatches:       "Eclectic mix of decorative patches, appliques, and mixed-media fabric collage.",
	StyleCoutureJewels: "Premium multi-technique showpiece combining pearls, rhinestones, and hand-painting.",
}

var styleImages = map[StyleKey]string{
	StyleBejeweled:     "/samples/bejeweled.jpg",
	StyleEmbroidered:   "/samples/embroidered.jpg",
	StyleWearableArt:   "/samples/wearable_art.jpg",
	StyleDazzle:        "/samples/dazzle.jpg",
	StyleBotanical:     "/samples/botanical.jpg",
	StyleHalfHalf:      "/samples/half_half.jpg",
	StylePatches:       "/samples/patches.jpg",
	StyleCoutureJewels: "/samples/couture_jewels.jpg",
}

// styleGarmentMap lists which catalog styles are offered per garment type.
// Couture jewels need a large clean panel, so the smallest cuts are out;
// the half & half split does not translate to multi-piece sets.
var styleGarmentMap = map[Category][]StyleKey{
	CategoryJacket:  {StyleHalfHalf, StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled, StyleCoutureJewels},
	CategoryShirt:   {StyleHalfHalf, StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled, StyleCoutureJewels},
	CategoryVest:    {StyleHalfHalf, StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled},
	CategoryCropTop: {StyleHalfHalf, StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled},
	CategoryDress:   {StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled, StyleCoutureJewels},
	CategoryHoodie:  {StyleHalfHalf, StylePatches, StyleEmbroidered, StyleBotanical, StyleDazzle, StyleWearableArt, StyleBejeweled, StyleCoutureJewels},
}

// ParseStyle validates a raw style key from a request. StyleCustom is not a
// selectable catalog style and is rejected here.
func ParseStyle(s string) (StyleKey, error) {
	k := StyleKey(strings.ToLower(strings.TrimSpace(s)))
	if k == StyleCustom {
		return "", fmt.Errorf("style key %q is reserved", s)
	}
	if _, ok := styleDescriptions[k]; !ok {
		return "", fmt.Errorf("unknown style key: %q", s)
	}
	return k, nil
}

// StyleName returns the display label for a style (or pricing) key.
func StyleName(k StyleKey) string {
	return styleNames[k]
}

// IsStyleOffered reports whether a catalog style is available for a garment type.
func IsStyleOffered(category Category, style StyleKey) bool {
	for _, k := range styleGarmentMap[category] {
		if k == style {
			return true
		}
	}
	return false
}

// SampleDesign is one catalog entry as served to clients.
type SampleDesign struct {
	Key         StyleKey `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Price       int      `json:"price"`
}

// StylesFor returns the catalog entries offered for a garment type,
// priced for that garment.
func StylesFor(category Category) []SampleDesign {
	keys := styleGarmentMap[category]
	samples := make([]SampleDesign, 0, len(keys))
	for _, k := range keys {
		price, _ := Price(k, category)
		samples = append(samples, SampleDesign{
			Key:         k,
			Name:        styleNames[k],
			Description: styleDescriptions[k],
			ImageURL:    styleImages[k],
			Price:       price,
		})
	}
	return samples
}
