package prompt

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
)

// DetectionPrompt instructs the vision model to classify the uploaded garment
// and answer in strict JSON.
const DetectionPrompt = `You are a fashion AI assistant for Serge De Nimes, a premium denim customization brand.

Analyze this clothing image and identify the garment type.

Respond in JSON format only:
{
  "category": "jacket" | "shirt" | "vest" | "crop_top" | "dress" | "hoodie",
  "confidence": "high" | "medium" | "low",
  "description": "A detailed description of the garment including color, wash, material, current condition, and any existing design elements"
}

Rules:
- Only identify DENIM garments. If the item is not denim, set confidence to "low" and pick the closest matching category.
- "crop_top" includes bustiers and cropped tops.
- "dress" includes two-piece sets, co-ord sets, matching shirt-and-shorts combos, matching shirt-and-pants combos, jumpsuits, rompers, and any multi-piece denim outfit shown together.
- ONLY describe the garment itself. Do NOT mention any person. Focus on: color, wash, fabric, stitching, buttons, pockets, collar style, condition.
- Be detailed — this description will be used for design generation.`

var stylePrompts = map[catalog.StyleKey]string{
	catalog.StyleBejeweled: `Style: Bejeweled with Pearls. Adorn this garment with freshwater pearls and jeweled accents. Be creative with placement — choose unexpected areas like one shoulder cascade, a pearl wave across the back, clustered constellations on one panel, or an asymmetric trail from collar to hem. Mix pearl sizes and tones (white, cream, blush, grey). Combine with lace, tiny crystals, or metallic thread accents. Each design should feel unique and luxurious. Keep 60-80% of denim visible.`,

	catalog.StyleEmbroidered: `Style: Embroidered. Add hand-embroidered artwork to this garment. Be creative with the design — choose from: floral bouquets, geometric tribal patterns, animal motifs (birds, butterflies, koi fish), celestial designs (moons, stars), abstract swirls, or cultural-inspired patterns. Vary the placement: back panel, one sleeve, across the yoke, wrapping around a pocket, or trailing down one side. Use a unique color palette each time — jewel tones, earth tones, pastels, or bold primaries. Mix stitch types: satin, chain, French knots, couching. Keep 70-85% of denim clean.`,

	catalog.StyleWearableArt: `Style: Wearable Art. Hand-paint a bold, original artwork directly onto the denim. Be wildly creative — choose from: abstract expressionism, surreal dreamscapes, ocean waves, galaxy/nebula scenes, pop art portraits, graffiti lettering, Japanese ink wash, impressionist flowers, geometric optical illusions, or street art murals. Vary the composition each time — paint could cover the entire back, wrap around one side, splash across the front asymmetrically, or frame a pocket. Use vivid, unexpected color combinations. Visible brushstrokes on denim texture. Paint covers 25-40% of the garment.`,

	catalog.StyleDazzle: `Style: Dazzle It Up. Embellish with rhinestones, crystals, and sparkling stones in a creative pattern. Be inventive — choose from: scattered constellation effect, geometric chevron lines, a crystal gradient fading from dense to sparse, swirling galaxy pattern, crystal fringe along hems, a starburst radiating from one point, diamond-shaped lattice, or crystals tracing the garment's natural curves. Mix crystal sizes and types (clear, aurora borealis, colored stones). Each design should sparkle differently. Keep 70-85% of denim visible.`,

	catalog.StyleBotanical: `Style: Botanical Garden. Add nature-inspired embellishments — be creative with the specific botanicals: choose from wildflowers, tropical orchids, cherry blossoms, sunflowers, lavender sprigs, succulents, ferns and monstera leaves, climbing ivy, peonies, or dried flower arrangements. Vary placement: cascading down one arm, wrapping the collar, blooming from a pocket, climbing up the back, or a scattered meadow effect. Mix techniques — embroidered petals, painted leaves, appliqué flowers, beaded stamens. Use a fresh color palette each time. Contained to 25-40% of the garment.`,

	catalog.StyleHalfHalf: `Style: Half & Half. Create a striking two-tone or split denim treatment. Be creative with the division — choose from: vertical left-right split, diagonal slash, horizontal at waist, one sleeve contrasting, front-back contrast, or an irregular jagged/torn division line. For the contrast, pick from: light wash vs dark indigo, raw vs bleached, black vs blue, acid wash vs clean, distressed vs pristine, or color-dyed (rust, burgundy, forest green) vs natural denim. The division edge could be clean-cut, frayed, gradient-blended, zigzag-stitched, or chain-stitched. No other embellishments — purely a bold color-block construction piece.`,

	catalog.StylePatches: `Style: Patches. Adorn with an eclectic collection of sewn-on patches and appliqués. Be creative with the patch themes — choose from: vintage travel badges, music and band-inspired, nature and wildlife, retro sports logos, maritime/nautical, space exploration, floral embroidered, typography and slogans, cultural symbols, or abstract art patches. Vary sizes (tiny pins to large back patches), shapes (circles, shields, diamonds, irregular), and attachment styles (visible contrast stitching, raw-edge, iron-on with topstitch). Place them in unexpected arrangements — not just the chest. Use 3-6 patches total. Keep 65-75% of denim visible.`,

	catalog.StyleCoutureJewels: `Style: Couture Jewels. Create one breathtaking focal piece on this garment — a couture-level jeweled statement. Be creative with what it is: an ornate brooch cluster, a jeweled epaulette on one shoulder, a beaded collar overlay, a crystal-and-pearl medallion, a gem-encrusted crest, a cascading jewel chain across the chest, or an elaborate beaded motif on the back. Combine materials: velvet, gold/silver thread, rhinestones, pearls, metallic beads, sequins, semi-precious stones. The piece should be 10-20cm and feel like wearable jewelry. The rest of the garment stays completely clean denim — one statement, pristine everywhere else.`,
}

// variationPhrases seed each sample generation with a different creative
// direction so repeated requests for the same style diverge.
var variationPhrases = []string{
	"Create a fresh, never-before-seen interpretation.",
	"Surprise with an unexpected creative direction.",
	"Take a unique artistic approach different from any previous design.",
	"Push creative boundaries with an original composition.",
	"Design something one-of-a-kind and distinctive.",
	"Explore an unconventional take on this style.",
	"Craft a design that feels uniquely handmade and personal.",
	"Invent a bold new variation that stands out.",
}

// StylePrompt returns the instruction block for a catalog style.
func StylePrompt(k catalog.StyleKey) string {
	return stylePrompts[k]
}

// Builder assembles generation prompts. The random source is injectable so
// tests can pin the variation phrase; output is otherwise deterministic.
type Builder struct {
	pick func(n int) int
}

// NewBuilder returns a Builder seeded from the global math/rand source.
func NewBuilder() *Builder {
	return &Builder{pick: rand.Intn}
}

// NewBuilderWithSource returns a Builder using the given index picker.
func NewBuilderWithSource(pick func(n int) int) *Builder {
	return &Builder{pick: pick}
}

// preamble pins the garment's identity so the image model treats the photo as
// an edit target. Garment drift is the dominant failure mode the prompt is
// engineered against; keep this block ahead of any style or instruction text.
func preamble(garment catalog.Category, description, tail string) string {
	return fmt.Sprintf(`The first image is the customer's actual denim %s. You MUST preserve this exact garment as the base — same color, same wash, same denim shade, same buttons, same pockets, same collar, same stitching, same silhouette, same angle, same lighting. Do NOT replace it with a different garment. Do NOT change the denim color or wash. The output must be clearly recognizable as the same piece of clothing from the input photo, %s.

Base garment to preserve: %s

GARMENT PRESERVATION IS THE #1 PRIORITY. If the input is a black denim jacket, the output must be the same black denim jacket. If it is light wash, it stays light wash. The underlying garment must be identical — only the customization elements are new.

REALISM: This must look like a real photograph, not a digital rendering. Customizations should look handcrafted — visible thread texture, natural imperfections, real material depth. The denim weave and wear should remain photorealistic. Think: a premium e-commerce product photo, studio lighting.`,
		garment.Spoken(), tail, description)
}

// PreservationClause is the fixed identity-pinning sentence every prompt must
// carry ahead of any style or instruction text.
const PreservationClause = "GARMENT PRESERVATION IS THE #1 PRIORITY."

// Sample builds the prompt for a catalog-style generation.
func (b *Builder) Sample(garment catalog.Category, description string, style catalog.StyleKey) string {
	seed := variationPhrases[b.pick(len(variationPhrases))]
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		preamble(garment, description, "with embellishments added on top"),
		seed,
		stylePrompts[style])
}

// Custom builds the prompt for a free-form instruction generation. When the
// customer supplied a design reference it rides as the second image.
func (b *Builder) Custom(garment catalog.Category, description, instructions string, hasReferenceImage bool) string {
	var sb strings.Builder
	sb.WriteString(preamble(garment, description, "with only the requested customization added on top"))
	sb.WriteString(fmt.Sprintf("\n\nCustomer request: %q", instructions))
	if hasReferenceImage {
		sb.WriteString("\n\nThe second image is a design reference — apply it to the garment based on the customer's instructions.")
	}
	return sb.String()
}

// AppendFeedback threads regeneration feedback onto a built prompt. The
// previous output must be attached as the last image whenever this is used.
func AppendFeedback(basePrompt, feedback string) string {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return basePrompt
	}
	return fmt.Sprintf("%s\n\nThe last image is the previous generated design. The customer reviewed it and wants these changes: %s", basePrompt, feedback)
}
