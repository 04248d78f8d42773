package branding

import (
	"strings"

	"golang.org/x/text/cases"
)

var subtypeFold = cases.Fold()

// NormalizeSubtype case-folds and trims a subtype label so catalog lookups
// behave the same regardless of how the UI spelled it.
func NormalizeSubtype(subtype string) string {
	return subtypeFold.String(strings.TrimSpace(subtype))
}

// The downstream model confuses visually similar garment subtypes unless the
// prompt spells out the construction with explicit negative constraints, so
// merchandise prompts embed these literal disambiguations.
var garmentConstructions = []struct {
	match  string
	detail string
}{
	{"hoodie", "The garment is a hoodie: it has a hood and long sleeves, is NOT a short-sleeved shirt."},
	{"sweatshirt", "The garment is a crewneck sweatshirt: long sleeves, ribbed cuffs, NO hood and NO zipper."},
	{"t-shirt", "The garment is a t-shirt: short sleeves and a round neckline, NO hood and NO buttons."},
	{"tshirt", "The garment is a t-shirt: short sleeves and a round neckline, NO hood and NO buttons."},
	{"polo", "The garment is a polo shirt: short sleeves with a folded collar and a short button placket."},
	{"cap", "The item is a baseball cap with a curved brim, NOT a beanie."},
	{"beanie", "The item is a knitted beanie with no brim, NOT a baseball cap."},
	{"tote", "The item is a flat canvas tote bag with two parallel carry handles."},
	{"mug", "The item is a ceramic mug with a single handle, photographed so the print side faces the camera."},
	{"bottle", "The item is a reusable drink bottle with a screw cap."},
}

// GarmentConstruction returns the disambiguating construction sentence for a
// merchandise subtype, or empty when the catalog has nothing to add.
func GarmentConstruction(subtype string) string {
	normalized := NormalizeSubtype(subtype)
	for _, g := range garmentConstructions {
		if strings.Contains(normalized, g.match) {
			return g.detail
		}
	}
	return ""
}

// Real-world preview scenes per subtype, used after generation to place the
// asset in a plausible setting. Substring match on the normalized subtype.
var previewScenes = []struct {
	match string
	scene string
}{
	{"hoodie", "worn by a person walking through a city street on an overcast day"},
	{"t-shirt", "worn by a person standing against a sunlit concrete wall"},
	{"cap", "worn by a person outdoors in golden-hour light"},
	{"mug", "standing on a wooden cafe table next to a laptop"},
	{"tote", "carried over the shoulder in a farmers market"},
	{"billboard", "mounted above a busy downtown intersection at dusk"},
	{"poster", "pasted on a brick wall next to a venue entrance"},
	{"flyer", "held in a hand in front of a blurred street background"},
	{"business card", "lying on a dark desk beside a fountain pen"},
	{"banner", "displayed on a laptop screen in a bright office"},
	{"social", "shown inside a phone mockup held in one hand"},
}

// PreviewScene returns the real-world scene phrasing for a subtype, falling
// back to a neutral product setting.
func PreviewScene(subtype string) string {
	normalized := NormalizeSubtype(subtype)
	for _, s := range previewScenes {
		if strings.Contains(normalized, s.match) {
			return s.scene
		}
	}
	return "presented in a clean, well-lit real-world setting"
}
