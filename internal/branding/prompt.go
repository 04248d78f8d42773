// Package branding builds generation requests from a brand specification and
// resolves brand logos from the public web.
package branding

import (
	"fmt"
	"strings"

	"brandforge/internal/domain"
)

// ComposeInput carries everything Compose needs. Compose is a pure function:
// identical inputs produce byte-identical output.
type ComposeInput struct {
	Brand        *domain.BrandSpecification
	Inspirations []domain.InspirationCue
	Category     domain.AssetCategory
	Subtype      string
	Instruction  string
}

const qualityDirectives = "Photorealistic, professional studio quality with natural lighting and sharp focus. " +
	"Reproduce the brand colors with exact fidelity. " +
	"No watermarks, no stray text artifacts, no distorted shapes."

// Compose renders the canonical generation request for one asset. Category
// selects the base template; keywords, grouped inspiration cues, the logo
// clause, and fixed quality directives are always appended.
func Compose(in ComposeInput) string {
	b := in.Brand
	var lines []string

	lines = append(lines, categoryTemplate(in.Category, in.Subtype, b.Name))

	if construction := GarmentConstruction(in.Subtype); in.Category == domain.CategoryMerchandise && construction != "" {
		lines = append(lines, construction)
	}

	if essence := strings.TrimSpace(b.Essence); essence != "" {
		lines = append(lines, "Brand essence: "+essence)
	}
	lines = append(lines, "Brand colors, in priority order: "+strings.Join(b.Palette(), ", ")+".")
	if typography := strings.TrimSpace(b.Typography); typography != "" {
		lines = append(lines, "Typography: "+typography)
	}
	if rules := strings.TrimSpace(b.DesignRules); rules != "" {
		lines = append(lines, "Design rules: "+rules)
	}
	if keywords := joinNonEmpty(b.Keywords, ", "); keywords != "" {
		lines = append(lines, "Brand keywords: "+keywords+".")
	}

	for i, cue := range in.Inspirations {
		if cues := joinNonEmpty(cue.Cues, ", "); cues != "" {
			lines = append(lines, fmt.Sprintf("Inspiration cues (reference %d): %s.", i+1, cues))
		}
	}

	if instruction := strings.TrimSpace(in.Instruction); instruction != "" {
		lines = append(lines, "Additional instructions: "+instruction)
	}

	lines = append(lines, logoClause(b))
	lines = append(lines, qualityDirectives)

	return strings.Join(lines, "\n")
}

func categoryTemplate(category domain.AssetCategory, subtype, brandName string) string {
	subtype = strings.TrimSpace(subtype)
	switch category {
	case domain.CategoryMerchandise:
		return fmt.Sprintf("Design a premium product photograph of a %s for the brand %q, shot on a clean studio background.", subtype, brandName)
	case domain.CategoryPrint:
		return fmt.Sprintf("Design a print-ready %s layout for the brand %q with strong visual hierarchy and generous margins.", subtype, brandName)
	case domain.CategoryDigital:
		return fmt.Sprintf("Design a pixel-crisp digital %s for the brand %q, composed for on-screen display.", subtype, brandName)
	case domain.CategoryVideo:
		return fmt.Sprintf("Design a cinematic advertising still (%s) for the brand %q, framed like a keyframe from a commercial.", subtype, brandName)
	default:
		return fmt.Sprintf("Design a brand asset (%s) for the brand %q.", subtype, brandName)
	}
}

// logoClause tells the model what to do about the logo. When a resolved logo
// exists the caller sends it as a side-channel reference image, so the model
// must use that asset rather than invent one; otherwise the brand name is
// stylized as a wordmark.
func logoClause(b *domain.BrandSpecification) string {
	if b.HasLogo() {
		return "Incorporate the provided logo image exactly as supplied. Do not redraw, restyle, or invent a logo."
	}
	return fmt.Sprintf("No logo asset exists. Stylize the brand name %q as a clean typographic wordmark instead.", b.Name)
}

func joinNonEmpty(values []string, sep string) string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
