package domain

import (
	"strings"
	"time"
)

// LogoSource records how a brand logo was obtained.
type LogoSource string

const (
	LogoSourceManual    LogoSource = "manual"
	LogoSourceExtracted LogoSource = "extracted"
)

// LogoImage is a resolved brand logo, owned by the specification once set.
type LogoImage struct {
	Data   []byte
	MIME   string
	Source LogoSource
}

// BrandSpecification is the structured creative identity that seeds every
// downstream generation prompt: palette, typography, essence, rules,
// keywords, and an optional resolved logo.
type BrandSpecification struct {
	ID          string
	Name        string
	Description string
	Website     string
	Colors      []string
	Typography  string
	Essence     string
	DesignRules string
	Keywords    []string
	Logo        *LogoImage
	CreatedAt   time.Time
}

// DefaultColors backstops prompt construction when brand synthesis produced
// no palette. A prompt must never carry an empty color clause.
var DefaultColors = []string{"white", "black"}

// Palette returns the brand colors, substituting the defaults when empty.
func (b *BrandSpecification) Palette() []string {
	var out []string
	for _, c := range b.Colors {
		if strings.TrimSpace(c) != "" {
			out = append(out, strings.TrimSpace(c))
		}
	}
	if len(out) == 0 {
		return DefaultColors
	}
	return out
}

// SetLogo installs a logo respecting source precedence: a manual upload
// always wins over an auto-extracted candidate, regardless of arrival order.
// This keeps the model from ever being steered by a guessed logo when the
// user supplied the real one.
func (b *BrandSpecification) SetLogo(logo *LogoImage) {
	if logo == nil || len(logo.Data) == 0 {
		return
	}
	if b.Logo != nil && b.Logo.Source == LogoSourceManual && logo.Source == LogoSourceExtracted {
		return
	}
	b.Logo = logo
}

// HasLogo reports whether a usable logo image is present.
func (b *BrandSpecification) HasLogo() bool {
	return b != nil && b.Logo != nil && len(b.Logo.Data) > 0
}

// InspirationCue is a reference image plus the style cues extracted from it.
// Cues are never mutated after analysis; collections only add or remove.
type InspirationCue struct {
	ID    string
	Image ImagePayload
	Note  string
	Cues  []string
}
