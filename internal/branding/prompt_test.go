package branding

import (
	"strings"
	"testing"

	"brandforge/internal/domain"
)

func testBrand() *domain.BrandSpecification {
	return &domain.BrandSpecification{
		Name:        "Northbeam Coffee",
		Colors:      []string{"forest green", "cream"},
		Typography:  "grotesque sans with wide tracking",
		Essence:     "calm, craft-driven morning ritual",
		DesignRules: "flat illustration, no gradients",
		Keywords:    []string{"roast", "ritual", "morning"},
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	in := ComposeInput{
		Brand:    testBrand(),
		Category: domain.CategoryMerchandise,
		Subtype:  "Hoodie",
		Inspirations: []domain.InspirationCue{
			{Cues: []string{"muted palette", "grain texture"}},
			{Cues: []string{"bold grid"}},
		},
		Instruction: "put the mascot on the chest",
	}
	first := Compose(in)
	second := Compose(in)
	if first != second {
		t.Fatal("Compose is not deterministic for identical inputs")
	}
}

func TestComposeEmptyColorsFallsBackToDefaults(t *testing.T) {
	brand := testBrand()
	brand.Colors = nil
	out := Compose(ComposeInput{Brand: brand, Category: domain.CategoryDigital, Subtype: "Banner"})
	if !strings.Contains(out, "white, black") {
		t.Fatalf("expected default white/black palette clause, got:\n%s", out)
	}
}

func TestComposeMerchandiseEmbedsGarmentConstruction(t *testing.T) {
	out := Compose(ComposeInput{Brand: testBrand(), Category: domain.CategoryMerchandise, Subtype: "Zip Hoodie"})
	if !strings.Contains(out, "NOT a short-sleeved shirt") {
		t.Fatalf("expected hoodie disambiguation, got:\n%s", out)
	}
}

func TestComposeGarmentConstructionOnlyForMerchandise(t *testing.T) {
	out := Compose(ComposeInput{Brand: testBrand(), Category: domain.CategoryPrint, Subtype: "Hoodie Poster"})
	if strings.Contains(out, "NOT a short-sleeved shirt") {
		t.Fatal("garment construction leaked into a non-merchandise prompt")
	}
}

func TestComposeLogoClause(t *testing.T) {
	brand := testBrand()
	out := Compose(ComposeInput{Brand: brand, Category: domain.CategoryDigital, Subtype: "Banner"})
	if !strings.Contains(out, "typographic wordmark") {
		t.Fatalf("expected wordmark clause without a logo, got:\n%s", out)
	}

	brand.SetLogo(&domain.LogoImage{Data: []byte{1}, MIME: "image/png", Source: domain.LogoSourceManual})
	out = Compose(ComposeInput{Brand: brand, Category: domain.CategoryDigital, Subtype: "Banner"})
	if !strings.Contains(out, "provided logo image") {
		t.Fatalf("expected provided-logo clause with a logo, got:\n%s", out)
	}
	if strings.Contains(out, "wordmark") {
		t.Fatal("wordmark clause should be absent when a logo exists")
	}
}

func TestComposeGroupsInspirationCues(t *testing.T) {
	out := Compose(ComposeInput{
		Brand:    testBrand(),
		Category: domain.CategoryPrint,
		Subtype:  "Poster",
		Inspirations: []domain.InspirationCue{
			{Cues: []string{"muted palette"}},
			{Cues: []string{"bold grid", "high contrast"}},
		},
	})
	if !strings.Contains(out, "Inspiration cues (reference 1): muted palette.") {
		t.Fatalf("missing first cue group:\n%s", out)
	}
	if !strings.Contains(out, "Inspiration cues (reference 2): bold grid, high contrast.") {
		t.Fatalf("missing second cue group:\n%s", out)
	}
}

func TestComposeAlwaysAppendsQualityDirectives(t *testing.T) {
	out := Compose(ComposeInput{Brand: testBrand(), Category: domain.CategoryVideo, Subtype: "Product Spot"})
	if !strings.Contains(out, "exact fidelity") {
		t.Fatalf("quality directives missing:\n%s", out)
	}
}

func TestGarmentConstructionMatchesCaseInsensitive(t *testing.T) {
	if GarmentConstruction("OVERSIZED HOODIE") == "" {
		t.Fatal("expected case-insensitive subtype match")
	}
	if GarmentConstruction("billboard") != "" {
		t.Fatal("expected no garment detail for non-garment subtype")
	}
}

func TestPreviewSceneLookup(t *testing.T) {
	if !strings.Contains(PreviewScene("Ceramic Mug"), "cafe table") {
		t.Fatal("expected the mug scene for a mug subtype")
	}
	if PreviewScene("hologram") != "presented in a clean, well-lit real-world setting" {
		t.Fatal("expected the neutral fallback scene")
	}
}

func TestSetLogoManualPrecedence(t *testing.T) {
	brand := testBrand()
	brand.SetLogo(&domain.LogoImage{Data: []byte{1}, Source: domain.LogoSourceManual})
	brand.SetLogo(&domain.LogoImage{Data: []byte{2}, Source: domain.LogoSourceExtracted})
	if brand.Logo.Source != domain.LogoSourceManual {
		t.Fatal("extracted logo replaced a manual upload")
	}
	brand.SetLogo(&domain.LogoImage{Data: []byte{3}, Source: domain.LogoSourceManual})
	if brand.Logo.Data[0] != 3 {
		t.Fatal("newer manual upload should replace the older one")
	}
}
