package branding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/providers/genai"
)

// TextService is the slice of the genai client the analyzer consumes.
type TextService interface {
	GenerateText(ctx context.Context, req genai.TextRequest) (string, error)
}

// Analyzer extracts structured brand DNA and inspiration cues from model
// calls constrained to JSON output.
type Analyzer struct {
	text   TextService
	logger *infra.Logger
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(text TextService, logger *infra.Logger) *Analyzer {
	return &Analyzer{text: text, logger: logger}
}

// BrandInput is the raw user description fed into brand synthesis.
type BrandInput struct {
	Name        string
	Description string
	Website     string
}

const brandSchema = `{
  "type": "OBJECT",
  "properties": {
    "colors": {"type": "ARRAY", "items": {"type": "STRING"}},
    "typography": {"type": "STRING"},
    "essence": {"type": "STRING"},
    "design_rules": {"type": "STRING"},
    "keywords": {"type": "ARRAY", "items": {"type": "STRING"}}
  },
  "required": ["colors", "typography", "essence", "design_rules", "keywords"]
}`

type brandPayload struct {
	Colors      []string `json:"colors"`
	Typography  string   `json:"typography"`
	Essence     string   `json:"essence"`
	DesignRules string   `json:"design_rules"`
	Keywords    []string `json:"keywords"`
}

// AnalyzeBrand synthesizes a BrandSpecification from the user's description.
// A malformed response after fence stripping is a hard failure, not silently
// swallowed.
func (a *Analyzer) AnalyzeBrand(ctx context.Context, tok credentials.Token, in BrandInput) (*domain.BrandSpecification, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Derive the visual brand DNA for %q. Description: %s. Website: %s. "+
			"Return an ordered color palette (most dominant first), a typography description, "+
			"a one-paragraph visual essence statement, concise design-system rules, and 5-8 brand keywords.",
		in.Name, strings.TrimSpace(in.Description), strings.TrimSpace(in.Website))

	raw, err := a.text.GenerateText(ctx, genai.TextRequest{
		Prompt:      prompt,
		Schema:      json.RawMessage(brandSchema),
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze brand: %w", err)
	}
	var payload brandPayload
	if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableOutput, err)
	}

	spec := &domain.BrandSpecification{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Website:     strings.TrimSpace(in.Website),
		Colors:      payload.Colors,
		Typography:  payload.Typography,
		Essence:     payload.Essence,
		DesignRules: payload.DesignRules,
		Keywords:    payload.Keywords,
		CreatedAt:   time.Now().UTC(),
	}
	if a.logger != nil {
		a.logger.Info().Str("brand", spec.Name).Int("colors", len(spec.Colors)).Msg("branding: brand DNA synthesized")
	}
	return spec, nil
}

const cueSchema = `{
  "type": "OBJECT",
  "properties": {
    "cues": {"type": "ARRAY", "items": {"type": "STRING"}}
  },
  "required": ["cues"]
}`

type cuePayload struct {
	Cues []string `json:"cues"`
}

// AnalyzeInspiration extracts style cues from a reference image. The cue
// list is immutable once created.
func (a *Analyzer) AnalyzeInspiration(ctx context.Context, tok credentials.Token, img domain.ImagePayload, note string) (*domain.InspirationCue, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}
	prompt := "List the transferable style cues in this reference image: palette, composition, " +
		"texture, typography treatment, and mood. Short noun phrases only."
	if note = strings.TrimSpace(note); note != "" {
		prompt += " The user notes: " + note
	}

	raw, err := a.text.GenerateText(ctx, genai.TextRequest{
		Prompt:      prompt,
		Images:      []genai.Image{{Data: img.Data, MIME: img.MIME}},
		Schema:      json.RawMessage(cueSchema),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze inspiration: %w", err)
	}
	var payload cuePayload
	if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableOutput, err)
	}

	return &domain.InspirationCue{
		ID:    uuid.NewString(),
		Image: img,
		Note:  note,
		Cues:  payload.Cues,
	}, nil
}
