// Package pipeline orchestrates asset generation: parallel draft fan-out,
// iterative masked editing, spell auditing, finalization, and asynchronous
// video jobs.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/providers/genai"
)

// ImageService is the slice of the genai client the pipeline consumes for
// image calls.
type ImageService interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.Image, error)
}

// Creative angles layered onto the shared prompt, one per draft variant.
var draftAngles = []string{
	"Creative angle: minimal and typographic, generous negative space, restrained composition.",
	"Creative angle: bold and keyword-driven, high contrast, assertive scale.",
	"Creative angle: artistic and inspiration-driven, lean into the reference cues.",
	"Creative angle: vibrant and color-driven, saturate the brand palette.",
}

// DraftGenerator fans out independent draft variants of one asset.
type DraftGenerator struct {
	images ImageService
	logger *infra.Logger
}

// NewDraftGenerator constructs a DraftGenerator.
func NewDraftGenerator(images ImageService, logger *infra.Logger) *DraftGenerator {
	return &DraftGenerator{images: images, logger: logger}
}

// Generate issues one request per creative angle concurrently and keeps the
// successes in angle order. Variants that fail or return no payload are
// omitted; the call only fails when every variant came back empty, surfaced
// as domain.ErrGenerationFailed. Individual variants are never retried here;
// retry is a fresh whole-call operation for the caller.
func (g *DraftGenerator) Generate(ctx context.Context, tok credentials.Token, in branding.ComposeInput) (*domain.DraftSet, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}

	base := branding.Compose(in)
	refs := referenceImages(in.Brand)

	results := make([]*genai.Image, len(draftAngles))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, angle := range draftAngles {
		i, angle := i, angle
		eg.Go(func() error {
			img, err := g.images.GenerateImage(egCtx, genai.ImageRequest{
				Prompt:     base + "\n" + angle,
				References: refs,
			})
			if err != nil {
				if g.logger != nil {
					g.logger.Warn().Err(err).Int("variant", i).Msg("pipeline: draft variant failed")
				}
				return nil
			}
			results[i] = img
			return nil
		})
	}
	// Goroutines swallow their own errors, so Wait is purely a join.
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := &domain.DraftSet{
		Category:  in.Category,
		Subtype:   in.Subtype,
		CreatedAt: time.Now().UTC(),
	}
	for _, img := range results {
		if img != nil && len(img.Data) > 0 {
			set.Drafts = append(set.Drafts, domain.ImagePayload{Data: img.Data, MIME: img.MIME})
		}
	}
	if len(set.Drafts) == 0 {
		return nil, domain.ErrGenerationFailed
	}
	if g.logger != nil {
		g.logger.Info().Int("drafts", len(set.Drafts)).Str("subtype", in.Subtype).Msg("pipeline: draft fan-out settled")
	}
	return set, nil
}

// referenceImages returns the logo as a side-channel reference when present.
func referenceImages(b *domain.BrandSpecification) []genai.Image {
	if !b.HasLogo() {
		return nil
	}
	return []genai.Image{{Data: b.Logo.Data, MIME: b.Logo.MIME}}
}
