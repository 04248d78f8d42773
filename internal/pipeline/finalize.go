package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/providers/genai"
	"brandforge/internal/storage"
)

const productionResolutionDirective = "Re-render this design at full production resolution with crisp edges and print-ready detail. " +
	"Use the first reference image as the compositional and color reference."

// Draft references alone are not trusted to preserve fine logo detail under
// upscaling, so the logo is re-supplied with this single fidelity sentence.
const logoFidelityDirective = "Reproduce the logo in the second reference image with exact fidelity."

// Finalizer regenerates a chosen draft at production resolution and commits
// the artifact.
type Finalizer struct {
	images ImageService
	store  *storage.FileStore
	logger *infra.Logger
}

// NewFinalizer constructs a Finalizer.
func NewFinalizer(images ImageService, store *storage.FileStore, logger *infra.Logger) *Finalizer {
	return &Finalizer{images: images, store: store, logger: logger}
}

// Finalize produces the production artifact for a chosen draft. No partial
// output is acceptable: a missing payload is domain.ErrFinalizeFailed and the
// user retries explicitly.
func (f *Finalizer) Finalize(ctx context.Context, tok credentials.Token, brand *domain.BrandSpecification, draft domain.ImagePayload, category domain.AssetCategory, subtype string) (*domain.GeneratedAsset, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}
	if draft.IsZero() {
		return nil, fmt.Errorf("%w: empty draft", domain.ErrFinalizeFailed)
	}

	refs := []genai.Image{{Data: draft.Data, MIME: draft.MIME}}
	prompt := productionResolutionDirective
	if brand.HasLogo() {
		refs = append(refs, genai.Image{Data: brand.Logo.Data, MIME: brand.Logo.MIME})
		prompt = prompt + "\n" + logoFidelityDirective
	}

	img, err := f.images.GenerateImage(ctx, genai.ImageRequest{Prompt: prompt, References: refs})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFinalizeFailed, err)
	}

	asset := &domain.GeneratedAsset{
		ID:         uuid.NewString(),
		Category:   category,
		Subtype:    subtype,
		Kind:       domain.AssetKindImage,
		Provenance: fmt.Sprintf("finalized from draft for %q", brand.Name),
		Final:      true,
		CreatedAt:  time.Now().UTC(),
	}
	if f.store != nil {
		url, err := f.store.Store(ctx, fmt.Sprintf("final/%s%s", asset.ID, extensionFor(img.MIME)), img.Data)
		if err != nil {
			return nil, fmt.Errorf("store final artifact: %w", err)
		}
		asset.URL = url
	}
	if f.logger != nil {
		f.logger.Info().Str("asset", asset.ID).Str("subtype", subtype).Msg("pipeline: asset finalized")
	}
	return asset, nil
}

const previewDirective = "Place the design from the reference image into the scene exactly as supplied. Do not alter the design itself."

// Preview renders the working image into the real-world scene registered for
// its subtype. Previews are ephemeral and never committed to the gallery.
func (f *Finalizer) Preview(ctx context.Context, tok credentials.Token, img domain.ImagePayload, subtype string) (domain.ImagePayload, error) {
	if err := tok.Require(); err != nil {
		return domain.ImagePayload{}, err
	}
	if img.IsZero() {
		return domain.ImagePayload{}, fmt.Errorf("%w: empty image", domain.ErrGenerationFailed)
	}

	prompt := fmt.Sprintf("Show this design %s.\n%s", branding.PreviewScene(subtype), previewDirective)
	out, err := f.images.GenerateImage(ctx, genai.ImageRequest{
		Prompt:     prompt,
		References: []genai.Image{{Data: img.Data, MIME: img.MIME}},
	})
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return domain.ImagePayload{Data: out.Data, MIME: out.MIME}, nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
