package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/providers/genai"
	"brandforge/internal/storage"
)

func finalBrand(logo bool) *domain.BrandSpecification {
	brand := &domain.BrandSpecification{Name: "Kopi Senja"}
	if logo {
		brand.SetLogo(&domain.LogoImage{Data: []byte("logo-bytes"), MIME: "image/png", Source: domain.LogoSourceManual})
	}
	return brand
}

func TestFinalizeWithLogoSendsBothReferences(t *testing.T) {
	images := &fakeImageService{fn: func(req genai.ImageRequest) (*genai.Image, error) {
		return &genai.Image{Data: []byte("final"), MIME: "image/png"}, nil
	}}
	f := NewFinalizer(images, nil, nil)

	draft := domain.ImagePayload{Data: []byte("draft"), MIME: "image/png"}
	asset, err := f.Finalize(context.Background(), mustToken(t), finalBrand(true), draft, domain.CategoryMerchandise, "hoodie")
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if !asset.Final || asset.Kind != domain.AssetKindImage {
		t.Fatalf("unexpected asset %+v", asset)
	}

	call := images.calls[0]
	if len(call.References) != 2 {
		t.Fatalf("references = %d, want draft + logo", len(call.References))
	}
	if string(call.References[0].Data) != "draft" || string(call.References[1].Data) != "logo-bytes" {
		t.Fatal("draft must be the first reference and the logo the second")
	}
	if n := strings.Count(call.Prompt, logoFidelityDirective); n != 1 {
		t.Fatalf("fidelity directive appears %d times, want exactly once", n)
	}
}

func TestFinalizeWithoutLogoOmitsFidelityDirective(t *testing.T) {
	images := &fakeImageService{fn: func(req genai.ImageRequest) (*genai.Image, error) {
		return &genai.Image{Data: []byte("final")}, nil
	}}
	f := NewFinalizer(images, nil, nil)

	draft := domain.ImagePayload{Data: []byte("draft"), MIME: "image/png"}
	if _, err := f.Finalize(context.Background(), mustToken(t), finalBrand(false), draft, domain.CategoryPrint, "poster"); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	call := images.calls[0]
	if len(call.References) != 1 {
		t.Fatalf("references = %d, want draft only", len(call.References))
	}
	if strings.Contains(call.Prompt, logoFidelityDirective) {
		t.Fatal("fidelity directive must not appear without a logo")
	}
}

func TestFinalizeNoPayloadIsFinalizeFailed(t *testing.T) {
	images := &fakeImageService{fn: func(req genai.ImageRequest) (*genai.Image, error) {
		return nil, genai.ErrNoPayload
	}}
	f := NewFinalizer(images, nil, nil)

	draft := domain.ImagePayload{Data: []byte("draft"), MIME: "image/png"}
	_, err := f.Finalize(context.Background(), mustToken(t), finalBrand(false), draft, domain.CategoryDigital, "banner")
	if !errors.Is(err, domain.ErrFinalizeFailed) {
		t.Fatalf("err = %v, want ErrFinalizeFailed", err)
	}
}

func TestFinalizeEmptyDraftRejected(t *testing.T) {
	f := NewFinalizer(&fakeImageService{}, nil, nil)
	_, err := f.Finalize(context.Background(), mustToken(t), finalBrand(false), domain.ImagePayload{}, domain.CategoryPrint, "flyer")
	if !errors.Is(err, domain.ErrFinalizeFailed) {
		t.Fatalf("err = %v, want ErrFinalizeFailed", err)
	}
}

func TestPreviewPlacesDesignInSubtypeScene(t *testing.T) {
	images := &fakeImageService{fn: func(req genai.ImageRequest) (*genai.Image, error) {
		return &genai.Image{Data: []byte("preview"), MIME: "image/png"}, nil
	}}
	f := NewFinalizer(images, nil, nil)

	working := domain.ImagePayload{Data: []byte("design"), MIME: "image/png"}
	img, err := f.Preview(context.Background(), mustToken(t), working, "Hoodie")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if string(img.Data) != "preview" {
		t.Fatalf("preview bytes = %q", img.Data)
	}

	call := images.calls[0]
	if !strings.Contains(call.Prompt, branding.PreviewScene("hoodie")) {
		t.Fatalf("scene phrasing missing from prompt:\n%s", call.Prompt)
	}
	if len(call.References) != 1 || string(call.References[0].Data) != "design" {
		t.Fatal("working image must be the sole reference")
	}
}

func TestFinalizeStoresArtifact(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	images := &fakeImageService{fn: func(req genai.ImageRequest) (*genai.Image, error) {
		return &genai.Image{Data: []byte("payload"), MIME: "image/jpeg"}, nil
	}}
	f := NewFinalizer(images, store, nil)

	draft := domain.ImagePayload{Data: []byte("draft"), MIME: "image/png"}
	asset, err := f.Finalize(context.Background(), mustToken(t), finalBrand(false), draft, domain.CategoryMerchandise, "mug")
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if !strings.HasPrefix(asset.URL, "http://localhost:8080/static/final/") || !strings.HasSuffix(asset.URL, ".jpg") {
		t.Fatalf("asset URL = %q", asset.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, "final", asset.ID+".jpg"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("artifact bytes = %q", data)
	}
}
