package handlers

import (
	"net/http"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
)

type createBrandRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,max=500"`
	LogoBase64  string `json:"logo_base64" validate:"omitempty,base64"`
	LogoMIME    string `json:"logo_mime" validate:"omitempty,max=100"`
}

type brandResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Colors     []string `json:"colors"`
	Typography string   `json:"typography"`
	Essence    string   `json:"essence"`
	Rules      string   `json:"design_rules"`
	Keywords   []string `json:"keywords"`
	LogoSource string   `json:"logo_source,omitempty"`
}

// CreateBrand synthesizes the brand DNA and resolves a logo. A manually
// uploaded logo always wins over an auto-extracted one; when neither exists
// the save is blocked so the model is never left to hallucinate a logo.
func (a *App) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req createBrandRequest
	if !a.decode(w, r, &req) {
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	spec, err := a.Analyzer.AnalyzeBrand(r.Context(), tok, branding.BrandInput{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		a.fail(w, err)
		return
	}

	if img, ok := decodeImage(req.LogoBase64, req.LogoMIME); ok {
		spec.SetLogo(&domain.LogoImage{Data: img.Data, MIME: img.MIME, Source: domain.LogoSourceManual})
	} else if req.Website != "" {
		// Best-effort: resolution failures here are never user-facing.
		spec.SetLogo(a.Logos.Resolve(r.Context(), req.Website))
	}
	if !spec.HasLogo() {
		a.fail(w, domain.ErrLogoRequired)
		return
	}

	if err := a.Sessions.SetBrand(a.sessionID(r), spec); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, toBrandResponse(spec))
}

type uploadLogoRequest struct {
	LogoBase64 string `json:"logo_base64" validate:"required,base64"`
	LogoMIME   string `json:"logo_mime" validate:"omitempty,max=100"`
}

// UploadLogo replaces the brand logo with a manual upload.
func (a *App) UploadLogo(w http.ResponseWriter, r *http.Request) {
	var req uploadLogoRequest
	if !a.decode(w, r, &req) {
		return
	}
	img, ok := decodeImage(req.LogoBase64, req.LogoMIME)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "logo payload is not a valid image")
		return
	}
	brand, err := a.Sessions.SetBrandLogo(a.sessionID(r), &domain.LogoImage{Data: img.Data, MIME: img.MIME, Source: domain.LogoSourceManual})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toBrandResponse(brand))
}

func toBrandResponse(spec *domain.BrandSpecification) brandResponse {
	resp := brandResponse{
		ID:         spec.ID,
		Name:       spec.Name,
		Colors:     spec.Palette(),
		Typography: spec.Typography,
		Essence:    spec.Essence,
		Rules:      spec.DesignRules,
		Keywords:   spec.Keywords,
	}
	if spec.HasLogo() {
		resp.LogoSource = string(spec.Logo.Source)
	}
	return resp
}
