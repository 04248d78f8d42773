package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/middleware"
)

type generateDraftsRequest struct {
	Category    string `json:"category" validate:"required,oneof=merchandise print digital video"`
	Subtype     string `json:"subtype" validate:"required,max=120"`
	Instruction string `json:"instruction" validate:"max=2000"`
}

// GenerateDrafts runs the 4-way fan-out and returns the surviving variants.
// Fewer than four drafts is a normal partial success.
func (a *App) GenerateDrafts(w http.ResponseWriter, r *http.Request) {
	var req generateDraftsRequest
	if !a.decode(w, r, &req) {
		return
	}
	snap, err := a.Sessions.Snapshot(a.sessionID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Brand == nil {
		a.error(w, http.StatusConflict, "no_brand", "create a brand before generating assets")
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	set, err := a.Drafts.Generate(r.Context(), tok, branding.ComposeInput{
		Brand:        snap.Brand,
		Inspirations: snap.Inspirations,
		Category:     domain.AssetCategory(req.Category),
		Subtype:      req.Subtype,
		Instruction:  localizedInstruction(r, req.Instruction),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	key, err := a.Sessions.PutDrafts(a.sessionID(r), set)
	if err != nil {
		a.fail(w, err)
		return
	}

	images := make([]map[string]string, len(set.Drafts))
	for i, d := range set.Drafts {
		images[i] = encodeImage(d)
	}
	a.json(w, http.StatusOK, map[string]any{
		"draft_set_id": key,
		"drafts":       images,
	})
}

// localizedInstruction steers on-asset text toward the caller's locale.
// Prompts themselves stay in English.
func localizedInstruction(r *http.Request, instruction string) string {
	tag := middleware.LocaleFromContext(r.Context())
	// The matcher may return region-qualified variants of English.
	if base, _ := tag.Base(); base == language.MustParseBase("en") {
		return instruction
	}
	name := display.English.Tags().Name(tag)
	return strings.TrimSpace(instruction + "\nRender any visible on-asset text in " + name + ".")
}
