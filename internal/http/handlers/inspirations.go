package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addInspirationRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
	ImageMIME   string `json:"image_mime" validate:"omitempty,max=100"`
	Note        string `json:"note" validate:"max=1000"`
}

// AddInspiration analyzes a reference image into style cues and adds it to
// the session's inspiration collection.
func (a *App) AddInspiration(w http.ResponseWriter, r *http.Request) {
	var req addInspirationRequest
	if !a.decode(w, r, &req) {
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}
	img, ok := decodeImage(req.ImageBase64, req.ImageMIME)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "inspiration payload is not a valid image")
		return
	}

	cue, err := a.Analyzer.AnalyzeInspiration(r.Context(), tok, img, req.Note)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Sessions.AddInspiration(a.sessionID(r), *cue); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": cue.ID, "cues": cue.Cues})
}

// RemoveInspiration drops a cue from the collection.
func (a *App) RemoveInspiration(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.RemoveInspiration(a.sessionID(r), chi.URLParam(r, "cueID")); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
