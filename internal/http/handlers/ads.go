package handlers

import (
	"net/http"
	"strings"

	"brandforge/internal/domain"
)

type scriptRequest struct {
	Transcript string `json:"transcript" validate:"max=10000"`
}

// AdScript generates the voiceover script from the brand and the
// conversation transcript and stores it on the session.
func (a *App) AdScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if !a.decode(w, r, &req) {
		return
	}
	snap, err := a.Sessions.Snapshot(a.sessionID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Brand == nil {
		a.error(w, http.StatusConflict, "no_brand", "create a brand before producing an ad")
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	script, err := a.Storyboard.Script(r.Context(), tok, snap.Brand, req.Transcript)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Sessions.SetScript(a.sessionID(r), script); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"script": script})
}

type updateScriptRequest struct {
	Script string `json:"script" validate:"required,max=5000"`
}

// UpdateAdScript stores the user's edited script. The edited text — not the
// generated original — is what the video request embeds.
func (a *App) UpdateAdScript(w http.ResponseWriter, r *http.Request) {
	var req updateScriptRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Sessions.SetScript(a.sessionID(r), strings.TrimSpace(req.Script)); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type keyframesRequest struct {
	Subtype string `json:"subtype" validate:"required,max=120"`
}

// AdKeyframes plans and generates the storyboard stills for the current
// script.
func (a *App) AdKeyframes(w http.ResponseWriter, r *http.Request) {
	var req keyframesRequest
	if !a.decode(w, r, &req) {
		return
	}
	snap, err := a.Sessions.Snapshot(a.sessionID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Brand == nil || snap.Script == "" {
		a.error(w, http.StatusConflict, "no_script", "generate a script before keyframes")
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	frames, err := a.Storyboard.Keyframes(r.Context(), tok, snap.Brand, snap.Inspirations, snap.Script, req.Subtype)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Sessions.SetKeyframes(a.sessionID(r), frames); err != nil {
		a.fail(w, err)
		return
	}

	out := make([]map[string]any, len(frames))
	for i, frame := range frames {
		out[i] = map[string]any{
			"index": i,
			"scene": frame.Scene,
			"image": encodeImage(frame.Image),
		}
	}
	a.json(w, http.StatusOK, map[string]any{"keyframes": out})
}

type adVideoRequest struct {
	Subtype       string `json:"subtype" validate:"required,max=120"`
	KeyframeIndex int    `json:"keyframe_index" validate:"min=0"`
}

// AdVideo is the explicit user confirmation: it submits the single video job
// seeded by the chosen keyframe and blocks until the poller reaches a
// terminal state.
func (a *App) AdVideo(w http.ResponseWriter, r *http.Request) {
	var req adVideoRequest
	if !a.decode(w, r, &req) {
		return
	}
	snap, err := a.Sessions.Snapshot(a.sessionID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Brand == nil || snap.Script == "" || req.KeyframeIndex >= len(snap.Keyframes) {
		a.fail(w, domain.ErrNotFound)
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	asset, err := a.Storyboard.ProduceVideo(r.Context(), tok, snap.Brand, snap.Script, snap.Keyframes[req.KeyframeIndex], req.Subtype)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Sessions.CommitAsset(a.sessionID(r), *asset); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": asset.ID, "url": asset.URL})
}
