package handlers

import "net/http"

type finalizeRequest struct {
	EditID string `json:"edit_id" validate:"required"`
}

// Finalize regenerates the edit session's working image at production
// resolution, commits the artifact to the gallery, and closes the session.
func (a *App) Finalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if !a.decode(w, r, &req) {
		return
	}
	sid := a.sessionID(r)
	snap, err := a.Sessions.Snapshot(sid)
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Brand == nil {
		a.error(w, http.StatusConflict, "no_brand", "create a brand before finalizing assets")
		return
	}
	edit, err := a.Sessions.Edit(sid, req.EditID)
	if err != nil {
		a.fail(w, err)
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	asset, err := a.Finalizer.Finalize(r.Context(), tok, snap.Brand, edit.Working, edit.Category, edit.Subtype)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Sessions.CommitAsset(sid, *asset); err != nil {
		a.fail(w, err)
		return
	}
	a.Sessions.CloseEdit(sid, req.EditID)

	a.json(w, http.StatusCreated, map[string]any{
		"id":       asset.ID,
		"category": asset.Category,
		"subtype":  asset.Subtype,
		"url":      asset.URL,
	})
}

// ListAssets returns the session gallery.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := a.Sessions.Assets(a.sessionID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]map[string]any, len(assets))
	for i, asset := range assets {
		out[i] = map[string]any{
			"id":         asset.ID,
			"category":   asset.Category,
			"subtype":    asset.Subtype,
			"kind":       asset.Kind,
			"url":        asset.URL,
			"provenance": asset.Provenance,
			"created_at": asset.CreatedAt,
		}
	}
	a.json(w, http.StatusOK, map[string]any{"assets": out})
}
