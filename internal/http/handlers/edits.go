package handlers

import (
	"net/http"

	"brandforge/internal/domain"
)

type openEditRequest struct {
	DraftSetID string `json:"draft_set_id" validate:"required"`
	Index      int    `json:"index" validate:"min=0"`
}

// OpenEdit starts an edit session over a chosen draft.
func (a *App) OpenEdit(w http.ResponseWriter, r *http.Request) {
	var req openEditRequest
	if !a.decode(w, r, &req) {
		return
	}
	img, category, subtype, err := a.Sessions.Draft(a.sessionID(r), req.DraftSetID, req.Index)
	if err != nil {
		a.fail(w, err)
		return
	}

	edit, err := a.Sessions.OpenEdit(a.sessionID(r), category, subtype, img)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"edit_id": edit.ID,
		"image":   encodeImage(edit.Working),
	})
}

type applyEditRequest struct {
	EditID      string `json:"edit_id" validate:"required"`
	Instruction string `json:"instruction" validate:"required,max=2000"`
	MaskBase64  string `json:"mask_base64" validate:"omitempty,base64"`
	MaskMIME    string `json:"mask_mime" validate:"omitempty,max=100"`
}

// ApplyEdit runs one edit round. The mask, when present, is the composite of
// the working image and the user's annotation strokes produced by the UI.
func (a *App) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	var req applyEditRequest
	if !a.decode(w, r, &req) {
		return
	}
	edit, err := a.Sessions.Edit(a.sessionID(r), req.EditID)
	if err != nil {
		a.fail(w, err)
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	var mask *domain.ImagePayload
	if img, ok := decodeImage(req.MaskBase64, req.MaskMIME); ok {
		mask = &img
	}

	result, err := a.Editor.Apply(r.Context(), tok, edit, mask, req.Instruction)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"edit_id": edit.ID,
		"rounds":  len(edit.Instructions),
		"image":   encodeImage(result),
	})
}

type previewRequest struct {
	EditID string `json:"edit_id" validate:"required"`
}

// Preview renders the working image in a real-world scene for its subtype.
// The result is returned inline and never stored.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !a.decode(w, r, &req) {
		return
	}
	edit, err := a.Sessions.Edit(a.sessionID(r), req.EditID)
	if err != nil {
		a.fail(w, err)
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	img, err := a.Finalizer.Preview(r.Context(), tok, edit.Working, edit.Subtype)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"image": encodeImage(img)})
}

type spellCheckRequest struct {
	EditID    string `json:"edit_id" validate:"required"`
	AutoApply bool   `json:"auto_apply"`
}

// SpellCheck audits the working image for textual errors; with auto_apply
// the corrective instruction is immediately fed through an unmasked edit.
func (a *App) SpellCheck(w http.ResponseWriter, r *http.Request) {
	var req spellCheckRequest
	if !a.decode(w, r, &req) {
		return
	}
	edit, err := a.Sessions.Edit(a.sessionID(r), req.EditID)
	if err != nil {
		a.fail(w, err)
		return
	}
	tok, err := a.credential()
	if err != nil {
		a.fail(w, err)
		return
	}

	audit, err := a.Editor.Audit(r.Context(), tok, edit.Working)
	if err != nil {
		a.fail(w, err)
		return
	}

	resp := map[string]any{
		"has_errors":      audit.HasErrors,
		"errors":          audit.Errors,
		"fix_instruction": audit.FixInstruction,
	}
	if audit.HasErrors && req.AutoApply {
		result, err := a.Editor.Apply(r.Context(), tok, edit, nil, audit.FixInstruction)
		if err != nil {
			a.fail(w, err)
			return
		}
		resp["image"] = encodeImage(result)
	}
	a.json(w, http.StatusOK, resp)
}
