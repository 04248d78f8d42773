package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/providers/genai"
)

// conservativeEditDirective is restated on every edit round. Uncontrolled
// drift across rounds is the primary quality risk of the editing loop.
const conservativeEditDirective = "Change only what the instruction asks for. Preserve everything else in the image exactly as it is."

const maskEditDirective = "The second image shows the original with highlighted annotation strokes marking the regions to change. " +
	"Apply the instruction only inside the annotated regions, preserve everything outside them, " +
	"and remove all annotation markings from the output."

// Editor runs the annotation-interpretation, spell-audit, and edit steps of
// the iterative loop.
type Editor struct {
	images ImageService
	text   branding.TextService
	logger *infra.Logger
}

// NewEditor constructs an Editor.
func NewEditor(images ImageService, text branding.TextService, logger *infra.Logger) *Editor {
	return &Editor{images: images, text: text, logger: logger}
}

// Interpret turns a mask composite plus a free-text instruction into a
// refined, model-directed edit instruction. It always returns a usable
// string: any service error falls back to the raw instruction unchanged.
func (e *Editor) Interpret(ctx context.Context, tok credentials.Token, composite domain.ImagePayload, instruction string) string {
	if !tok.Valid() {
		return instruction
	}
	prompt := "This image shows a design with highlighted annotation strokes drawn by a user. " +
		"Their instruction is: " + instruction + "\n" +
		"Rewrite the instruction so it states precisely which highlighted regions change and how, " +
		"grounded in what is actually visible inside the annotated regions. Respond with the rewritten instruction only."
	refined, err := e.text.GenerateText(ctx, genai.TextRequest{
		Prompt: prompt,
		Images: []genai.Image{{Data: composite.Data, MIME: composite.MIME}},
	})
	if err != nil || refined == "" {
		if e.logger != nil && err != nil {
			e.logger.Warn().Err(err).Msg("pipeline: annotation interpretation failed, using raw instruction")
		}
		return instruction
	}
	return refined
}

// SpellAudit is the structured result of a textual-error inspection.
type SpellAudit struct {
	HasErrors      bool     `json:"has_errors"`
	Errors         []string `json:"errors"`
	FixInstruction string   `json:"fix_instruction"`
}

const spellAuditSchema = `{
  "type": "OBJECT",
  "properties": {
    "has_errors": {"type": "BOOLEAN"},
    "errors": {"type": "ARRAY", "items": {"type": "STRING"}},
    "fix_instruction": {"type": "STRING"}
  },
  "required": ["has_errors", "errors", "fix_instruction"]
}`

// Audit inspects an image for visible textual errors. When errors exist the
// result carries a single corrective instruction covering all of them, which
// the caller may feed straight into Apply without a mask. A clean image
// yields {false, [], ""} and no further action.
func (e *Editor) Audit(ctx context.Context, tok credentials.Token, img domain.ImagePayload) (*SpellAudit, error) {
	if err := tok.Require(); err != nil {
		return nil, err
	}
	prompt := "Inspect every piece of visible text in this image for spelling mistakes, garbled letters, " +
		"or nonsense words. If any exist, list each one and write a single corrective edit instruction " +
		"covering all of them. If the image has no text or the text is correct, report no errors with an " +
		"empty fix instruction."
	raw, err := e.text.GenerateText(ctx, genai.TextRequest{
		Prompt: prompt,
		Images: []genai.Image{{Data: img.Data, MIME: img.MIME}},
		Schema: json.RawMessage(spellAuditSchema),
	})
	if err != nil {
		return nil, fmt.Errorf("spell audit: %w", err)
	}
	var audit SpellAudit
	if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &audit); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableOutput, err)
	}
	if !audit.HasErrors {
		audit.Errors = nil
		audit.FixInstruction = ""
	}
	return &audit, nil
}

// Apply runs one edit round against the session's working image and advances
// the session with the result. With a mask the instruction is first refined
// through Interpret and the model is told to preserve everything outside the
// annotated regions; without one the instruction is applied as a global edit
// under the conservative-edit directive. No payload means domain.ErrEditFailed;
// there is no automatic retry.
func (e *Editor) Apply(ctx context.Context, tok credentials.Token, session *domain.EditSession, mask *domain.ImagePayload, instruction string) (domain.ImagePayload, error) {
	if err := tok.Require(); err != nil {
		return domain.ImagePayload{}, err
	}

	refs := []genai.Image{{Data: session.Working.Data, MIME: session.Working.MIME}}
	prompt := instruction
	if mask != nil && !mask.IsZero() {
		prompt = e.Interpret(ctx, tok, *mask, instruction)
		refs = append(refs, genai.Image{Data: mask.Data, MIME: mask.MIME})
		prompt = prompt + "\n" + maskEditDirective
	}
	prompt = prompt + "\n" + conservativeEditDirective

	img, err := e.images.GenerateImage(ctx, genai.ImageRequest{Prompt: prompt, References: refs})
	if errors.Is(err, genai.ErrNoPayload) {
		return domain.ImagePayload{}, fmt.Errorf("%w: %v", domain.ErrEditFailed, err)
	}
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("apply edit: %w", err)
	}
	result := domain.ImagePayload{Data: img.Data, MIME: img.MIME}
	session.Advance(result, instruction)
	if e.logger != nil {
		e.logger.Info().Str("session", session.ID).Int("rounds", len(session.Instructions)).Msg("pipeline: edit applied")
	}
	return result, nil
}
