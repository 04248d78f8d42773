// Package handlers is the thin HTTP glue over the pipeline: it decodes
// already-typed payloads, resolves the credential precondition, and maps the
// error taxonomy to status codes. It owns all user-facing messaging; the
// core produces none.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/infra/credentials"
	"brandforge/internal/pipeline"
	"brandforge/internal/session"
)

// App bundles the pipeline components behind the HTTP surface.
type App struct {
	Logger     infra.Logger
	Validate   *validator.Validate
	Sessions   *session.Store
	Analyzer   *branding.Analyzer
	Logos      *branding.LogoResolver
	Drafts     *pipeline.DraftGenerator
	Editor     *pipeline.Editor
	Finalizer  *pipeline.Finalizer
	Storyboard *pipeline.Storyboard
	GeminiKey  string
}

// NewApp constructs the container with a shared validator instance.
func NewApp(logger infra.Logger) *App {
	return &App{
		Logger:   logger,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		Sessions: session.NewStore(),
	}
}

// credential resolves the verified-credential token required before any
// paid operation. The core never probes environment state itself.
func (a *App) credential() (credentials.Token, error) {
	return credentials.Resolve(a.GeminiKey)
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// fail maps the pipeline error taxonomy onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		a.error(w, http.StatusPreconditionFailed, "missing_credential", "no usable API credential is configured")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "unknown session or resource")
	case errors.Is(err, domain.ErrLogoRequired):
		a.error(w, http.StatusUnprocessableEntity, "logo_required",
			"upload a logo or provide a website it can be extracted from")
	case errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusBadGateway, "generation_failed", "the service returned no usable drafts; retry the request")
	case errors.Is(err, domain.ErrEditFailed):
		a.error(w, http.StatusBadGateway, "edit_failed", "the edit returned no image; retry the edit")
	case errors.Is(err, domain.ErrFinalizeFailed):
		a.error(w, http.StatusBadGateway, "finalize_failed", "finalization returned no image; retry finalization")
	case errors.Is(err, domain.ErrJobTimeout):
		a.error(w, http.StatusGatewayTimeout, "job_timeout", "the video job did not finish in time; it may still complete server-side")
	case errors.Is(err, domain.ErrJobFailed):
		a.error(w, http.StatusBadGateway, "job_failed", "the video job failed; resubmit to try again")
	case errors.Is(err, domain.ErrUnparsableOutput):
		a.error(w, http.StatusBadGateway, "unparsable_output", "the service returned malformed structured output")
	default:
		a.Logger.Error().Err(err).Msg("handlers: unhandled failure")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON payload")
		return false
	}
	if err := a.Validate.Struct(v); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	return true
}

func decodeImage(b64, mime string) (domain.ImagePayload, bool) {
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return domain.ImagePayload{}, false
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(data) == 0 {
		return domain.ImagePayload{}, false
	}
	if mime == "" {
		mime = "image/png"
	}
	return domain.ImagePayload{Data: data, MIME: mime}, true
}

func encodeImage(img domain.ImagePayload) map[string]string {
	return map[string]string{
		"data": base64.StdEncoding.EncodeToString(img.Data),
		"mime": img.MIME,
	}
}
