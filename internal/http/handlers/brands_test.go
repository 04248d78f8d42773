package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/providers/genai"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type stubTextService struct {
	fn func(req genai.TextRequest) (string, error)
}

func (s *stubTextService) GenerateText(ctx context.Context, req genai.TextRequest) (string, error) {
	return s.fn(req)
}

const brandDNA = `{"colors":["terracotta","cream"],"typography":"humanist serif","essence":"warm neighborhood coffee","design_rules":"flat shapes, generous whitespace","keywords":["warm","artisan"]}`

func newBrandApp(t *testing.T, transport roundTripFunc) *App {
	t.Helper()
	app := NewApp(zerolog.Nop())
	app.GeminiKey = "test-key"
	app.Analyzer = branding.NewAnalyzer(&stubTextService{fn: func(genai.TextRequest) (string, error) {
		return brandDNA, nil
	}}, nil)
	fetcher := branding.NewFetcher(&http.Client{Transport: transport}, nil)
	app.Logos = branding.NewLogoResolver(fetcher, nil)
	return app
}

func noLogoTransport() roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("not found")),
		}, nil
	}
}

func logoTransport(body string) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"image/png"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func postBrand(t *testing.T, app *App, sid string, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	router := chi.NewRouter()
	router.Post("/v1/sessions/{sid}/brand", app.CreateBrand)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sid+"/brand", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBrandWithoutAnyLogoIsBlocked(t *testing.T) {
	app := newBrandApp(t, noLogoTransport())
	sess := app.Sessions.Create()

	rec := postBrand(t, app, sess.ID, map[string]string{
		"name":    "Kopi Senja",
		"website": "https://kopisenja.example.com",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["error"] != "logo_required" {
		t.Fatalf("error = %q, want logo_required", resp["error"])
	}
	if sess.Brand != nil {
		t.Fatal("a blocked save must not install the brand")
	}
}

func TestCreateBrandManualLogoWinsOverExtraction(t *testing.T) {
	// Extraction would succeed too; the upload must still take precedence.
	app := newBrandApp(t, logoTransport("fetched-logo"))
	sess := app.Sessions.Create()

	rec := postBrand(t, app, sess.ID, map[string]string{
		"name":        "Kopi Senja",
		"website":     "https://kopisenja.example.com",
		"logo_base64": base64.StdEncoding.EncodeToString([]byte("uploaded-logo")),
		"logo_mime":   "image/png",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var resp brandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.LogoSource != string(domain.LogoSourceManual) {
		t.Fatalf("logo_source = %q, want manual", resp.LogoSource)
	}
	if sess.Brand == nil || string(sess.Brand.Logo.Data) != "uploaded-logo" {
		t.Fatal("session must hold the uploaded logo bytes")
	}
}

func TestCreateBrandExtractsLogoFromWebsite(t *testing.T) {
	app := newBrandApp(t, logoTransport("favicon-bytes"))
	sess := app.Sessions.Create()

	rec := postBrand(t, app, sess.ID, map[string]string{
		"name":    "Kopi Senja",
		"website": "kopisenja.example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var resp brandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.LogoSource != string(domain.LogoSourceExtracted) {
		t.Fatalf("logo_source = %q, want extracted", resp.LogoSource)
	}
	if len(resp.Colors) == 0 || resp.Colors[0] != "terracotta" {
		t.Fatalf("colors = %v", resp.Colors)
	}
}

func TestCreateBrandRejectsInvalidPayload(t *testing.T) {
	app := newBrandApp(t, noLogoTransport())
	sess := app.Sessions.Create()

	rec := postBrand(t, app, sess.ID, map[string]string{"name": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateBrandWithoutCredential(t *testing.T) {
	app := newBrandApp(t, noLogoTransport())
	app.GeminiKey = ""
	sess := app.Sessions.Create()

	rec := postBrand(t, app, sess.ID, map[string]string{"name": "Kopi Senja"})
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412; body %s", rec.Code, rec.Body.String())
	}
}
