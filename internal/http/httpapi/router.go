package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandforge/internal/http/handlers"
	"brandforge/internal/infra"
	"brandforge/internal/middleware"
)

// NewRouter assembles the API surface. Paid-operation routes sit behind the
// rate limiter; everything else is cheap.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Locale,
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/sessions", app.CreateSession)

	r.Route("/v1/sessions/{sid}", func(r chi.Router) {
		r.Get("/assets", app.ListAssets)
		r.Put("/ads/script", app.UpdateAdScript)
		r.Delete("/inspirations/{cueID}", app.RemoveInspiration)
		r.Post("/edits/open", app.OpenEdit)
		r.Post("/brand/logo", app.UploadLogo)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
			r.Post("/brand", app.CreateBrand)
			r.Post("/inspirations", app.AddInspiration)
			r.Post("/drafts", app.GenerateDrafts)
			r.Post("/edits", app.ApplyEdit)
			r.Post("/edits/spellcheck", app.SpellCheck)
			r.Post("/edits/preview", app.Preview)
			r.Post("/finalize", app.Finalize)
			r.Post("/ads/script", app.AdScript)
			r.Post("/ads/keyframes", app.AdKeyframes)
			r.Post("/ads/video", app.AdVideo)
		})
	})

	fileServer := http.FileServer(http.Dir(cfg.StoragePath))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	return r
}
