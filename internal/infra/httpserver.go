package infra

import (
	"net/http"
	"time"
)

// NewHTTPServer builds an http.Server with the configured timeouts. The
// write timeout is generous because draft fan-out and finalization hold the
// request open for the duration of the upstream generation calls.
func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
