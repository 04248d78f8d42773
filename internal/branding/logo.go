package branding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brandforge/internal/domain"
	"brandforge/internal/infra"
)

const maxImageBytes = 8 << 20

// Fetcher resolves arbitrary image URLs to inline bytes. It fails closed:
// non-2xx responses, non-image content types, and network errors all yield
// nil rather than an error, because media ingestion is best-effort and must
// never abort brand creation.
type Fetcher struct {
	client *http.Client
	logger *infra.Logger
}

// NewFetcher constructs a Fetcher. A nil HTTP client gets a short-timeout
// default.
func NewFetcher(client *http.Client, logger *infra.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{client: client, logger: logger}
}

// FetchImage downloads the URL and returns its bytes when the response is an
// image. Any failure returns nil.
func (f *Fetcher) FetchImage(ctx context.Context, rawURL string) *domain.ImagePayload {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if f.logger != nil {
			f.logger.Debug().Err(err).Str("url", rawURL).Msg("branding: image fetch failed")
		}
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}
	mime := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if !strings.HasPrefix(mime, "image/") {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil || len(data) == 0 {
		return nil
	}
	return &domain.ImagePayload{Data: data, MIME: mime}
}

// Logo source endpoints in fixed priority order. The favicon service has the
// widest domain coverage and goes first; the brand-logo service only covers
// well-known brands and goes last.
var logoSources = []func(host string) string{
	func(d string) string { return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=256", url.QueryEscape(d)) },
	func(d string) string { return "https://icon.horse/icon/" + url.PathEscape(d) },
	func(d string) string { return "https://logo.clearbit.com/" + url.PathEscape(d) },
}

// LogoResolver walks the logo source chain for a website's domain.
type LogoResolver struct {
	fetcher *Fetcher
	logger  *infra.Logger
}

// NewLogoResolver constructs a LogoResolver over the given fetcher.
func NewLogoResolver(fetcher *Fetcher, logger *infra.Logger) *LogoResolver {
	return &LogoResolver{fetcher: fetcher, logger: logger}
}

// Resolve tries each source once, in order, and returns the first image that
// resolves. A single source failure advances immediately; all-miss returns
// nil, never an error.
func (r *LogoResolver) Resolve(ctx context.Context, website string) *domain.LogoImage {
	host := domainFromWebsite(website)
	if host == "" {
		return nil
	}
	for _, source := range logoSources {
		if img := r.fetcher.FetchImage(ctx, source(host)); img != nil {
			if r.logger != nil {
				r.logger.Debug().Str("domain", host).Msg("branding: logo resolved")
			}
			return &domain.LogoImage{Data: img.Data, MIME: img.MIME, Source: domain.LogoSourceExtracted}
		}
	}
	return nil
}

func domainFromWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
