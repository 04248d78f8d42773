package branding

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"brandforge/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func stubClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func imageResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"image/png"}},
		Body:       readCloser(body),
	}
}

func readCloser(s string) *bodyReader {
	return &bodyReader{Reader: strings.NewReader(s)}
}

type bodyReader struct{ *strings.Reader }

func (b *bodyReader) Close() error { return nil }

func TestFetchImageFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		fn   roundTripFunc
	}{
		{"network error", func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("dial refused")
		}},
		{"non-2xx", func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusNotFound, Header: http.Header{}, Body: readCloser("")}, nil
		}},
		{"non-image content type", func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
				Body:       readCloser("<html></html>"),
			}, nil
		}},
		{"empty body", func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"image/png"}},
				Body:       readCloser(""),
			}, nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFetcher(stubClient(tc.fn), nil)
			if img := f.FetchImage(context.Background(), "https://example.com/a.png"); img != nil {
				t.Fatal("expected nil for unresolved image")
			}
		})
	}
}

func TestFetchImageResolves(t *testing.T) {
	f := NewFetcher(stubClient(func(r *http.Request) (*http.Response, error) {
		return imageResponse("pngbytes"), nil
	}), nil)
	img := f.FetchImage(context.Background(), "https://example.com/a.png")
	if img == nil || string(img.Data) != "pngbytes" || img.MIME != "image/png" {
		t.Fatalf("unexpected payload: %+v", img)
	}
}

func TestLogoResolverTriesSourcesInOrder(t *testing.T) {
	var hosts []string
	f := NewFetcher(stubClient(func(r *http.Request) (*http.Response, error) {
		hosts = append(hosts, r.URL.Host)
		if r.URL.Host == "logo.clearbit.com" {
			return imageResponse("logo"), nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Header: http.Header{}, Body: readCloser("")}, nil
	}), nil)

	resolver := NewLogoResolver(f, nil)
	logo := resolver.Resolve(context.Background(), "https://www.northbeam.coffee/about")
	if logo == nil {
		t.Fatal("expected logo from the last source")
	}
	if logo.Source != domain.LogoSourceExtracted {
		t.Fatalf("Source = %q, want extracted", logo.Source)
	}
	want := []string{"www.google.com", "icon.horse", "logo.clearbit.com"}
	if len(hosts) != len(want) {
		t.Fatalf("tried %v, want %v", hosts, want)
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Fatalf("source order %v, want %v", hosts, want)
		}
	}
}

func TestLogoResolverAllMissReturnsNil(t *testing.T) {
	f := NewFetcher(stubClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("unreachable")
	}), nil)
	resolver := NewLogoResolver(f, nil)
	if logo := resolver.Resolve(context.Background(), "northbeam.coffee"); logo != nil {
		t.Fatal("expected nil when every source misses")
	}
}

func TestDomainFromWebsite(t *testing.T) {
	cases := map[string]string{
		"https://www.northbeam.coffee/about": "northbeam.coffee",
		"northbeam.coffee":                   "northbeam.coffee",
		"http://shop.example.org":            "shop.example.org",
		"":                                   "",
	}
	for in, want := range cases {
		if got := domainFromWebsite(in); got != want {
			t.Fatalf("domainFromWebsite(%q) = %q, want %q", in, got, want)
		}
	}
}
