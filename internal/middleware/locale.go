package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var localeKey = localeContextKey{}

var supportedLocales = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Indonesian,
	language.Spanish,
})

// Locale detects the caller's language from X-Locale or Accept-Language and
// stores the matched tag in the request context. Generation prompts stay in
// English; the locale only steers on-asset typography language.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hint := r.Header.Get("X-Locale")
		if hint == "" {
			hint = r.Header.Get("Accept-Language")
		}
		tag, _ := language.MatchStrings(supportedLocales, hint)
		ctx := context.WithValue(r.Context(), localeKey, tag)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext returns the matched locale, defaulting to English.
func LocaleFromContext(ctx context.Context) language.Tag {
	if v, ok := ctx.Value(localeKey).(language.Tag); ok {
		return v
	}
	return language.English
}
