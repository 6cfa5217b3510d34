package middleware

import (
	"context"
	"net/http"

	"github.com/avqlab/mushrelay/internal/utils"
)

type localeCtxKey int

const localeKey localeCtxKey = 1

var supportedLocales = []string{"en", "de"}

// Locale resolves the participant's locale from the lang query param or the
// Accept-Language header and stores it in the request context. Status
// messages at the end of the submission chain are rendered in this locale.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(
			r.URL.Query().Get("lang"),
			r.Header.Get("Accept-Language"),
			supportedLocales,
			"en",
		)
		ctx := context.WithValue(r.Context(), localeKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext retrieves the locale stored by Locale.
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok {
		return s
	}
	return "en"
}
