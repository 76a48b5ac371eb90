package middleware

import (
	"net/http"
)

const noStoreValue = "no-store, no-cache, must-revalidate, max-age=0"

// NoStore keeps browsers from caching API answers and guarded pages; request
// status and forms change under the user.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetNoStore(w.Header())
		next.ServeHTTP(w, r)
	})
}

// SetNoStore applies the same headers to proxied responses.
func SetNoStore(h http.Header) {
	h.Set("Cache-Control", noStoreValue)
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
