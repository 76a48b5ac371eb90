package api

import (
	"net/http"
	"time"

	"github.com/soaringjerry/Candor/internal/services"
)

// withSession resolves the session cookie into the request context.
func (rt *Router) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(rt.cfg.SessionCookie)
		if err == nil && ck.Value != "" {
			if sess, ok := rt.sessions.Resolve(r.Context(), ck.Value); ok {
				r = r.WithContext(services.WithSession(r.Context(), sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (rt *Router) setSessionCookie(w http.ResponseWriter, id string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     rt.cfg.SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   rt.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (rt *Router) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     rt.cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, ck := range cookies {
		if ck.Path == "" {
			ck.Path = "/"
		}
		http.SetCookie(w, ck)
	}
}
