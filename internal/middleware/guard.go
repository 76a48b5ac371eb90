package middleware

import (
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
)

// Decision is the outcome of Authorize. A zero Redirect means allow.
type Decision struct {
	Redirect string
}

var Allow = Decision{}

func RedirectTo(p string) Decision { return Decision{Redirect: p} }

func (d Decision) Allowed() bool { return d.Redirect == "" }

type protectedArea struct {
	prefixes []string
	role     models.Role
}

var protectedAreas = []protectedArea{
	{prefixes: []string{"/pages/employee/dashboard", "/pages/employee/feedback"}, role: models.RoleEmployee},
	{prefixes: []string{"/pages/manager/dashboard"}, role: models.RoleManager},
	{prefixes: []string{"/pages/admin/dynamic-form"}, role: models.RoleAdmin},
}

// Authorize decides page navigation. It is advisory: the backend enforces
// authorization on every data call.
func Authorize(role *models.Role, p string) Decision {
	p = canonicalPath(p)
	if bypass(p) {
		return Allow
	}
	if role != nil && isEntry(*role, p) {
		return RedirectTo(role.DashboardPath())
	}
	for _, area := range protectedAreas {
		if !hasAnyPrefix(p, area.prefixes) {
			continue
		}
		if role == nil || *role != area.role {
			return RedirectTo(area.role.LoginPath())
		}
		return Allow
	}
	return Allow
}

// pageFileExts are files that carry a page itself rather than an asset.
var pageFileExts = map[string]bool{".html": true, ".htm": true, ".txt": true}

// canonicalPath resolves the path the file server will actually serve:
// dot segments and repeated slashes are collapsed, and a page file such as
// "x.html" is checked as the page "x".
func canonicalPath(p string) string {
	p = path.Clean("/" + p)
	if ext := path.Ext(p); pageFileExts[strings.ToLower(ext)] {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}

func bypass(p string) bool {
	return strings.HasPrefix(p, "/_next/") || strings.HasPrefix(p, "/api/") || path.Ext(p) != ""
}

func isEntry(role models.Role, p string) bool {
	if p == "/" || p == role.LoginPath() {
		return true
	}
	return role.CanSignUp() && p == "/pages/"+string(role)+"/signup"
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}

// roleOf prefers claims already verified by WithAuth.
func roleOf(v *TokenVerifier, r *http.Request) *models.Role {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		role := models.Role(c.Role)
		return &role
	}
	return v.RoleFromRequest(r)
}

// Guard applies Authorize to page requests with a temporary redirect.
func Guard(v *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Authorize(roleOf(v, r), r.URL.Path)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}
			logging.FromContext(r.Context()).Debug(r.Context(), "guard redirect",
				zap.String("path", r.URL.Path),
				zap.String("to", d.Redirect),
			)
			target := *r.URL
			target.Path = d.Redirect
			target.RawPath = ""
			http.Redirect(w, r, target.String(), http.StatusTemporaryRedirect)
		})
	}
}
