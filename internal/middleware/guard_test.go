package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Candor/internal/models"
)

func rolePtr(r models.Role) *models.Role { return &r }

func TestAuthorize(t *testing.T) {
	employee := rolePtr(models.RoleEmployee)
	manager := rolePtr(models.RoleManager)
	admin := rolePtr(models.RoleAdmin)

	cases := []struct {
		name string
		role *models.Role
		path string
		want Decision
	}{
		{"employee on manager dashboard", employee, "/pages/manager/dashboard", RedirectTo("/pages/manager/login")},
		{"manager on manager dashboard", manager, "/pages/manager/dashboard", Allow},
		{"anonymous on employee dashboard", nil, "/pages/employee/dashboard", RedirectTo("/pages/employee/login")},
		{"admin at root", admin, "/", RedirectTo("/pages/admin/dashboard")},
		{"employee at login", employee, "/pages/employee/login", RedirectTo("/pages/employee/dashboard")},
		{"manager at signup", manager, "/pages/manager/signup", RedirectTo("/pages/manager/dashboard")},
		{"admin has no signup page", admin, "/pages/admin/signup", Allow},
		{"employee feedback subpage", employee, "/pages/employee/feedback/abc", Allow},
		{"manager on employee feedback", manager, "/pages/employee/feedback/abc", RedirectTo("/pages/employee/login")},
		{"anonymous on form builder", nil, "/pages/admin/dynamic-form", RedirectTo("/pages/admin/login")},
		{"employee on form builder", employee, "/pages/admin/dynamic-form/new", RedirectTo("/pages/admin/login")},
		{"admin on form builder", admin, "/pages/admin/dynamic-form", Allow},
		{"anonymous at root", nil, "/", Allow},
		{"anonymous on login", nil, "/pages/manager/login", Allow},
		{"api bypass", nil, "/api/requests", Allow},
		{"next assets bypass", nil, "/_next/static/chunk", Allow},
		{"file extension bypass", nil, "/pages/manager/dashboard/logo.png", Allow},
		{"employee at another area's login", employee, "/pages/manager/login", Allow},
		{"page file suffix", nil, "/pages/admin/dynamic-form.html", RedirectTo("/pages/admin/login")},
		{"page payload suffix", nil, "/pages/manager/dashboard.txt", RedirectTo("/pages/manager/login")},
		{"doubled leading slash", nil, "//pages/admin/dynamic-form", RedirectTo("/pages/admin/login")},
		{"dot segments", nil, "/pages/x/../admin/dynamic-form", RedirectTo("/pages/admin/login")},
		{"dot segments out of api", nil, "/api/../pages/employee/dashboard", RedirectTo("/pages/employee/login")},
		{"login page file for signed in user", employee, "/pages/employee/login.html", RedirectTo("/pages/employee/dashboard")},
		{"admin on builder page file", admin, "/pages/admin/dynamic-form.html", Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.role, tc.path))
		})
	}
}

func TestRoleFromRequest(t *testing.T) {
	v := NewTokenVerifier("secret", "")
	tok, err := v.SignToken(models.RoleManager, "u1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tok})
	role := v.RoleFromRequest(req)
	require.NotNil(t, role)
	assert.Equal(t, models.RoleManager, *role)

	other := NewTokenVerifier("other", "")
	assert.Nil(t, other.RoleFromRequest(req), "bad signature")

	assert.Nil(t, v.RoleFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)), "no cookie")

	expired, err := v.SignToken(models.RoleManager, "u1", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: expired})
	assert.Nil(t, v.RoleFromRequest(req), "expired")

	unknown, err := v.SignToken(models.Role("root"), "u1", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: unknown})
	assert.Nil(t, v.RoleFromRequest(req), "unknown role")
}

func TestGuardRedirects(t *testing.T) {
	v := NewTokenVerifier("secret", "refreshToken")
	h := Guard(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/manager/dashboard?tab=2", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/pages/manager/login?tab=2", rec.Header().Get("Location"))

	tok, err := v.SignToken(models.RoleManager, "m1", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/pages/manager/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWithAuthFeedsGuard(t *testing.T) {
	v := NewTokenVerifier("secret", "refreshToken")
	var seen *Claims
	h := v.WithAuth(Guard(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	tok, err := v.SignToken(models.RoleAdmin, "a1", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/pages/admin/dynamic-form", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "a1", seen.ID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/pages/admin/dashboard", rec.Header().Get("Location"))
}
