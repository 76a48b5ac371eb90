package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/services"
)

func areaParam(r *http.Request) (models.Role, error) {
	area, err := models.ParseRole(chi.URLParam(r, "area"))
	if err != nil {
		return "", services.NewNotFoundError(err.Error())
	}
	return area, nil
}

type sessionResponse struct {
	Role       models.Role `json:"role"`
	UserID     string      `json:"userId"`
	Username   string      `json:"username"`
	Department string      `json:"department,omitempty"`
	Redirect   string      `json:"redirect,omitempty"`
}

func sessionBody(s models.Session) sessionResponse {
	return sessionResponse{
		Role:       s.Role,
		UserID:     s.UserID,
		Username:   s.Username,
		Department: s.Department,
		Redirect:   s.Role.DashboardPath(),
	}
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	area, err := areaParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var creds models.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		writeErrorJSON(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := rt.sessions.Login(r.Context(), area, creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	relayCookies(w, res.Cookies)
	rt.setSessionCookie(w, res.Session.ID, rt.sessions.TTL())
	writeOK(w, r, http.StatusOK, sessionBody(res.Session))
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	area, err := areaParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cookies, err := rt.sessions.Logout(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	relayCookies(w, cookies)
	rt.clearSessionCookie(w)
	writeOK(w, r, http.StatusOK, map[string]string{"redirect": area.LoginPath()})
}

func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	area, err := areaParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var creds models.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		writeErrorJSON(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := rt.sessions.Signup(r.Context(), area, creds); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, map[string]string{"redirect": area.LoginPath()})
}

func (rt *Router) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := services.SessionFromContext(r.Context())
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("login required"))
		return
	}
	writeOK(w, r, http.StatusOK, sessionBody(sess))
}
