package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/services"
)

func decodeDefinition(r *http.Request) (form.Definition, error) {
	var def form.Definition
	if err := render.DecodeJSON(r.Body, &def); err != nil {
		return def, services.NewInvalidError("invalid form definition: " + err.Error())
	}
	return def, nil
}

func (rt *Router) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := services.SessionFromContext(r.Context()); !ok {
		writeError(w, r, services.NewUnauthorizedError("login required"))
		return
	}
	def, err := decodeDefinition(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	clean, err := rt.forms.Validate(def)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, map[string]any{"form": clean, "descriptors": form.DescribeForm(clean)})
}

func (rt *Router) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	def, err := decodeDefinition(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := rt.forms.Create(r.Context(), def)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, created)
}

func (rt *Router) handleListForms(w http.ResponseWriter, r *http.Request) {
	defs, err := rt.forms.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, defs)
}

func (rt *Router) handleGetForm(w http.ResponseWriter, r *http.Request) {
	def, err := rt.forms.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, def)
}

func (rt *Router) handleDescribeForm(w http.ResponseWriter, r *http.Request) {
	ds, err := rt.forms.Describe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, ds)
}

func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorJSON(w, r, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	entries, err := rt.audits.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, entries)
}
