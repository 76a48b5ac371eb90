package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/soaringjerry/Candor/internal/lifecycle"
	"github.com/soaringjerry/Candor/internal/services"
)

func (rt *Router) handleEmployees(w http.ResponseWriter, r *http.Request) {
	emps, err := rt.feedback.Employees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, emps)
}

func (rt *Router) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var in services.RequestInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		writeErrorJSON(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v, err := rt.feedback.Request(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, v)
}

func (rt *Router) handleSent(w http.ResponseWriter, r *http.Request) {
	vs, err := rt.feedback.Sent(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, vs)
}

func (rt *Router) handleReceived(w http.ResponseWriter, r *http.Request) {
	status := lifecycle.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeErrorJSON(w, r, http.StatusBadRequest, "unknown status "+string(status))
		return
	}
	vs, err := rt.feedback.Received(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, vs)
}

func (rt *Router) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := rt.feedback.Counts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, counts)
}

func (rt *Router) handleDetail(w http.ResponseWriter, r *http.Request) {
	d, err := rt.feedback.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, d)
}

func (rt *Router) handleRespond(w http.ResponseWriter, r *http.Request) {
	var in services.RespondInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		writeErrorJSON(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	if in.RequestID != "" && in.RequestID != id {
		writeErrorJSON(w, r, http.StatusBadRequest, "requestId does not match the path")
		return
	}
	in.RequestID = id
	res, err := rt.feedback.Respond(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, res)
}

func (rt *Router) handleReject(w http.ResponseWriter, r *http.Request) {
	v, err := rt.feedback.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, v)
}

func (rt *Router) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := rt.feedback.Messages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, msgs)
}

func (rt *Router) handleReview(w http.ResponseWriter, r *http.Request) {
	rev, err := rt.reviews.Review(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, rev)
}
