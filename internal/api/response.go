package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/services"
)

// envelope is the shape of every API answer.
type envelope struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, result any) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Success: true, Result: result})
}

func writeErrorJSON(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Success: false, Message: msg})
}

var statusByCode = map[services.ErrorCode]int{
	services.ErrorInvalid:              http.StatusBadRequest,
	services.ErrorUnauthorized:         http.StatusUnauthorized,
	services.ErrorForbidden:            http.StatusForbidden,
	services.ErrorNotFound:             http.StatusNotFound,
	services.ErrorConflict:             http.StatusConflict,
	services.ErrorTooManyRequests:      http.StatusTooManyRequests,
	services.ErrorBadGateway:           http.StatusBadGateway,
	services.ErrorConfirmationRequired: http.StatusUnprocessableEntity,
}

func mapErr(err error) int {
	var cre *services.ConfirmationRequiredError
	if errors.As(err, &cre) {
		return http.StatusUnprocessableEntity
	}
	if se, ok := services.AsServiceError(err); ok {
		if st, ok := statusByCode[se.Code]; ok {
			return st
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError renders err in the envelope. Internal failures are logged and
// reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := mapErr(err)
	env := envelope{Success: false, Message: err.Error()}

	var cre *services.ConfirmationRequiredError
	switch {
	case errors.As(err, &cre):
		env.Result = map[string]any{"verdict": cre.Verdict, "confirmRequired": true}
	case status == http.StatusInternalServerError:
		logging.FromContext(ctx).Error(ctx, "request failed", zap.Error(err))
		env.Message = http.StatusText(status)
	default:
		if se, ok := services.AsServiceError(err); ok && se.Details != nil {
			env.Errors = se.Details
		}
		logging.FromContext(ctx).Debug(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, env)
}
