package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuestionID),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrNoChoiceSelected),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidTime):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as JSON. Unexpected errors are logged and hidden
// behind domain.ErrInternal.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		err = domain.ErrInternal
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
