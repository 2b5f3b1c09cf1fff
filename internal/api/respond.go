// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	custom_errors "repo-init-service/internal/errors"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError maps typed errors to status codes. Anything
// unrecognised is logged and reported as a 500.
func (h *Handler) respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing  *custom_errors.ErrMissingAttribute
		invalid  *custom_errors.ErrInvalidAttribute
		badBody  *custom_errors.ErrMalformedBody
		exists   *custom_errors.ErrRepositoryExists
		notFound *custom_errors.ErrRepositoryNotFound
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid), errors.As(err, &badBody):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &exists):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFound):
		respondWithError(w, http.StatusNotFound, "Repository not found")
	default:
		h.logger.Error("Request failed", "path", r.URL.Path, "method", r.Method, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
