package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto the HTTP taxonomy. Anything unexpected
// is logged with full detail and answered with a generic 500 body.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidFile):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token."})
	case errors.Is(err, domain.ErrListingNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Listing not found or you do not have permission."})
	case errors.Is(err, domain.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Profile not found."})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An unexpected error occurred."})
	}
}
