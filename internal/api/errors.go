package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/storage"
)

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// writeJSON encodes v fully before writing, so a failed encode never leaves
// a truncated body behind.
func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to encode response: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
	w.Write([]byte("\n"))
}

// writeDomainError maps package sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, culture.ErrInvalidContext):
		httpError(w, http.StatusBadRequest, "invalid_context", "%v", err)
	case errors.Is(err, composer.ErrEmptySelection), errors.Is(err, composer.ErrTooManyCountries):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case errors.Is(err, catalog.ErrUnknownCountry):
		httpError(w, http.StatusNotFound, "unknown_country", "%v", err)
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, catalog.ErrBuiltinCountry):
		httpError(w, http.StatusConflict, "conflict", "%v", err)
	case errors.Is(err, culture.ErrIncompleteProfile),
		errors.Is(err, culture.ErrScoreOutOfRange),
		errors.Is(err, culture.ErrUnknownCultureType):
		httpError(w, http.StatusUnprocessableEntity, "invalid_profile", "%v", err)
	default:
		slog.Error("request failed", "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "internal error")
	}
}
