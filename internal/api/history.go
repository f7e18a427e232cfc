package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/importer"
	"github.com/kalambet/culturelens/internal/storage"
)

// Preference keys accepted by PATCH /v1/preferences.
const (
	PrefLanguage       = "language"
	PrefDisclaimerSeen = "disclaimer_seen"
	PrefDefaultContext = "default_context"
)

var preferenceValidators = map[string]func(string) (string, error){
	PrefLanguage: func(v string) (string, error) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "en" && v != "ko" {
			return "", fmt.Errorf("language must be en or ko, got %q", v)
		}
		return v, nil
	},
	PrefDisclaimerSeen: func(v string) (string, error) {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return "", fmt.Errorf("disclaimer_seen must be a boolean, got %q", v)
		}
		return strconv.FormatBool(b), nil
	},
	PrefDefaultContext: func(v string) (string, error) {
		c, err := culture.ParseContext(v)
		if err != nil {
			return "", err
		}
		return string(c), nil
	},
}

func handleGetPreferences(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := deps.Store.GetAllPreferences()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get preferences: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

func handlePatchPreferences(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]string
		if !decodeBody(w, r, &fields) {
			return
		}

		// Validate everything before writing anything.
		clean := make(map[string]string, len(fields))
		for key, value := range fields {
			validate, ok := preferenceValidators[key]
			if !ok {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown preference %q", key)
				return
			}
			v, err := validate(value)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
			clean[key] = v
		}

		for key, value := range clean {
			if err := deps.Store.SetPreference(key, value); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to set preference %q: %v", key, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

type comparisonSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CodeA     string    `json:"code_a"`
	CodeB     string    `json:"code_b"`
	Context   string    `json:"context"`
}

type comparisonDetail struct {
	comparisonSummary
	Result json.RawMessage `json:"result"`
}

func summarizeComparison(c storage.Comparison) comparisonSummary {
	return comparisonSummary{ID: c.ID, CreatedAt: c.CreatedAt, CodeA: c.CodeA, CodeB: c.CodeB, Context: c.Context}
}

func handleListComparisons(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		list, err := deps.Store.ListComparisons(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list comparisons: %v", err)
			return
		}
		out := make([]comparisonSummary, len(list))
		for i, c := range list {
			out[i] = summarizeComparison(c)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetComparison(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Store.GetComparison(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, fmt.Errorf("comparison: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, comparisonDetail{
			comparisonSummary: summarizeComparison(c),
			Result:            json.RawMessage(c.ResultJSON),
		})
	}
}

func handleDeleteComparison(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.DeleteComparison(chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, fmt.Errorf("comparison: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type ImportRequest struct {
	Document string `json:"document"`
}

type importView struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Imported  int       `json:"imported"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func handleCreateImport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Document) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "document is required")
			return
		}

		id, err := importer.Submit(deps.Store, req.Document)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to queue import: %v", err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"id":     id,
			"status": storage.ImportPending,
		})
	}
}

func handleGetImport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imp, err := deps.Store.GetImport(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, fmt.Errorf("import: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, importView{
			ID:        imp.ID,
			Status:    imp.Status,
			Imported:  imp.Imported,
			Error:     imp.Error,
			CreatedAt: imp.CreatedAt,
			UpdatedAt: imp.UpdatedAt,
		})
	}
}
