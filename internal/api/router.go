package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxImportBodySize = 5 << 20  // 5MB

// Deps holds what the HTTP handlers need.
type Deps struct {
	Store    *storage.Store
	Catalog  *catalog.Manager
	Composer *composer.Composer
	Token    string
}

// NewHandler returns the culturelens HTTP API. Reads and advice are public;
// anything that writes user data or reads history requires the bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/contexts", handleContexts)
		r.Get("/countries", handleListCountries(deps))
		r.Get("/countries/{code}", handleGetCountry(deps))
		r.Post("/compare", handleCompare(deps))
		r.Post("/advice", handleAdvice(deps))

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(deps.Token))

			r.Put("/countries/{code}", handlePutCountry(deps))
			r.Delete("/countries/{code}", handleDeleteCountry(deps))

			r.Get("/preferences", handleGetPreferences(deps))
			r.Patch("/preferences", handlePatchPreferences(deps))

			r.Get("/comparisons", handleListComparisons(deps))
			r.Get("/comparisons/{id}", handleGetComparison(deps))
			r.Delete("/comparisons/{id}", handleDeleteComparison(deps))

			r.Post("/imports", handleCreateImport(deps))
			r.Get("/imports/{id}", handleGetImport(deps))
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
