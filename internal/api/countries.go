package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/culturelens/internal/culture"
)

type contextView struct {
	ID    culture.Context `json:"id"`
	Label string          `json:"label"`
}

func contextList() []contextView {
	out := make([]contextView, len(culture.Contexts))
	for i, c := range culture.Contexts {
		out[i] = contextView{ID: c, Label: c.Label()}
	}
	return out
}

func handleContexts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contextList())
}

type countryView struct {
	culture.CountryProfile
	Custom bool `json:"custom"`
}

func handleListCountries(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := deps.Catalog.List()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]countryView, len(list))
		for i, p := range list {
			custom, err := deps.Catalog.IsCustom(p.Code)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			out[i] = countryView{CountryProfile: p, Custom: custom}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetCountry(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Catalog.Get(chi.URLParam(r, "code"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		custom, err := deps.Catalog.IsCustom(p.Code)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countryView{CountryProfile: p, Custom: custom})
	}
}

func handlePutCountry(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var p culture.CountryProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		p.Code = chi.URLParam(r, "code")

		stored, err := deps.Catalog.Put(p)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countryView{CountryProfile: stored, Custom: true})
	}
}

func handleDeleteCountry(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Catalog.Delete(chi.URLParam(r, "code")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
