package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/storage"
)

type CompareRequest struct {
	Countries []string `json:"countries"`
	Context   string   `json:"context,omitempty"`
}

type AdviceRequest struct {
	CountryA string `json:"country_a"`
	CountryB string `json:"country_b"`
	Context  string `json:"context"`
}

// AdviceResponse is a composed result plus the id it was recorded under.
// ID is empty when recording failed.
type AdviceResponse struct {
	ID string `json:"id,omitempty"`
	composer.Result
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func handleCompare(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if !decodeBody(w, r, &req) {
			return
		}

		var situation culture.Context
		if req.Context != "" {
			c, err := culture.ParseContext(req.Context)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			situation = c
		}
		if len(req.Countries) > composer.MaxSelection {
			writeDomainError(w, fmt.Errorf("%w: got %d", composer.ErrTooManyCountries, len(req.Countries)))
			return
		}

		profiles, err := deps.Catalog.Resolve(req.Countries...)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		cmp, err := deps.Composer.Compare(r.Context(), profiles, situation)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
	}
}

func handleAdvice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdviceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.CountryA == "" || req.CountryB == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "country_a and country_b are required")
			return
		}

		raw := req.Context
		if raw == "" {
			if v, err := deps.Store.GetPreference(PrefDefaultContext); err == nil {
				raw = v
			}
		}
		situation, err := culture.ParseContext(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		res, err := adviseAndRecord(deps.Catalog, deps.Composer, deps.Store, req.CountryA, req.CountryB, situation)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// profileResolver is the part of catalog.Manager advice needs.
type profileResolver interface {
	Resolve(codes ...string) ([]culture.CountryProfile, error)
}

type comparisonSaver interface {
	SaveComparison(c storage.Comparison) error
}

// adviseAndRecord composes advice for the two codes and records it in the
// comparison history. A failure to record is logged, not returned.
func adviseAndRecord(cat profileResolver, comp *composer.Composer, saver comparisonSaver, codeA, codeB string, situation culture.Context) (AdviceResponse, error) {
	profiles, err := cat.Resolve(codeA, codeB)
	if err != nil {
		return AdviceResponse{}, err
	}
	res, err := comp.Compose(profiles[0], profiles[1], situation)
	if err != nil {
		return AdviceResponse{}, err
	}

	out := AdviceResponse{Result: res}
	if saver == nil {
		return out, nil
	}
	id, err := recordComparison(saver, res)
	if err != nil {
		slog.Warn("failed to record comparison", "error", err)
		return out, nil
	}
	out.ID = id
	return out, nil
}

func recordComparison(saver comparisonSaver, res composer.Result) (string, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	c := storage.Comparison{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		CodeA:      res.ProfileA.Code,
		CodeB:      res.ProfileB.Code,
		Context:    string(res.Context),
		ResultJSON: string(b),
	}
	if err := saver.SaveComparison(c); err != nil {
		return "", err
	}
	return c.ID, nil
}
