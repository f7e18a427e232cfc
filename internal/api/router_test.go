package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/countries"
	"github.com/kalambet/culturelens/internal/storage"
)

const testToken = "test-token-12345"

func setupHandler(t *testing.T) (http.Handler, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	builtin, err := countries.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	handler := NewHandler(Deps{
		Store:    store,
		Catalog:  catalog.NewManager(store, builtin, 0),
		Composer: composer.New(),
		Token:    testToken,
	})
	return handler, store
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestContexts(t *testing.T) {
	h, _ := setupHandler(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/v1/contexts", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got []contextView
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 8 {
		t.Errorf("got %d contexts, want 8", len(got))
	}
	if got[5].ID != "negotiation" || got[5].Label == "" {
		t.Errorf("contexts[5] = %+v", got[5])
	}
}

func TestListAndGetCountries(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/v1/countries", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var list []countryView
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) < 20 {
		t.Errorf("got %d countries", len(list))
	}

	rr = serve(h, httptest.NewRequest(http.MethodGet, "/v1/countries/kr", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var kr countryView
	if err := json.Unmarshal(rr.Body.Bytes(), &kr); err != nil {
		t.Fatal(err)
	}
	if kr.Code != "KR" || kr.Custom {
		t.Errorf("KR = %+v", kr)
	}
}

func TestGetCountry_Unknown(t *testing.T) {
	h, _ := setupHandler(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/v1/countries/ZZ", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if body := decodeError(t, rr); body.Error.Type != "unknown_country" {
		t.Errorf("type = %q", body.Error.Type)
	}
}

func TestAdvice_USKoreaNegotiation(t *testing.T) {
	h, store := setupHandler(t)

	body := `{"country_a":"US","country_b":"KR","context":"negotiation"}`
	rr := serve(h, authReq(http.MethodPost, "/v1/advice", body, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	var resp AdviceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" {
		t.Error("expected the comparison id in the response")
	}
	if resp.Context != "negotiation" {
		t.Errorf("context = %q", resp.Context)
	}
	if len(resp.FromAtoB.Bullets) == 0 || len(resp.FromBtoA.Bullets) == 0 {
		t.Error("advice bullets must never be empty")
	}
	if len(resp.Mutual.KeyDifferences) == 0 {
		t.Error("expected key differences for US/KR")
	}

	saved, err := store.GetComparison(resp.ID)
	if err != nil {
		t.Fatalf("GetComparison: %v", err)
	}
	if saved.CodeA != "US" || saved.CodeB != "KR" || saved.Context != "negotiation" {
		t.Errorf("saved comparison = %+v", saved)
	}
}

func TestAdvice_ErrorMapping(t *testing.T) {
	h, _ := setupHandler(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantType string
	}{
		{"invalid context", `{"country_a":"US","country_b":"KR","context":"karaoke"}`, http.StatusBadRequest, "invalid_context"},
		{"missing context without default", `{"country_a":"US","country_b":"KR"}`, http.StatusBadRequest, "invalid_context"},
		{"unknown country", `{"country_a":"US","country_b":"ZZ","context":"feedback"}`, http.StatusNotFound, "unknown_country"},
		{"missing country", `{"country_a":"US","context":"feedback"}`, http.StatusBadRequest, "invalid_request_error"},
		{"malformed json", `{"country_a":`, http.StatusBadRequest, "invalid_request_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, authReq(http.MethodPost, "/v1/advice", tt.body, ""))
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body = %s", rr.Code, tt.wantCode, rr.Body.String())
			}
			if body := decodeError(t, rr); body.Error.Type != tt.wantType {
				t.Errorf("type = %q, want %q", body.Error.Type, tt.wantType)
			}
		})
	}
}

func TestAdvice_UsesDefaultContextPreference(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodPatch, "/v1/preferences", `{"default_context":"feedback"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d; body = %s", rr.Code, rr.Body.String())
	}

	rr = serve(h, authReq(http.MethodPost, "/v1/advice", `{"country_a":"DE","country_b":"JP"}`, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("advice status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var resp AdviceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Context != "feedback" {
		t.Errorf("context = %q, want feedback", resp.Context)
	}
}

func TestCompare_ThreeCountries(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodPost, "/v1/compare", `{"countries":["US","KR","DE"],"context":"negotiation"}`, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var cmp composer.Comparison
	if err := json.Unmarshal(rr.Body.Bytes(), &cmp); err != nil {
		t.Fatal(err)
	}
	if len(cmp.Pairs) != 3 {
		t.Errorf("pairs = %d, want 3", len(cmp.Pairs))
	}
	if cmp.Advice != nil {
		t.Error("advice must only be composed for exactly two countries")
	}
}

func TestCompare_TwoCountriesIncludesAdvice(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodPost, "/v1/compare", `{"countries":["US","KR"],"context":"meeting-idea"}`, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var cmp composer.Comparison
	if err := json.Unmarshal(rr.Body.Bytes(), &cmp); err != nil {
		t.Fatal(err)
	}
	if cmp.Advice == nil {
		t.Fatal("expected advice for two countries")
	}
}

func TestCompare_SelectionBounds(t *testing.T) {
	h, _ := setupHandler(t)

	for _, body := range []string{
		`{"countries":[]}`,
		`{"countries":["US","KR","DE","JP"]}`,
	} {
		rr := serve(h, authReq(http.MethodPost, "/v1/compare", body, ""))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestWriteRoutesRequireToken(t *testing.T) {
	h, _ := setupHandler(t)

	routes := []struct{ method, path, body string }{
		{http.MethodPut, "/v1/countries/XX", `{}`},
		{http.MethodDelete, "/v1/countries/XX", ""},
		{http.MethodGet, "/v1/preferences", ""},
		{http.MethodPatch, "/v1/preferences", `{}`},
		{http.MethodGet, "/v1/comparisons", ""},
		{http.MethodGet, "/v1/comparisons/abc", ""},
		{http.MethodDelete, "/v1/comparisons/abc", ""},
		{http.MethodPost, "/v1/imports", `{}`},
		{http.MethodGet, "/v1/imports/abc", ""},
	}
	for _, rt := range routes {
		for _, tok := range []string{"", "wrong"} {
			rr := serve(h, authReq(rt.method, rt.path, rt.body, tok))
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("%s %s token=%q: status = %d, want 401", rt.method, rt.path, tok, rr.Code)
			}
		}
	}
}

func TestPutAndDeleteCustomCountry(t *testing.T) {
	h, _ := setupHandler(t)

	body := `{"name":"Examplia","culture_type":"network","dimensions":{"pdi":10,"idv":80,"uai":20}}`
	rr := serve(h, authReq(http.MethodPut, "/v1/countries/xe", body, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("put status = %d; body = %s", rr.Code, rr.Body.String())
	}

	rr = serve(h, httptest.NewRequest(http.MethodGet, "/v1/countries/XE", nil))
	var got countryView
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Examplia" || !got.Custom {
		t.Errorf("got %+v, want custom Examplia", got)
	}

	rr = serve(h, authReq(http.MethodDelete, "/v1/countries/XE", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d; body = %s", rr.Code, rr.Body.String())
	}
	rr = serve(h, httptest.NewRequest(http.MethodGet, "/v1/countries/XE", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("after delete status = %d, want 404", rr.Code)
	}
}

func TestPutCountry_Incomplete(t *testing.T) {
	h, _ := setupHandler(t)

	body := `{"name":"Half","culture_type":"network","dimensions":{"pdi":10}}`
	rr := serve(h, authReq(http.MethodPut, "/v1/countries/XH", body, testToken))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body = %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteBuiltinCountry(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodDelete, "/v1/countries/US", "", testToken))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
}

func TestPreferences(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodPatch, "/v1/preferences", `{"language":"KO","disclaimer_seen":"1"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d; body = %s", rr.Code, rr.Body.String())
	}

	rr = serve(h, authReq(http.MethodGet, "/v1/preferences", "", testToken))
	var prefs map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs["language"] != "ko" || prefs["disclaimer_seen"] != "true" {
		t.Errorf("prefs = %v", prefs)
	}
}

func TestPreferences_RejectsInvalid(t *testing.T) {
	h, store := setupHandler(t)

	for _, body := range []string{
		`{"language":"fr"}`,
		`{"theme":"dark"}`,
		`{"default_context":"lunch"}`,
		`{"language":"en","disclaimer_seen":"maybe"}`,
	} {
		rr := serve(h, authReq(http.MethodPatch, "/v1/preferences", body, testToken))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rr.Code)
		}
	}

	prefs, err := store.GetAllPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if len(prefs) != 0 {
		t.Errorf("rejected patches must not write anything, got %v", prefs)
	}
}

func TestComparisonHistory(t *testing.T) {
	h, _ := setupHandler(t)

	rr := serve(h, authReq(http.MethodPost, "/v1/advice", `{"country_a":"US","country_b":"DE","context":"reporting"}`, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("advice status = %d", rr.Code)
	}
	var resp AdviceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	rr = serve(h, authReq(http.MethodGet, "/v1/comparisons?limit=5", "", testToken))
	var list []comparisonSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != resp.ID {
		t.Fatalf("history = %+v", list)
	}

	rr = serve(h, authReq(http.MethodGet, "/v1/comparisons/"+resp.ID, "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var detail struct {
		Result composer.Result `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Result.ProfileB.Code != "DE" {
		t.Errorf("stored result profile_b = %q", detail.Result.ProfileB.Code)
	}

	rr = serve(h, authReq(http.MethodDelete, "/v1/comparisons/"+resp.ID, "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = serve(h, authReq(http.MethodGet, "/v1/comparisons/"+resp.ID, "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("after delete status = %d, want 404", rr.Code)
	}
}

func TestImports(t *testing.T) {
	h, store := setupHandler(t)

	doc, _ := json.Marshal(ImportRequest{Document: "- {code: XI, name: Importia, culture_type: machine, dimensions: {pdi: 30, idv: 60, uai: 70}}"})
	rr := serve(h, authReq(http.MethodPost, "/v1/imports", string(doc), testToken))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created["status"] != "pending" || created["id"] == "" {
		t.Fatalf("created = %v", created)
	}

	job, err := store.ClaimNextJob([]string{"profile_import"})
	if err != nil || job == nil {
		t.Fatalf("expected queued job, got %v, %v", job, err)
	}

	rr = serve(h, authReq(http.MethodGet, "/v1/imports/"+created["id"], "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var view importView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Status != "pending" {
		t.Errorf("status = %q", view.Status)
	}

	rr = serve(h, authReq(http.MethodPost, "/v1/imports", `{"document":"  "}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty document status = %d, want 400", rr.Code)
	}
	rr = serve(h, authReq(http.MethodGet, "/v1/imports/missing", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing import status = %d, want 404", rr.Code)
	}
}
