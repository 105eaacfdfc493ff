package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/journal-catalog-service/internal/catalog"
	"github.com/openscholar/journal-catalog-service/internal/domain"
	"github.com/openscholar/journal-catalog-service/internal/loader"
	"github.com/openscholar/journal-catalog-service/internal/observability"
)

func testJournals() []domain.Journal {
	return []domain.Journal{
		{
			Name:              "Aardvark Review",
			ISSN:              "2049-3630",
			Publisher:         "Burrow Press",
			Country:           "Germany",
			SubjectAreas:      []string{"Zoology", "Ecology"},
			Quartiles:         []string{"Q1"},
			ImpactFactor:      "3.1",
			ImpactFactorValue: 3.1,
			IsSCI:             true,
			IsHybrid:          true,
			OpenAccess:        domain.OpenAccessGold,
			FeeUSD:            "45",
		},
		{
			Name:              "Biology Letters",
			ISSN:              "2049-363X",
			Publisher:         "Royal Society",
			Country:           "United Kingdom",
			SubjectAreas:      []string{"Biology"},
			Quartiles:         []string{"Q2"},
			ImpactFactor:      "1.4",
			ImpactFactorValue: 1.4,
			IsWoS:             true,
			IsSubscription:    true,
			FeeUSD:            "120",
		},
		{
			Name:              "3D Printing Journal",
			ISSN:              "1234-5678",
			Publisher:         "MakerPub",
			Country:           "USA",
			SubjectAreas:      []string{"Engineering"},
			ImpactFactorValue: 2.2,
			IsNonIndexing:     true,
			OpenAccess:        domain.OpenAccessDiamond,
			FeeINR:            "4000",
		},
	}
}

// newTestServer wires a server around a pre-published snapshot with no cache
// and no remote source.
func newTestServer(t *testing.T, namespace string) (*Server, *catalog.Store, *loader.Loader) {
	t.Helper()

	store := catalog.NewStore()
	store.Replace(testJournals())
	metrics := observability.NewMetrics(namespace)
	ldr := loader.New(store, nil, nil, metrics, zerolog.Nop())

	srv := NewServer(Config{Address: "127.0.0.1:0"}, store, ldr, metrics, zerolog.Nop())
	return srv, store, ldr
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func decodeSearch(t *testing.T, rec *httptest.ResponseRecorder) searchResponse {
	t.Helper()
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSearchJournals_ByName(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_name")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?q=aardvark", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeSearch(t, rec)
	assert.Equal(t, catalog.StateResults, resp.State)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Aardvark Review", resp.Journals[0].Name)
}

func TestSearchJournals_EmptyIsPrompt(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_prompt")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeSearch(t, rec)
	assert.Equal(t, catalog.StatePrompt, resp.State)
	assert.Equal(t, 0, resp.Count)
}

func TestSearchJournals_ISSN(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_issn")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?q=2049-363X&type=issn", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Hyphens are ignored and the check letter is case-folded on both sides.
	resp := decodeSearch(t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Biology Letters", resp.Journals[0].Name)
}

func TestSearchJournals_Facets(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_facets")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?area=Zoology&area=Biology&quartile=q1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Areas OR within the group, AND with the quartile group.
	resp := decodeSearch(t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Aardvark Review", resp.Journals[0].Name)
}

func TestSearchJournals_Toggles(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_toggles")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?high_impact=true&oa=diamond", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeSearch(t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "3D Printing Journal", resp.Journals[0].Name)
}

func TestSearchJournals_Sorted(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_sorted")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?area=Zoology&area=Biology&area=Engineering&sort=az", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeSearch(t, rec)
	require.Equal(t, 3, resp.Count)
	// Digit-leading names sort after alphabetic ones.
	assert.Equal(t, "Aardvark Review", resp.Journals[0].Name)
	assert.Equal(t, "Biology Letters", resp.Journals[1].Name)
	assert.Equal(t, "3D Printing Journal", resp.Journals[2].Name)
}

func TestSearchJournals_InvalidType(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_bad_type")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?q=x&type=editor", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchJournals_InvalidSort(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_search_bad_sort")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/search?q=x&sort=citations", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestAreas(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_suggest")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/suggest?q=olog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Zoology", "Ecology", "Biology"}, resp.Suggestions)
}

func TestSuggestAreas_EmptyQuery(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_suggest_empty")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/journals/suggest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suggestions)
}

func TestListAreas(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_areas")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/areas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp areasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Biology", "Ecology", "Engineering", "Zoology"}, resp.Areas)
	assert.Equal(t, 4, resp.Count)
}

func TestAddJournal(t *testing.T) {
	srv, store, _ := newTestServer(t, "test_http_add")

	body := `{
		"name": "New Horizons in Chemistry",
		"issn": "9999-0001",
		"subject_area": "Chemistry",
		"quartile": "Q1 journal",
		"access_model": "Gold Open Access",
		"fee_usd": "250"
	}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/journals", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp addJournalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "New Horizons in Chemistry", resp.Journal.Name)
	assert.Equal(t, []string{"Chemistry"}, resp.Journal.SubjectAreas)
	assert.Equal(t, []string{"Q1"}, resp.Journal.Quartiles)
	assert.Equal(t, domain.OpenAccessGold, resp.Journal.OpenAccess)

	// The journal is visible immediately, at the head of the snapshot.
	require.Equal(t, 4, store.Len())
	assert.Equal(t, "New Horizons in Chemistry", store.Snapshot()[0].Name)
}

func TestAddJournal_MissingName(t *testing.T) {
	srv, store, _ := newTestServer(t, "test_http_add_missing_name")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/journals", `{"publisher":"Nobody Press"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 3, store.Len())
}

func TestAddJournal_InvalidJSON(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_add_bad_json")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/journals", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t, "test_http_healthz")

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	srv, _, ldr := newTestServer(t, "test_http_readyz")

	// No snapshot has been published through the loader yet.
	rec := doRequest(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Loading publishes a snapshot (bundled fallback; no source is wired).
	_ = ldr.Load(context.Background())

	rec = doRequest(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp["status"])
	assert.Equal(t, string(loader.OriginBundled), resp["origin"])
}
