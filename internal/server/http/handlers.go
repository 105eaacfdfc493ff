package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openscholar/journal-catalog-service/internal/catalog"
	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// Request body limit for the add-journal endpoint.
const maxRequestBodySize = 1 << 20 // 1 MB

// addJournalRequest is the JSON request body for submitting a new journal.
// Only the name is mandatory; every other column is free text the normalizer
// interprets the same way it interprets a source row.
type addJournalRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=300"`
	ISSN           string `json:"issn" validate:"omitempty,max=30"`
	Publisher      string `json:"publisher" validate:"omitempty,max=300"`
	Country        string `json:"country" validate:"omitempty,max=100"`
	SubjectArea    string `json:"subject_area" validate:"omitempty,max=500"`
	Quartile       string `json:"quartile" validate:"omitempty,max=50"`
	Indexing       string `json:"indexing" validate:"omitempty,max=200"`
	ImpactFactor   string `json:"impact_factor" validate:"omitempty,max=50"`
	AcceptanceRate string `json:"acceptance_rate" validate:"omitempty,max=50"`
	ReviewDuration string `json:"review_duration" validate:"omitempty,max=100"`
	AccessModel    string `json:"access_model" validate:"omitempty,max=100"`
	FeeUSD         string `json:"fee_usd" validate:"omitempty,max=50"`
	FeeINR         string `json:"fee_inr" validate:"omitempty,max=50"`
	Editor         string `json:"editor" validate:"omitempty,max=200"`
	CoEditor       string `json:"co_editor" validate:"omitempty,max=200"`
	AimAndScope    string `json:"aim_and_scope" validate:"omitempty,max=5000"`
	Guidelines     string `json:"guidelines" validate:"omitempty,max=5000"`
}

// searchJournals handles GET /api/v1/journals/search.
// The free-text query binds to exactly one selector; facet parameters repeat
// and are OR-combined within a group.
func (s *Server) searchJournals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := r.URL.Query()

	searchType := catalog.SearchName
	if raw := params.Get("type"); raw != "" {
		searchType = catalog.SearchType(strings.ToLower(raw))
		if !catalog.IsValidSearchType(searchType) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported search type: %s", raw))
			return
		}
	}

	var sortKey catalog.SortKey
	if raw := params.Get("sort"); raw != "" {
		sortKey = catalog.SortKey(strings.ToLower(raw))
		if !catalog.IsValidSortKey(sortKey) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported sort key: %s", raw))
			return
		}
	}

	criteria := catalog.Criteria{
		Query:            params.Get("q"),
		Type:             searchType,
		Areas:            params["area"],
		Quartiles:        upperAll(params["quartile"]),
		Indexing:         lowerAll(params["indexing"]),
		OpenAccess:       lowerAll(params["oa"]),
		HybridOnly:       boolParam(params.Get("hybrid")),
		HighImpactOnly:   boolParam(params.Get("high_impact")),
		SubscriptionOnly: boolParam(params.Get("subscription")),
	}

	result := catalog.Search(s.store.Snapshot(), criteria)
	if sortKey != "" && result.State == catalog.StateResults {
		result.Journals = catalog.Sort(result.Journals, sortKey)
	}

	s.metrics.RecordSearch(string(searchType), len(result.Journals), time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, newSearchResponse(result))
}

// suggestAreas handles GET /api/v1/journals/suggest.
func (s *Server) suggestAreas(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")

	suggestions := catalog.Suggest(s.store.Snapshot(), partial)
	if suggestions == nil {
		suggestions = []string{}
	}

	s.metrics.RecordSuggestion()
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// listAreas handles GET /api/v1/areas.
func (s *Server) listAreas(w http.ResponseWriter, r *http.Request) {
	areas := s.store.Areas()
	if areas == nil {
		areas = []string{}
	}
	writeJSON(w, http.StatusOK, areasResponse{Areas: areas, Count: len(areas)})
}

// addJournal handles POST /api/v1/journals.
// The journal becomes visible locally before the background delivery to the
// remote source completes.
func (s *Server) addJournal(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req addJournalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field: %s", strings.ToLower(verrs[0].Field())))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	journal, err := s.loader.AddJournal(r.Context(), req.toRawRow())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addJournalResponse{
		Journal: journal,
		Message: "journal added",
	})
}

// toRawRow maps the typed form back onto the column names the normalizer
// resolves, so a submitted journal takes the same path as a fetched row.
func (r addJournalRequest) toRawRow() domain.RawRow {
	row := domain.RawRow{
		"Journal Name": r.Name,
	}
	set := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			row[key] = val
		}
	}
	set("ISSN No", r.ISSN)
	set("Publisher", r.Publisher)
	set("Country", r.Country)
	set("Subject Area", r.SubjectArea)
	set("Quartile", r.Quartile)
	set("Indexing", r.Indexing)
	set("Impact Factor", r.ImpactFactor)
	set("Acceptance Rate", r.AcceptanceRate)
	set("Time", r.ReviewDuration)
	set("Access", r.AccessModel)
	set("USD", r.FeeUSD)
	set("Rs", r.FeeINR)
	set("Editor", r.Editor)
	set("Co-Editor", r.CoEditor)
	set("Aim & Scope", r.AimAndScope)
	set("Guide Lines of Journal", r.Guidelines)
	return row
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to
// clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "source unavailable")
	case errors.Is(err, domain.ErrCacheUnavailable):
		writeError(w, http.StatusServiceUnavailable, "cache unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// boolParam interprets a query flag; "true" and "1" enable it.
func boolParam(v string) bool {
	return v == "true" || v == "1"
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func upperAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
