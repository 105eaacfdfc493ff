package httpserver

import (
	"github.com/openscholar/journal-catalog-service/internal/catalog"
	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// Response envelope types for JSON serialization. Journal records carry
// their own JSON shape, so the envelopes only add list metadata.

type searchResponse struct {
	// State is "prompt" when neither a query nor a facet was supplied, and
	// "results" otherwise. A prompt is not an empty result set.
	State    catalog.ResultState `json:"state"`
	Count    int                 `json:"count"`
	Journals []domain.Journal    `json:"journals"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type areasResponse struct {
	Areas []string `json:"areas"`
	Count int      `json:"count"`
}

type addJournalResponse struct {
	Journal domain.Journal `json:"journal"`
	Message string         `json:"message"`
}

func newSearchResponse(result catalog.Result) searchResponse {
	journals := result.Journals
	if journals == nil {
		journals = []domain.Journal{}
	}
	return searchResponse{
		State:    result.State,
		Count:    len(journals),
		Journals: journals,
	}
}
