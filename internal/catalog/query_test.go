package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

func sampleRecords() []domain.Journal {
	return []domain.Journal{
		{
			Name:              "Aardvark Review",
			ISSN:              "2049-3630",
			Publisher:         "Burrow Press",
			Country:           "Germany",
			SubjectAreas:      []string{"Zoology", "Ecology"},
			Quartiles:         []string{"Q1"},
			ImpactFactorValue: 3.1,
			IsSCI:             true,
			IsHybrid:          true,
			OpenAccess:        domain.OpenAccessGold,
			FeeUSD:            "45",
			AimAndScope:       "Field studies of burrowing mammals",
		},
		{
			Name:              "Biology Letters",
			ISSN:              "2049363X",
			Publisher:         "Royal Society",
			Country:           "United Kingdom",
			SubjectAreas:      []string{"Biology"},
			Quartiles:         []string{"Q2"},
			ImpactFactorValue: 1.4,
			IsWoS:             true,
			IsSubscription:    true,
			FeeUSD:            "120",
			AimAndScope:       "Short reports across biology",
		},
		{
			Name:              "3D Printing Journal",
			ISSN:              "1234-5678",
			Publisher:         "MakerPub",
			Country:           "USA",
			SubjectAreas:      []string{"Engineering", "Materials"},
			ImpactFactorValue: 2.2,
			IsNonIndexing:     true,
			OpenAccess:        domain.OpenAccessDiamond,
			FeeINR:            "4000",
			AimAndScope:       "Additive manufacturing research",
		},
	}
}

func names(journals []domain.Journal) []string {
	out := make([]string, len(journals))
	for i, j := range journals {
		out[i] = j.Name
	}
	return out
}

func TestSearch_PromptStateDistinctFromZeroResults(t *testing.T) {
	records := sampleRecords()

	prompt := Search(records, Criteria{})
	assert.Equal(t, StatePrompt, prompt.State)
	assert.Empty(t, prompt.Journals)

	// A facet is active but nothing matches: a genuine zero-result set.
	zero := Search(records, Criteria{Quartiles: []string{"Q4"}})
	assert.Equal(t, StateResults, zero.State)
	assert.Empty(t, zero.Journals)
}

func TestSearch_WhitespaceQueryIsEmpty(t *testing.T) {
	res := Search(sampleRecords(), Criteria{Query: "   ", Type: SearchName})
	assert.Equal(t, StatePrompt, res.State)
}

func TestSearch_NameSingleCharIsPrefix(t *testing.T) {
	records := sampleRecords()

	res := Search(records, Criteria{Query: "b", Type: SearchName})
	assert.Equal(t, []string{"Biology Letters"}, names(res.Journals))

	// Two characters switch to substring matching.
	res = Search(records, Criteria{Query: "lo", Type: SearchName})
	assert.Equal(t, []string{"Biology Letters"}, names(res.Journals))

	res = Search(records, Criteria{Query: "journal", Type: SearchName})
	assert.Equal(t, []string{"3D Printing Journal"}, names(res.Journals))
}

func TestSearch_AreaMatchesAnySubjectArea(t *testing.T) {
	res := Search(sampleRecords(), Criteria{Query: "eco", Type: SearchArea})
	assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
}

func TestSearch_CountryIsPrefixOnly(t *testing.T) {
	records := sampleRecords()

	res := Search(records, Criteria{Query: "united", Type: SearchCountry})
	assert.Equal(t, []string{"Biology Letters"}, names(res.Journals))

	// "kingdom" appears mid-string; prefix matching rejects it.
	res = Search(records, Criteria{Query: "kingdom", Type: SearchCountry})
	assert.Empty(t, res.Journals)
}

func TestSearch_ISSN(t *testing.T) {
	records := sampleRecords()

	t.Run("letters-only query never matches", func(t *testing.T) {
		res := Search(records, Criteria{Query: "abc", Type: SearchISSN})
		assert.Equal(t, StateResults, res.State)
		assert.Empty(t, res.Journals)
	})

	t.Run("exact match with punctuation", func(t *testing.T) {
		res := Search(records, Criteria{Query: "2049-3630", Type: SearchISSN})
		assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
	})

	t.Run("digit-only partial matches check-letter form", func(t *testing.T) {
		res := Search(records, Criteria{Query: "204936", Type: SearchISSN})
		assert.Equal(t, []string{"Aardvark Review", "Biology Letters"}, names(res.Journals))
	})

	t.Run("check letter is case-insensitive", func(t *testing.T) {
		res := Search(records, Criteria{Query: "2049363x", Type: SearchISSN})
		assert.Equal(t, []string{"Biology Letters"}, names(res.Journals))
	})
}

func TestSearch_Fee(t *testing.T) {
	records := sampleRecords()

	t.Run("range matches low fee only", func(t *testing.T) {
		res := Search(records, Criteria{Query: "0-50", Type: SearchFee})
		assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
	})

	t.Run("threshold matches either currency", func(t *testing.T) {
		res := Search(records, Criteria{Query: "5000", Type: SearchFee})
		// USD 45 and 120 are both under 5000; INR 4000 is too. The two
		// currency scales are deliberately not converted.
		assert.Len(t, res.Journals, 3)
	})

	t.Run("currency symbols are stripped from the query", func(t *testing.T) {
		res := Search(records, Criteria{Query: "$0-$50", Type: SearchFee})
		assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
	})

	t.Run("non-numeric query never matches", func(t *testing.T) {
		res := Search(records, Criteria{Query: "free", Type: SearchFee})
		assert.Empty(t, res.Journals)
	})

	t.Run("open-ended range", func(t *testing.T) {
		res := Search(records, Criteria{Query: "100-", Type: SearchFee})
		assert.Equal(t, []string{"Biology Letters", "3D Printing Journal"}, names(res.Journals))
	})
}

func TestSearch_Facets(t *testing.T) {
	records := sampleRecords()

	t.Run("areas OR within group", func(t *testing.T) {
		res := Search(records, Criteria{Areas: []string{"Biology", "Materials"}})
		assert.Equal(t, []string{"Biology Letters", "3D Printing Journal"}, names(res.Journals))
	})

	t.Run("indexing flags OR within group", func(t *testing.T) {
		res := Search(records, Criteria{Indexing: []string{"sci", "non"}})
		assert.Equal(t, []string{"Aardvark Review", "3D Printing Journal"}, names(res.Journals))
	})

	t.Run("groups AND together", func(t *testing.T) {
		res := Search(records, Criteria{
			Indexing:  []string{"sci", "non"},
			Quartiles: []string{"Q1"},
		})
		assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
	})

	t.Run("query ANDs with facets", func(t *testing.T) {
		res := Search(records, Criteria{
			Query:     "journal",
			Type:      SearchName,
			Quartiles: []string{"Q1"},
		})
		assert.Empty(t, res.Journals)
	})

	t.Run("hybrid toggle", func(t *testing.T) {
		res := Search(records, Criteria{HybridOnly: true})
		assert.Equal(t, []string{"Aardvark Review"}, names(res.Journals))
	})

	t.Run("open access tiers", func(t *testing.T) {
		res := Search(records, Criteria{OpenAccess: []string{"diamond"}})
		assert.Equal(t, []string{"3D Printing Journal"}, names(res.Journals))

		res = Search(records, Criteria{OpenAccess: []string{"gold", "diamond"}})
		assert.Equal(t, []string{"Aardvark Review", "3D Printing Journal"}, names(res.Journals))
	})

	t.Run("high impact threshold", func(t *testing.T) {
		res := Search(records, Criteria{HighImpactOnly: true})
		assert.Equal(t, []string{"Aardvark Review", "3D Printing Journal"}, names(res.Journals))
	})

	t.Run("subscription toggle", func(t *testing.T) {
		res := Search(records, Criteria{SubscriptionOnly: true})
		assert.Equal(t, []string{"Biology Letters"}, names(res.Journals))
	})
}

func TestSearch_PreservesRelativeOrder(t *testing.T) {
	records := []domain.Journal{
		{Name: "Delta", SubjectAreas: []string{"Physics"}},
		{Name: "Alpha", SubjectAreas: []string{"Physics"}},
		{Name: "Charlie", SubjectAreas: []string{"Physics"}},
	}

	res := Search(records, Criteria{Areas: []string{"Physics"}})
	assert.Equal(t, []string{"Delta", "Alpha", "Charlie"}, names(res.Journals))
}

func TestSearch_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := names(records)

	res := Search(records, Criteria{Query: "a", Type: SearchName})
	require.NotEmpty(t, res.Journals)
	res.Journals[0].Name = "mutated"

	assert.Equal(t, before, names(records))
}

func TestIsValidSearchType(t *testing.T) {
	assert.True(t, IsValidSearchType(SearchName))
	assert.True(t, IsValidSearchType(SearchFee))
	assert.False(t, IsValidSearchType(SearchType("doi")))
}
