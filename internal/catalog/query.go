package catalog

import (
	"strings"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// SearchType names the record field a free-text query is matched against.
type SearchType string

// Supported query-type selectors.
const (
	SearchName      SearchType = "name"
	SearchArea      SearchType = "area"
	SearchPublisher SearchType = "publisher"
	SearchAim       SearchType = "aim"
	SearchCountry   SearchType = "country"
	SearchISSN      SearchType = "issn"
	SearchFee       SearchType = "fee"
)

// IsValidSearchType reports whether t is a supported selector.
func IsValidSearchType(t SearchType) bool {
	switch t {
	case SearchName, SearchArea, SearchPublisher, SearchAim, SearchCountry, SearchISSN, SearchFee:
		return true
	}
	return false
}

// Criteria is the full filter state of one search interaction: a free-text
// query bound to exactly one selector, plus any number of checked facets.
// Facets are OR-combined within a group and AND-combined across groups and
// with the text query.
type Criteria struct {
	// Query is the free-text query string.
	Query string
	// Type selects the field Query is matched against.
	Type SearchType
	// Areas is the set of checked subject-area facets.
	Areas []string
	// Quartiles is the set of checked quartile facets (Q1..Q4).
	Quartiles []string
	// Indexing is the set of checked indexing facets (wos, sci, annexure, non).
	Indexing []string
	// OpenAccess is the set of checked open-access tiers (gold, diamond).
	OpenAccess []string
	// HybridOnly keeps only hybrid journals.
	HybridOnly bool
	// HighImpactOnly keeps only journals with impact factor >= 2.0.
	HighImpactOnly bool
	// SubscriptionOnly keeps only subscription journals.
	SubscriptionOnly bool
}

// HighImpactThreshold is the impact-factor floor for the high-impact toggle.
const HighImpactThreshold = 2.0

// HasFacets reports whether any facet filter is active.
func (c Criteria) HasFacets() bool {
	return len(c.Areas) > 0 || len(c.Quartiles) > 0 || len(c.Indexing) > 0 ||
		len(c.OpenAccess) > 0 || c.HybridOnly || c.HighImpactOnly || c.SubscriptionOnly
}

// IsEmpty reports whether the criteria carry no query and no facets: the
// not-yet-searched state.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == "" && !c.HasFacets()
}

// ResultState distinguishes a genuine result set from the prompt shown
// before the user has searched at all.
type ResultState string

const (
	// StatePrompt means no query and no facet was active; the caller should
	// prompt for input rather than render "0 results".
	StatePrompt ResultState = "prompt"
	// StateResults means a search ran; Journals may still be empty.
	StateResults ResultState = "results"
)

// Result is the outcome of one query-engine run.
type Result struct {
	State    ResultState
	Journals []domain.Journal
}

// Search computes the ordered subset of records matching all active
// constraints. It is a pure function: records are only read, relative order
// is preserved, and ties are never reordered. With empty criteria it returns
// the prompt state instead of an empty result set.
func Search(records []domain.Journal, c Criteria) Result {
	if c.IsEmpty() {
		return Result{State: StatePrompt}
	}

	results := records

	query := strings.ToLower(strings.TrimSpace(c.Query))
	if query != "" {
		results = filter(results, func(j *domain.Journal) bool {
			return matchText(j, c.Type, query)
		})
	}

	if len(c.Areas) > 0 {
		checked := toSet(c.Areas)
		results = filter(results, func(j *domain.Journal) bool {
			return anyInSet(j.SubjectAreas, checked)
		})
	}

	if len(c.Quartiles) > 0 {
		checked := toSet(c.Quartiles)
		results = filter(results, func(j *domain.Journal) bool {
			return anyInSet(j.Quartiles, checked)
		})
	}

	if len(c.Indexing) > 0 {
		checked := toSet(c.Indexing)
		results = filter(results, func(j *domain.Journal) bool {
			return matchIndexing(j, checked)
		})
	}

	if c.HybridOnly {
		results = filter(results, func(j *domain.Journal) bool { return j.IsHybrid })
	}

	if len(c.OpenAccess) > 0 {
		checked := toSet(c.OpenAccess)
		results = filter(results, func(j *domain.Journal) bool {
			if !j.HasOpenAccess() {
				return false
			}
			_, ok := checked[strings.ToLower(j.OpenAccess)]
			return ok
		})
	}

	if c.HighImpactOnly {
		results = filter(results, func(j *domain.Journal) bool {
			return j.ImpactFactorValue >= HighImpactThreshold
		})
	}

	if c.SubscriptionOnly {
		results = filter(results, func(j *domain.Journal) bool { return j.IsSubscription })
	}

	// Detach from the input slice so callers can sort freely.
	out := make([]domain.Journal, len(results))
	copy(out, results)

	return Result{State: StateResults, Journals: out}
}

// matchText applies the selector-dependent text-match rule. The query is
// already lower-cased and trimmed.
func matchText(j *domain.Journal, t SearchType, query string) bool {
	switch t {
	case SearchName:
		name := strings.ToLower(strings.TrimSpace(j.Name))
		// A single-character query is a prefix match so that typing the
		// first letter does not flood the results with mid-word hits.
		if len(query) == 1 {
			return strings.HasPrefix(name, query)
		}
		return strings.Contains(name, query)
	case SearchArea:
		for _, area := range j.SubjectAreas {
			if strings.Contains(strings.ToLower(area), query) {
				return true
			}
		}
		return false
	case SearchPublisher:
		return strings.Contains(strings.ToLower(strings.TrimSpace(j.Publisher)), query)
	case SearchAim:
		return strings.Contains(strings.ToLower(strings.TrimSpace(j.AimAndScope)), query)
	case SearchCountry:
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(j.Country)), query)
	case SearchISSN:
		return matchISSN(j.ISSN, query)
	case SearchFee:
		return matchFee(j, query)
	default:
		return false
	}
}

// matchISSN compares ISSNs with every character but digits and the check
// letter "x" stripped from both sides. A query that strips to nothing never
// matches, so a letters-only query cannot match the whole corpus.
func matchISSN(issn, query string) bool {
	cleanData := stripISSN(issn)
	cleanQuery := stripISSN(query)
	if cleanQuery == "" {
		return false
	}
	return strings.Contains(cleanData, cleanQuery)
}

func stripISSN(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('x')
		}
	}
	return b.String()
}

// Upper bound used when a fee range omits its maximum.
const feeRangeMax = 99999999

// matchFee interprets the query as a fee constraint. "min-max" is an
// inclusive range; a bare number is a maximum threshold. A journal matches
// when either its USD or its INR value satisfies the constraint; the two
// currencies are deliberately not converted (see DESIGN.md).
func matchFee(j *domain.Journal, query string) bool {
	clean := stripFeeQuery(query)
	if clean == "" {
		return false
	}

	usd, hasUSD := j.FeeUSDValue()
	inr, hasINR := j.FeeINRValue()
	if !hasUSD && !hasINR {
		return false
	}

	if strings.Contains(clean, "-") {
		parts := strings.SplitN(clean, "-", 2)
		min := domain.LooseFloat(parts[0])
		max := domain.LooseFloat(parts[1])
		if max == 0 {
			max = feeRangeMax
		}
		if hasUSD && usd >= min && usd <= max {
			return true
		}
		if hasINR && inr >= min && inr <= max {
			return true
		}
		return false
	}

	max := domain.LooseFloat(clean)
	if hasUSD && usd <= max {
		return true
	}
	if hasINR && inr <= max {
		return true
	}
	return false
}

func stripFeeQuery(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchIndexing reports whether the journal satisfies any checked indexing
// facet.
func matchIndexing(j *domain.Journal, checked map[string]struct{}) bool {
	if _, ok := checked["wos"]; ok && j.IsWoS {
		return true
	}
	if _, ok := checked["sci"]; ok && j.IsSCI {
		return true
	}
	if _, ok := checked["annexure"]; ok && j.IsAnnexure {
		return true
	}
	if _, ok := checked["non"]; ok && j.IsNonIndexing {
		return true
	}
	return false
}

func filter(records []domain.Journal, keep func(*domain.Journal) bool) []domain.Journal {
	out := make([]domain.Journal, 0, len(records))
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func anyInSet(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
