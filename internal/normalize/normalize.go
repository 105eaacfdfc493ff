// Package normalize converts loosely-typed source rows into canonical
// Journal records. Source columns drift in naming, casing, and punctuation
// across spreadsheet revisions, so field lookup is alias-driven and fuzzy:
// a canonical field maps to an ordered list of alias substrings, and the
// first row key containing any alias (case-insensitively) wins.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// Alias lists per canonical field. Order matters: earlier aliases are the
// preferred column names.
var (
	aliasName        = []string{"Journal Name", "Title", "Name"}
	aliasISSN        = []string{"ISSN"}
	aliasPublisher   = []string{"Publisher"}
	aliasArea        = []string{"Subject Area", "Area"}
	aliasCountry     = []string{"Country"}
	aliasImpact      = []string{"Impact Factor", "Impact"}
	aliasAcceptance  = []string{"Acceptance Rate"}
	aliasDuration    = []string{"Time", "Duration"}
	aliasEditor      = []string{"Editor"}
	aliasCoEditor    = []string{"Co-Editor"}
	aliasAim         = []string{"Aim", "Scope"}
	aliasGuidelines  = []string{"Guide"}
	aliasFeeUSD      = []string{"USD"}
	aliasFeeINR      = []string{"Rs", "INR"}
	aliasQuartile    = []string{"Quartile"}
	aliasIndexing    = []string{"Indexing"}
	aliasSCI         = []string{"SCI"}
	aliasWoS         = []string{"WoS"}
	aliasAnnexure    = []string{"Annexure"}
	aliasNonIndexing = []string{"Non Indexing"}
	aliasHybrid      = []string{"Hybrid"}
	aliasMode        = []string{"Mode"}
	aliasSub         = []string{"Subscription", "Mode", "Type"}
	aliasSubOnly     = []string{"Subscription"}
	aliasAccess      = []string{"Access", "Open"}
)

var areaSplitRx = regexp.MustCompile(`[,;&\n]`)

// Normalize converts one raw source row into a canonical Journal. It never
// fails: a missing or malformed field degrades to an empty string, zero,
// false, or a fallback sentinel rather than aborting the batch. Normalizing
// the same row twice yields identical journals.
func Normalize(row domain.RawRow) domain.Journal {
	r := newRowReader(row)

	var j domain.Journal

	j.Name = r.get(aliasName)
	if j.Name == "" {
		j.Name = domain.UnknownJournalName
	}
	j.ISSN = r.get(aliasISSN)
	j.Publisher = r.get(aliasPublisher)
	j.Country = r.get(aliasCountry)

	j.ImpactFactor = r.get(aliasImpact)
	j.ImpactFactorValue = domain.LooseFloat(j.ImpactFactor)
	j.AcceptanceRate = r.get(aliasAcceptance)
	j.ReviewDuration = r.get(aliasDuration)

	j.Editor = r.get(aliasEditor)
	j.CoEditor = r.get(aliasCoEditor)
	j.AimAndScope = r.get(aliasAim)
	j.Guidelines = r.get(aliasGuidelines)
	j.FeeUSD = r.get(aliasFeeUSD)
	j.FeeINR = r.get(aliasFeeINR)

	j.SubjectAreas = splitAreas(r.get(aliasArea))
	j.Quartiles = quartiles(r)

	indexing := strings.ToLower(r.get(aliasIndexing))
	j.IsSCI = affirmative(r.get(aliasSCI)) || strings.Contains(indexing, "sci")
	j.IsWoS = affirmative(r.get(aliasWoS)) || strings.Contains(indexing, "wos")
	j.IsAnnexure = affirmative(r.get(aliasAnnexure)) || strings.Contains(indexing, "annex")
	j.IsNonIndexing = affirmative(r.get(aliasNonIndexing)) || strings.Contains(indexing, "non")

	j.IsHybrid = affirmative(r.get(aliasHybrid)) ||
		strings.Contains(strings.ToLower(r.get(aliasMode)), "hybrid")

	subVal := strings.ToLower(r.get(aliasSub))
	j.IsSubscription = strings.Contains(subVal, "subscription") || affirmative(r.get(aliasSubOnly))

	// Gold is checked before diamond; the first match wins even when the
	// access text mentions both tiers.
	oaVal := strings.ToLower(r.get(aliasAccess))
	switch {
	case strings.Contains(oaVal, "gold"):
		j.OpenAccess = domain.OpenAccessGold
	case strings.Contains(oaVal, "diamond"):
		j.OpenAccess = domain.OpenAccessDiamond
	}

	if j.IsSCI {
		j.AvailableIn = append(j.AvailableIn, "SCI")
	}
	if j.IsWoS {
		j.AvailableIn = append(j.AvailableIn, "WoS")
	}
	if j.IsAnnexure {
		j.AvailableIn = append(j.AvailableIn, "Annexure")
	}
	if j.IsNonIndexing {
		j.AvailableIn = append(j.AvailableIn, "Non-Indexing")
	}

	j.ColorHash = (len(j.Name) * 50) % 360

	return j
}

// Batch normalizes a slice of raw rows.
func Batch(rows []domain.RawRow) []domain.Journal {
	journals := make([]domain.Journal, 0, len(rows))
	for _, row := range rows {
		journals = append(journals, Normalize(row))
	}
	return journals
}

// rowReader wraps a raw row with its keys pre-sorted so alias lookup is
// deterministic regardless of map iteration order.
type rowReader struct {
	row  domain.RawRow
	keys []string
}

func newRowReader(row domain.RawRow) rowReader {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return rowReader{row: row, keys: keys}
}

// get returns the trimmed value of the first row key whose lowercased name
// contains any of the aliases as a substring, or "" when none match.
func (r rowReader) get(aliases []string) string {
	for _, key := range r.keys {
		lk := strings.ToLower(key)
		for _, alias := range aliases {
			if strings.Contains(lk, strings.ToLower(alias)) {
				return coerceString(r.row[key])
			}
		}
	}
	return ""
}

// coerceString renders a loosely-typed cell value as a trimmed string.
// Falsy values (false, 0, nil, blank) render as "", matching the permissive
// coercion of the spreadsheet source.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case bool:
		if val {
			return "true"
		}
		return ""
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case nil:
		return ""
	default:
		return ""
	}
}

// affirmative reports whether a boolean-ish display value affirms the field:
// it contains "yes" or "true", case-insensitively.
func affirmative(v string) bool {
	lv := strings.ToLower(v)
	return strings.Contains(lv, "yes") || strings.Contains(lv, "true")
}

// splitAreas derives the subject-area set from a delimited field. Fragments
// of length <= 2 are discarded; a blank field or one with no qualifying
// fragment falls back to the general area so the set is never empty.
func splitAreas(raw string) []string {
	var areas []string
	for _, frag := range areaSplitRx.Split(raw, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) > 2 {
			areas = append(areas, frag)
		}
	}
	if len(areas) == 0 {
		return []string{domain.FallbackSubjectArea}
	}
	return areas
}

// quartiles derives the ranking-tier set: a quartile is present when its
// dedicated boolean-ish field affirms it or the free-text quartile field
// mentions the tier token.
func quartiles(r rowReader) []string {
	qText := strings.ToUpper(r.get(aliasQuartile))
	var qs []string
	for _, q := range []string{"Q1", "Q2", "Q3", "Q4"} {
		if affirmative(r.get([]string{q})) || strings.Contains(qText, q) {
			qs = append(qs, q)
		}
	}
	return qs
}
