// Package domain provides domain models and business logic for the Journal Catalog Service.
package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Open access tier constants.
const (
	// OpenAccessGold indicates a gold open-access publication model.
	OpenAccessGold = "Gold"
	// OpenAccessDiamond indicates a diamond open-access publication model.
	OpenAccessDiamond = "Diamond"
)

// UnknownJournalName is the sentinel used when a source row carries no
// recognizable name field.
const UnknownJournalName = "Unknown Journal"

// FallbackSubjectArea is the subject area assigned when a source row yields
// no qualifying area fragment.
const FallbackSubjectArea = "General"

// RawRow is one unnormalized source record: a mapping from an unconstrained
// set of column names to loosely-typed values. Rows come from the remote
// spreadsheet API, the bundled dataset, or the add-journal form, and no
// fixed shape is ever assumed.
type RawRow map[string]any

// Journal is the canonical normalized record used by all query, sort, and
// presentation logic. All derived fields (subject areas, quartiles, indexing
// flags, access model) are computed once at normalization time and never
// recomputed later.
type Journal struct {
	// Name is the journal title. Never empty; falls back to UnknownJournalName.
	Name string `json:"name"`
	// ISSN is the serial number as it appeared in the source (digits plus an
	// optional trailing check letter, punctuation preserved).
	ISSN string `json:"issn"`
	// Publisher is the publishing house.
	Publisher string `json:"publisher"`
	// Country is the country of publication.
	Country string `json:"country"`

	// SubjectAreas is the ordered set of subject areas. Always non-empty;
	// falls back to [FallbackSubjectArea].
	SubjectAreas []string `json:"subject_areas"`
	// Quartiles holds the ranking tiers the journal belongs to (Q1..Q4).
	Quartiles []string `json:"quartiles"`

	// ImpactFactor is the impact factor display string.
	ImpactFactor string `json:"impact_factor"`
	// ImpactFactorValue is the parsed non-negative impact factor; 0 when the
	// display string is unparseable.
	ImpactFactorValue float64 `json:"impact_factor_value"`
	// AcceptanceRate is the acceptance rate display string.
	AcceptanceRate string `json:"acceptance_rate"`
	// ReviewDuration is the review/publication duration display string.
	ReviewDuration string `json:"review_duration"`

	// Indexing flags, each derived from a dedicated boolean-ish field or
	// from the shared free-text "Indexing" field.
	IsSCI         bool `json:"is_sci"`
	IsWoS         bool `json:"is_wos"`
	IsAnnexure    bool `json:"is_annexure"`
	IsNonIndexing bool `json:"is_non_indexing"`

	// IsHybrid reports a hybrid access model.
	IsHybrid bool `json:"is_hybrid"`
	// IsSubscription reports a subscription access model.
	IsSubscription bool `json:"is_subscription"`
	// OpenAccess is the open-access tier (OpenAccessGold, OpenAccessDiamond,
	// or empty when none applies).
	OpenAccess string `json:"open_access,omitempty"`

	// FeeUSD and FeeINR are publication fee display strings; they may hold
	// currency symbols or "Free" and are parsed permissively at query time.
	FeeUSD string `json:"fee_usd"`
	FeeINR string `json:"fee_inr"`

	// Editorial metadata, free text used for display and substring search.
	Editor      string `json:"editor"`
	CoEditor    string `json:"co_editor"`
	AimAndScope string `json:"aim_and_scope"`
	Guidelines  string `json:"guidelines"`

	// AvailableIn lists the indexing services the journal is available in,
	// derived from the indexing flags for display.
	AvailableIn []string `json:"available_in"`
	// ColorHash is an integer in [0,360) derived from the name, used only
	// for card coloring.
	ColorHash int `json:"color_hash"`
}

// Key returns the journal's deduplication identity: the lower-cased,
// trimmed name. The record store holds at most one journal per key.
func (j *Journal) Key() string {
	return strings.ToLower(strings.TrimSpace(j.Name))
}

// HasOpenAccess reports whether an open-access tier was derived.
func (j *Journal) HasOpenAccess() bool {
	return j.OpenAccess != ""
}

var (
	nonNumericRx = regexp.MustCompile(`[^0-9.]`)
	leadingIntRx = regexp.MustCompile(`^[0-9]+`)
	floatRx      = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)
)

// LooseFloat parses a display string as a non-negative float after stripping
// every character that is not a digit or a dot. If the stripped string is not
// a valid float, the first valid float found in it is used. Returns 0 when
// nothing parses.
func LooseFloat(s string) float64 {
	stripped := nonNumericRx.ReplaceAllString(s, "")
	if v, err := strconv.ParseFloat(stripped, 64); err == nil {
		return v
	}
	if m := floatRx.FindString(stripped); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return 0
}

// LeadingFloat parses the leading float of a display string, the way a
// permissive numeric coercion reads "12.5%" as 12.5. Returns 0 when the
// string does not start with a number.
func LeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// FeeUSDValue returns the numeric USD fee parsed permissively from the
// display string. The second return is false when no positive value could
// be parsed ("Free", blank, or symbols only).
func (j *Journal) FeeUSDValue() (float64, bool) {
	return feeValue(j.FeeUSD)
}

// FeeINRValue returns the numeric INR fee parsed permissively from the
// display string. The second return is false when no positive value could
// be parsed.
func (j *Journal) FeeINRValue() (float64, bool) {
	return feeValue(j.FeeINR)
}

func feeValue(s string) (float64, bool) {
	v := LooseFloat(s)
	if v == 0 {
		return 0, false
	}
	return v, true
}

// AcceptanceRateValue returns the leading numeric portion of the acceptance
// rate display string; 0 when absent or unparseable.
func (j *Journal) AcceptanceRateValue() float64 {
	return LeadingFloat(j.AcceptanceRate)
}

// DurationSentinel sorts journals with an unknown review duration after
// every journal with a known one.
const DurationSentinel = 999

// ReviewDurationValue returns the leading integer of the review duration
// display string ("3-6 months" reads as 3). Returns DurationSentinel when
// the string does not start with a digit, so unknown durations sort last.
func (j *Journal) ReviewDurationValue() int {
	m := leadingIntRx.FindString(strings.TrimSpace(j.ReviewDuration))
	if m == "" {
		return DurationSentinel
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return DurationSentinel
	}
	return v
}
