package catalog

import (
	"sort"
	"strings"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// SortKey names an ordering of a result set.
type SortKey string

// Supported sort keys.
const (
	// SortNameAsc orders alphabetically by name, A to Z.
	SortNameAsc SortKey = "az"
	// SortNameDesc orders alphabetically by name, Z to A.
	SortNameDesc SortKey = "za"
	// SortImpact orders by impact factor, highest first.
	SortImpact SortKey = "impact"
	// SortAcceptance orders by acceptance rate, highest first.
	SortAcceptance SortKey = "acceptance"
	// SortDuration orders by review duration, fastest first; unknown
	// durations sort last.
	SortDuration SortKey = "duration"
)

// IsValidSortKey reports whether k is a supported sort key.
func IsValidSortKey(k SortKey) bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortImpact, SortAcceptance, SortDuration:
		return true
	}
	return false
}

// Sort returns a stably ordered copy of records. The input slice is never
// mutated. An unrecognized key returns the records in their original order.
func Sort(records []domain.Journal, key SortKey) []domain.Journal {
	out := make([]domain.Journal, len(records))
	copy(out, records)

	switch key {
	case SortNameAsc, SortNameDesc:
		sort.SliceStable(out, func(i, k int) bool {
			return nameLess(&out[i], &out[k], key == SortNameDesc)
		})
	case SortImpact:
		sort.SliceStable(out, func(i, k int) bool {
			return out[i].ImpactFactorValue > out[k].ImpactFactorValue
		})
	case SortAcceptance:
		sort.SliceStable(out, func(i, k int) bool {
			return out[i].AcceptanceRateValue() > out[k].AcceptanceRateValue()
		})
	case SortDuration:
		sort.SliceStable(out, func(i, k int) bool {
			return out[i].ReviewDurationValue() < out[k].ReviewDurationValue()
		})
	}

	return out
}

// nameLess compares journal names case-insensitively. Names beginning with
// a digit sort after all alphabetic names regardless of direction.
func nameLess(a, b *domain.Journal, desc bool) bool {
	na := strings.TrimSpace(a.Name)
	nb := strings.TrimSpace(b.Name)

	numA := startsWithDigit(na)
	numB := startsWithDigit(nb)
	if numA != numB {
		return numB
	}

	la := strings.ToLower(na)
	lb := strings.ToLower(nb)
	if desc {
		return la > lb
	}
	return la < lb
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
