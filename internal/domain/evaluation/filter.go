// internal/domain/evaluation/filter.go

package evaluation

import (
	"time"
)

// DateFilter selects the trailing window of the dashboard map
type DateFilter string

// Date filters offered by the dashboard
const (
	DateLastWeek  DateFilter = "lastWeek"
	DateLastMonth DateFilter = "lastMonth"
	Date3Months   DateFilter = "3months"
	Date1Year     DateFilter = "1year"
	DateAll       DateFilter = "all"
)

// RiskAll disables the risk-level filter
const RiskAll = "all"

const day = 24 * time.Hour

// Window returns the length of the trailing window, or 0 for all time.
// Unrecognised filters fall back to all time.
func (d DateFilter) Window() time.Duration {
	switch d {
	case DateLastWeek:
		return 7 * day
	case DateLastMonth:
		return 30 * day
	case Date3Months:
		return 90 * day
	case Date1Year:
		return 365 * day
	}
	return 0
}

// Filter is the dashboard map filter as requested by a caller
type Filter struct {
	DateFilter DateFilter `json:"dateFilter"`
	RiskLevel  string     `json:"riskLevel"`
}

// ParseFilter applies defaults and validates the risk level
func ParseFilter(dateFilter, riskLevel string) (Filter, error) {
	f := Filter{
		DateFilter: DateFilter(dateFilter),
		RiskLevel:  riskLevel,
	}
	if f.DateFilter == "" {
		f.DateFilter = DateLastWeek
	}
	if f.RiskLevel == "" {
		f.RiskLevel = RiskAll
	}
	if f.RiskLevel != RiskAll && !RiskLevel(f.RiskLevel).Valid() {
		return Filter{}, ErrInvalidRiskLevel
	}
	return f, nil
}

// Query resolves the filter against now into a persistence query
func (f Filter) Query(now time.Time) Query {
	q := Query{From: time.Unix(0, 0).UTC()}
	if w := f.DateFilter.Window(); w > 0 {
		q.From = now.Add(-w)
	}
	if f.RiskLevel != "" && f.RiskLevel != RiskAll {
		level := RiskLevel(f.RiskLevel)
		q.RiskLevel = &level
	}
	return q
}
