// internal/domain/evaluation/model.go

package evaluation

import (
	"errors"
	"math"
	"time"
)

// RiskLevel is the precomputed risk of a single self-assessment
type RiskLevel string

// Risk levels
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists the known levels in ascending priority
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// ErrInvalidRiskLevel is returned when a risk filter names an unknown level
var ErrInvalidRiskLevel = errors.New("invalid risk level")

// Valid reports whether r is one of the known levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Priority orders levels for tie-breaks: high > medium > low > unknown
func (r RiskLevel) Priority() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// Record is one georeferenced self-assessment as supplied by persistence
type Record struct {
	ID          string    `json:"id"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"createdAt"`
	Address     string    `json:"address,omitempty"`
}

// HasCoordinates reports whether the record can take part in clustering.
// Missing and non-finite coordinates both make a record unclusterable.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil &&
		isFinite(*r.Latitude) && isFinite(*r.Longitude)
}

// HasTemperature reports whether the temperature can be averaged
func (r Record) HasTemperature() bool {
	return isFinite(r.Temperature)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Query is what the persistence layer needs to fetch records
type Query struct {
	From      time.Time
	To        time.Time  // zero means open-ended
	RiskLevel *RiskLevel // nil means all levels
}
