// internal/domain/zone/model.go

package zone

import (
	"time"

	"denguecero/internal/domain/evaluation"
)

// RiskBreakdown counts cluster members per risk level
type RiskBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Add counts one member at the given level; unknown levels are ignored
func (b *RiskBreakdown) Add(level evaluation.RiskLevel) {
	switch level {
	case evaluation.RiskLow:
		b.Low++
	case evaluation.RiskMedium:
		b.Medium++
	case evaluation.RiskHigh:
		b.High++
	}
}

// Count returns the number of members at the given level
func (b RiskBreakdown) Count(level evaluation.RiskLevel) int {
	switch level {
	case evaluation.RiskLow:
		return b.Low
	case evaluation.RiskMedium:
		return b.Medium
	case evaluation.RiskHigh:
		return b.High
	}
	return 0
}

// Cluster is a group of records anchored on its seed record
type Cluster struct {
	ID           string               `json:"id"`
	CenterLat    float64              `json:"centerLat"`
	CenterLng    float64              `json:"centerLng"`
	Address      string               `json:"address"`
	Members      []evaluation.Record  `json:"-"`
	RiskLevels   RiskBreakdown        `json:"riskLevels"`
	TotalCases   int                  `json:"totalCases"`
	AverageTemp  float64              `json:"averageTemp"`
	LastUpdate   time.Time            `json:"lastUpdate"`
	DominantRisk evaluation.RiskLevel `json:"dominantRisk"`
}

// Coordinates is a display point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Details is the per-zone breakdown shown in map popups
type Details struct {
	RiskBreakdown      RiskBreakdown `json:"riskBreakdown"`
	AverageTemperature float64       `json:"averageTemperature"`
	LastUpdate         time.Time     `json:"lastUpdate"`
}

// Stat is the display-ready form of a cluster
type Stat struct {
	Name        string               `json:"name"`
	Cases       int                  `json:"cases"`
	Risk        evaluation.RiskLevel `json:"risk"`
	Color       string               `json:"color"`
	Coordinates Coordinates          `json:"coordinates"`
	Details     Details              `json:"details"`
}

// DateRange is the resolved time window of a request
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AppliedFilters echoes the filters used to build a map
type AppliedFilters struct {
	evaluation.Filter
	DateRange DateRange `json:"dateRange"`
}

// MapMetadata summarises a full-mode map
type MapMetadata struct {
	TotalPoints      int                          `json:"totalPoints"`
	Clusters         int                          `json:"clusters"`
	TotalZones       int                          `json:"totalZones"`
	TotalCases       int                          `json:"totalCases"`
	RiskDistribution map[evaluation.RiskLevel]int `json:"riskDistribution"`
}

// MapData is the full (dashboard) result
type MapData struct {
	Points    []Cluster      `json:"points"`
	ZoneStats []Stat         `json:"zoneStats"`
	Filters   AppliedFilters `json:"filters"`
	Metadata  MapMetadata    `json:"metadata"`
}

// PublicMetadata summarises a public summary
type PublicMetadata struct {
	TotalZones    int       `json:"totalZones"`
	TotalCases    int       `json:"totalCases"`
	LastUpdated   time.Time `json:"lastUpdated"`
	PeriodCovered string    `json:"periodCovered"`
}

// PublicSummary is the public (landing page) result
type PublicSummary struct {
	Success   bool           `json:"success"`
	ZoneStats []Stat         `json:"zoneStats"`
	Metadata  PublicMetadata `json:"metadata"`
	Error     string         `json:"error,omitempty"`
}

// SummaryEvent is published whenever the public summary changes
type SummaryEvent struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Time    time.Time      `json:"time"`
	Summary *PublicSummary `json:"summary"`
}
