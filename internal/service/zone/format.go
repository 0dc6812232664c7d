// internal/service/zone/format.go

package zone

import (
	"math"
	"sort"

	"denguecero/internal/domain/evaluation"
	zoneDomain "denguecero/internal/domain/zone"
)

// Map colors per risk level
const (
	ColorHigh    = "#ef4444"
	ColorMedium  = "#eab308"
	ColorLow     = "#22c55e"
	ColorUnknown = "#6b7280"
)

// RiskColor returns the map color for a risk level
func RiskColor(level evaluation.RiskLevel) string {
	switch level {
	case evaluation.RiskHigh:
		return ColorHigh
	case evaluation.RiskMedium:
		return ColorMedium
	case evaluation.RiskLow:
		return ColorLow
	default:
		return ColorUnknown
	}
}

// roundTenth rounds half up to one decimal place
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Build clusters and aggregates records in one pass
func Build(records []evaluation.Record, radiusKm float64) []zoneDomain.Cluster {
	clusters := ClusterRecords(records, radiusKm)
	for i := range clusters {
		Aggregate(&clusters[i])
	}
	return clusters
}

// FormatZone maps an aggregated cluster to its display form
func FormatZone(c zoneDomain.Cluster) zoneDomain.Stat {
	risk := c.DominantRisk
	if risk == "" {
		risk = evaluation.RiskLow
	}

	return zoneDomain.Stat{
		Name:  c.Address,
		Cases: c.TotalCases,
		Risk:  risk,
		Color: RiskColor(risk),
		Coordinates: zoneDomain.Coordinates{
			Lat: c.CenterLat,
			Lng: c.CenterLng,
		},
		Details: zoneDomain.Details{
			RiskBreakdown:      c.RiskLevels,
			AverageTemperature: roundTenth(c.AverageTemp),
			LastUpdate:         c.LastUpdate,
		},
	}
}

// FormatZones maps every cluster in order
func FormatZones(clusters []zoneDomain.Cluster) []zoneDomain.Stat {
	stats := make([]zoneDomain.Stat, 0, len(clusters))
	for _, c := range clusters {
		stats = append(stats, FormatZone(c))
	}
	return stats
}

// TopZones returns the n zones with the most cases, keeping the input order
// among equal counts. n <= 0 returns every zone. The input is not modified.
func TopZones(stats []zoneDomain.Stat, n int) []zoneDomain.Stat {
	ranked := make([]zoneDomain.Stat, len(stats))
	copy(ranked, stats)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Cases > ranked[j].Cases
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TotalCases sums cases over zones
func TotalCases(stats []zoneDomain.Stat) int {
	total := 0
	for _, s := range stats {
		total += s.Cases
	}
	return total
}
