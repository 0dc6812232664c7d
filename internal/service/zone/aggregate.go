// internal/service/zone/aggregate.go

package zone

import (
	"sort"
	"time"

	"denguecero/internal/domain/evaluation"
	zoneDomain "denguecero/internal/domain/zone"
)

// Aggregate fills the derived statistics of a populated cluster
func Aggregate(c *zoneDomain.Cluster) {
	c.RiskLevels = zoneDomain.RiskBreakdown{}
	c.TotalCases = len(c.Members)
	c.AverageTemp = 0
	c.LastUpdate = time.Time{}

	if c.TotalCases == 0 {
		c.DominantRisk = evaluation.RiskLow
		return
	}

	var sum float64
	measured := 0
	last := c.Members[0].CreatedAt
	for _, m := range c.Members {
		c.RiskLevels.Add(m.RiskLevel)
		// unreadable temperatures still count as cases
		if m.HasTemperature() {
			sum += m.Temperature
			measured++
		}
		if m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
	}

	if measured > 0 {
		c.AverageTemp = sum / float64(measured)
	}
	c.LastUpdate = last
	c.DominantRisk = DominantRisk(c.RiskLevels)
}

// DominantRisk picks the representative level of a breakdown.
//
// Levels with members are ranked by count, ties going to the higher level.
// When high and low are equally represented and medium is absent the result
// is medium. An empty breakdown yields low.
func DominantRisk(b zoneDomain.RiskBreakdown) evaluation.RiskLevel {
	if b.High > 0 && b.Low > 0 && b.High == b.Low && b.Medium == 0 {
		return evaluation.RiskMedium
	}

	present := make([]evaluation.RiskLevel, 0, len(evaluation.RiskLevels))
	for _, level := range evaluation.RiskLevels {
		if b.Count(level) > 0 {
			present = append(present, level)
		}
	}
	if len(present) == 0 {
		return evaluation.RiskLow
	}

	sort.Slice(present, func(i, j int) bool {
		ci, cj := b.Count(present[i]), b.Count(present[j])
		if ci != cj {
			return ci > cj
		}
		return present[i].Priority() > present[j].Priority()
	})

	return present[0]
}

// RiskDistribution counts records per level over a whole record set
func RiskDistribution(records []evaluation.Record) map[evaluation.RiskLevel]int {
	dist := make(map[evaluation.RiskLevel]int)
	for _, r := range records {
		dist[r.RiskLevel]++
	}
	return dist
}
