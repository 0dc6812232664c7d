package zone

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"denguecero/internal/domain/evaluation"
	"denguecero/internal/service/geo"
)

var (
	tumbes = geo.Point{Lat: -3.5669, Lng: -80.4515}
	epoch  = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
)

func float(v float64) *float64 { return &v }

func record(id string, risk evaluation.RiskLevel, p geo.Point) evaluation.Record {
	return evaluation.Record{
		ID:          id,
		RiskLevel:   risk,
		Latitude:    float(p.Lat),
		Longitude:   float(p.Lng),
		Temperature: 37.0,
		CreatedAt:   epoch,
	}
}

func memberIDs(members []evaluation.Record) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestClusterRecords_Empty(t *testing.T) {
	assert.Empty(t, ClusterRecords(nil, 0.5))
	assert.Empty(t, ClusterRecords([]evaluation.Record{}, 0.5))
}

func TestClusterRecords_Single(t *testing.T) {
	clusters := ClusterRecords([]evaluation.Record{record("a", evaluation.RiskLow, tumbes)}, 0.5)

	require.Len(t, clusters, 1)
	assert.Equal(t, "cluster_0", clusters[0].ID)
	assert.Equal(t, tumbes.Lat, clusters[0].CenterLat)
	assert.Equal(t, tumbes.Lng, clusters[0].CenterLng)
	assert.Equal(t, []string{"a"}, memberIDs(clusters[0].Members))
}

func TestClusterRecords_SkipsRecordsWithoutCoordinates(t *testing.T) {
	noLat := record("no-lat", evaluation.RiskHigh, tumbes)
	noLat.Latitude = nil
	noLng := record("no-lng", evaluation.RiskHigh, tumbes)
	noLng.Longitude = nil

	records := []evaluation.Record{
		noLat,
		record("a", evaluation.RiskLow, tumbes),
		noLng,
	}

	clusters := ClusterRecords(records, 0.5)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"a"}, memberIDs(clusters[0].Members))
}

func TestClusterRecords_SkipsNonFiniteCoordinates(t *testing.T) {
	nanLat := record("nan-lat", evaluation.RiskHigh, tumbes)
	nanLat.Latitude = float(math.NaN())
	infLng := record("inf-lng", evaluation.RiskHigh, tumbes)
	infLng.Longitude = float(math.Inf(-1))

	records := []evaluation.Record{
		record("a", evaluation.RiskLow, tumbes),
		nanLat,
		infLng,
	}

	clusters := ClusterRecords(records, 0.5)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"a"}, memberIDs(clusters[0].Members))
	assert.Equal(t, []string{"a"}, memberIDs(Normalize(records)))
}

func TestClusterRecords_SeedRadiusScenario(t *testing.T) {
	first := record("first", evaluation.RiskHigh, tumbes)
	second := record("second", evaluation.RiskLow, geo.Offset(tumbes, 0.6, 0))
	third := record("third", evaluation.RiskMedium, geo.Offset(tumbes, 0, 0.1))

	clusters := ClusterRecords([]evaluation.Record{first, second, third}, 0.5)

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"first", "third"}, memberIDs(clusters[0].Members))
	assert.Equal(t, tumbes.Lat, clusters[0].CenterLat)
	assert.Equal(t, []string{"second"}, memberIDs(clusters[1].Members))
	assert.Equal(t, "cluster_1", clusters[1].ID)
}

func TestClusterRecords_NotTransitive(t *testing.T) {
	a := record("a", evaluation.RiskLow, tumbes)
	b := record("b", evaluation.RiskLow, geo.Offset(tumbes, 0.4, 0))
	c := record("c", evaluation.RiskLow, geo.Offset(tumbes, 0.8, 0))

	clusters := ClusterRecords([]evaluation.Record{a, b, c}, 0.5)

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a", "b"}, memberIDs(clusters[0].Members))
	assert.Equal(t, []string{"c"}, memberIDs(clusters[1].Members))

	// Seeding from the middle point pulls both neighbours in.
	clusters = ClusterRecords([]evaluation.Record{b, a, c}, 0.5)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"b", "a", "c"}, memberIDs(clusters[0].Members))
}

func TestClusterRecords_AddressFallback(t *testing.T) {
	named := record("named", evaluation.RiskLow, tumbes)
	named.Address = "Av. Tumbes Norte 120"
	far := record("far", evaluation.RiskLow, geo.Offset(tumbes, 5, 0))

	clusters := ClusterRecords([]evaluation.Record{named, far}, 0.5)

	require.Len(t, clusters, 2)
	assert.Equal(t, "Av. Tumbes Norte 120", clusters[0].Address)
	assert.Equal(t, "Zona 2", clusters[1].Address)
}

func TestClusterRecords_PartitionAndSeedRadius(t *testing.T) {
	const radius = 0.5

	var records []evaluation.Record
	for i := 0; i < 40; i++ {
		// spread points over a ~3km x 3km grid with some repeats
		p := geo.Offset(tumbes, float64(i%7)*0.45, float64(i%5)*0.6)
		records = append(records, record(fmt.Sprintf("r%02d", i), evaluation.RiskLow, p))
	}
	missing := record("missing", evaluation.RiskHigh, tumbes)
	missing.Longitude = nil
	records = append(records, missing)

	clusters := ClusterRecords(records, radius)

	seen := make(map[string]int)
	for _, c := range clusters {
		require.NotEmpty(t, c.Members)
		seed := geo.Point{Lat: c.CenterLat, Lng: c.CenterLng}
		assert.Equal(t, seed, pointOf(c.Members[0]), "seed must be the first member")

		for _, m := range c.Members {
			seen[m.ID]++
			assert.LessOrEqual(t, geo.HaversineKm(seed, pointOf(m)), radius+1e-9)
		}
	}

	assert.Len(t, seen, 40)
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s assigned %d times", id, n)
	}
	assert.NotContains(t, seen, "missing")
}

func TestNormalize(t *testing.T) {
	noCoords := evaluation.Record{ID: "x"}
	records := []evaluation.Record{
		record("a", evaluation.RiskLow, tumbes),
		noCoords,
		record("b", evaluation.RiskLow, tumbes),
	}

	assert.Equal(t, []string{"a", "b"}, memberIDs(Normalize(records)))
	assert.Empty(t, Normalize(nil))
}
