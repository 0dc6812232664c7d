// internal/service/zone/cluster.go

package zone

import (
	"fmt"

	"denguecero/internal/domain/evaluation"
	zoneDomain "denguecero/internal/domain/zone"
	"denguecero/internal/service/geo"
)

// Normalize drops records that lack either coordinate, keeping order
func Normalize(records []evaluation.Record) []evaluation.Record {
	located := make([]evaluation.Record, 0, len(records))
	for _, r := range records {
		if r.HasCoordinates() {
			located = append(located, r)
		}
	}
	return located
}

func pointOf(r evaluation.Record) geo.Point {
	return geo.Point{Lat: *r.Latitude, Lng: *r.Longitude}
}

// ClusterRecords partitions records into seed-anchored clusters.
//
// Records are swept in order; the first unassigned record seeds a cluster and
// every later unassigned record within radiusKm of that seed joins it. Only
// the distance to the seed is checked, so members of one cluster may be more
// than radiusKm apart from each other. Records without coordinates are skipped.
// The returned clusters carry members only; see Aggregate.
func ClusterRecords(records []evaluation.Record, radiusKm float64) []zoneDomain.Cluster {
	located := Normalize(records)
	if len(located) == 0 {
		return nil
	}

	var clusters []zoneDomain.Cluster
	assigned := make([]bool, len(located))

	for i, seed := range located {
		if assigned[i] {
			continue
		}

		assigned[i] = true
		center := pointOf(seed)
		cluster := zoneDomain.Cluster{
			ID:        fmt.Sprintf("cluster_%d", i),
			CenterLat: center.Lat,
			CenterLng: center.Lng,
			Address:   seed.Address,
			Members:   []evaluation.Record{seed},
		}
		if cluster.Address == "" {
			cluster.Address = fmt.Sprintf("Zona %d", i+1)
		}

		for j := i + 1; j < len(located); j++ {
			if assigned[j] {
				continue
			}
			if geo.IsWithinRadius(center, pointOf(located[j]), radiusKm) {
				cluster.Members = append(cluster.Members, located[j])
				assigned[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
