// Package distanceclosure closes a raw, possibly non-metric pairwise
// distance matrix under shortest paths: for every pair of locations it
// finds the true shortest-path distance, superseding any direct edge a
// shorter detour beats.
package distanceclosure

import (
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"

	"cvrptw-solver/internal/domain"
)

// distanceScale converts fractional road-network mileages into the int64
// edge weights github.com/katalvlaran/lvlath/core requires, and back.
const distanceScale = 1e6

// Close takes the raw adjacency (locationID -> peerID -> distance, possibly
// lower-triangular/asymmetric) and returns the fully closed matrix where
// every entry is the true shortest-path distance. Unreachable pairs read as
// +Inf.
func Close(raw map[int]map[int]float64) map[int]map[int]float64 {
	g := core.NewGraph(core.WithWeighted())

	ids := make([]int, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		_ = g.AddVertex(vertexID(id))
	}

	seen := make(map[[2]int]bool)
	for _, from := range ids {
		for to, dist := range raw[from] {
			if from == to || dist <= 0 {
				continue
			}
			key := [2]int{from, to}
			rev := [2]int{to, from}
			if seen[key] || seen[rev] {
				continue
			}
			// Symmetrize: if both directions were supplied, take the
			// smaller (the loader may hand us a lower-triangular matrix
			// with zeros elsewhere, per spec.md §6).
			weight := dist
			if revDist, ok := raw[to][from]; ok && revDist > 0 && revDist < weight {
				weight = revDist
			}
			if !g.HasEdge(vertexID(from), vertexID(to)) {
				_, _ = g.AddEdge(vertexID(from), vertexID(to), int64(weight*distanceScale))
			}
			seen[key] = true
		}
	}

	closed := make(map[int]map[int]float64, len(ids))
	for _, source := range ids {
		dists, _, err := dijkstra.Dijkstra(g, dijkstra.Source(vertexID(source)))
		row := make(map[int]float64, len(ids))
		for _, target := range ids {
			if source == target {
				row[target] = 0
				continue
			}
			if err != nil {
				row[target] = math.Inf(1)
				continue
			}
			d, ok := dists[vertexID(target)]
			if !ok {
				row[target] = math.Inf(1)
				continue
			}
			row[target] = float64(d) / distanceScale
		}
		closed[source] = row
	}
	return closed
}

// Apply installs the closed matrix into each Location's Distances field.
func Apply(locations map[int]*domain.Location, closed map[int]map[int]float64) {
	for id, loc := range locations {
		loc.Distances = closed[id]
	}
}

func vertexID(id int) string {
	return strconv.Itoa(id)
}
