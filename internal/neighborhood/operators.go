// Package neighborhood implements the twelve reversible move operators that
// produce a neighbor plan from a current one, each copy-on-write on only
// the one or two routes it touches, plus the operator-shuffling generator
// the annealing driver consumes.
package neighborhood

import (
	"math/rand"
	"sort"

	"cvrptw-solver/internal/domain"
)

// Operator mutates one plan into a neighbor, or returns (nil, false) when
// it cannot apply (e.g. a route too short for the move).
type Operator func(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool)

// withRoute returns a clone of plan with routeIdx replaced by newRoute.
func withRoute(plan domain.Plan, routeIdx int, newRoute *domain.Route) domain.Plan {
	out := plan.Clone()
	out[routeIdx] = newRoute
	return out
}

// LocalFlip is the 2-opt operator: pick one route, pick two indices i<j,
// reverse the segment [i, j).
func LocalFlip(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	if route.Len() < 2 {
		return nil, false
	}
	newRoute := route.CloneWithPackages()

	idx1 := 1 + rng.Intn(newRoute.Len())
	idx2 := 1 + rng.Intn(newRoute.Len())
	for idx2 == idx1 {
		idx2 = 1 + rng.Intn(newRoute.Len())
	}
	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}
	reverseInto(newRoute.Packages, idx1, idx2, route.Packages)
	return withRoute(plan, routeIdx, newRoute), true
}

func reverseInto(dst []*domain.Package, lo, hi int, src []*domain.Package) {
	j := hi - 1
	for i := lo; i < hi; i++ {
		dst[i] = src[j]
		j--
	}
}

// LocalThreeOpt is strict 3-opt: three cut points, one of the four
// non-2-opt reconnections chosen uniformly at random.
func LocalThreeOpt(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	n := route.Len()
	if n < 3 {
		return nil, false
	}

	cuts := rng.Perm(n)[:3]
	sort.Ints(cuts)
	a, c, e := cuts[0], cuts[1], cuts[2]
	b, d, f := a+1, c+1, e+1

	p := route.Packages
	newRoute := route.CloneWithPackages()

	var segs []*domain.Package
	switch rng.Intn(4) {
	case 0:
		segs = concat(p[:a+1], reversed(p[b:c+1]), reversed(p[d:e+1]), p[f:])
	case 1:
		segs = concat(p[:a+1], p[d:e+1], p[b:c+1], p[f:])
	case 2:
		segs = concat(p[:a+1], p[d:e+1], reversed(p[b:c+1]), p[f:])
	case 3:
		segs = concat(p[:a+1], reversed(p[d:e+1]), p[b:c+1], p[f:])
	}
	newRoute.Packages = segs
	if len(newRoute.Packages) != len(route.Packages) {
		return nil, false
	}
	return withRoute(plan, routeIdx, newRoute), true
}

func reversed(s []*domain.Package) []*domain.Package {
	out := make([]*domain.Package, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}

func concat(parts ...[]*domain.Package) []*domain.Package {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]*domain.Package, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// LocalSwap swaps two package positions within one route.
func LocalSwap(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	if route.Len() < 2 {
		return nil, false
	}
	newRoute := route.CloneWithPackages()
	idx1, idx2 := twoDistinct(rng, newRoute.Len())
	newRoute.Packages[idx1], newRoute.Packages[idx2] = newRoute.Packages[idx2], newRoute.Packages[idx1]
	return withRoute(plan, routeIdx, newRoute), true
}

func twoDistinct(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	return i, j
}

// LocalInsertion removes a package and reinserts it elsewhere in the same
// route.
func LocalInsertion(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	if route.Len() < 2 {
		return nil, false
	}
	idx1, idx2 := twoDistinct(rng, route.Len())
	for abs(idx1-idx2) == 1 && route.Len() > 2 {
		idx1, idx2 = twoDistinct(rng, route.Len())
	}
	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}
	newRoute := route.CloneWithPackages()
	p := route.Packages
	moved := p[idx1]
	newPackages := make([]*domain.Package, 0, len(p))
	newPackages = append(newPackages, p[:idx1]...)
	newPackages = append(newPackages, p[idx1+1:idx2]...)
	newPackages = append(newPackages, moved)
	newPackages = append(newPackages, p[idx2:]...)
	newRoute.Packages = newPackages
	return withRoute(plan, routeIdx, newRoute), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// LocalAddHub inserts a new depot stop at a random route index not already
// occupied by one.
func LocalAddHub(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	newRoute := route.CloneWithDepotStops()
	if newRoute.Len() < 1 {
		return nil, false
	}
	existing := newRoute.DepotStopIndices()
	hubIdx := 1 + rng.Intn(newRoute.Len())
	for tries := 0; existing[hubIdx] != nil && tries < 10; tries++ {
		hubIdx = 1 + rng.Intn(newRoute.Len())
	}
	newRoute.AddDepotStop(hubIdx)
	return withRoute(plan, routeIdx, newRoute), true
}

// LocalRemoveHub removes a random existing depot stop.
func LocalRemoveHub(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	newRoute := route.CloneWithDepotStops()
	stops := newRoute.DepotStops
	if len(stops) == 0 {
		return nil, false
	}
	stop := stops[rng.Intn(len(stops))]
	newRoute.RemoveDepotStop(stop)
	return withRoute(plan, routeIdx, newRoute), true
}

// LocalMoveHub relocates a random existing depot stop to an unoccupied
// index.
func LocalMoveHub(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	newRoute := route.CloneWithDepotStops()
	stops := newRoute.DepotStops
	if len(stops) == 0 || newRoute.Len() < 2 {
		return nil, false
	}
	stop := stops[rng.Intn(len(stops))]
	for tries := 0; tries < 20; tries++ {
		newIdx := 1 + rng.Intn(newRoute.Len()-1)
		if newIdx != stop.RouteIndex {
			newRoute.MoveDepotStop(stop, newIdx)
			break
		}
	}
	return withRoute(plan, routeIdx, newRoute), true
}

// LocalAddPause increases a random depot stop's wait by 1-30 minutes.
func LocalAddPause(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	newRoute := route.CloneWithDepotStops()
	if len(newRoute.DepotStops) == 0 {
		return nil, false
	}
	stop := newRoute.DepotStops[rng.Intn(len(newRoute.DepotStops))]
	stop.IncreaseWait(1 + rng.Intn(30))
	return withRoute(plan, routeIdx, newRoute), true
}

// LocalRemovePause decreases a random depot stop's wait by 1-30 minutes,
// clamped at zero.
func LocalRemovePause(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	newRoute := route.CloneWithDepotStops()
	if len(newRoute.DepotStops) == 0 {
		return nil, false
	}
	stop := newRoute.DepotStops[rng.Intn(len(newRoute.DepotStops))]
	stop.DecreaseWait(1 + rng.Intn(30))
	return withRoute(plan, routeIdx, newRoute), true
}

// NonlocalInsertion moves a package from one route to a position in
// another.
func NonlocalInsertion(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	if len(plan) < 2 {
		return nil, false
	}
	i, j := twoDistinct(rng, len(plan))
	if plan[i].Len() == 0 || plan[j].Len() == 0 {
		return nil, false
	}
	newI := plan[i].CloneWithPackages()
	newJ := plan[j].CloneWithPackages()

	idx1 := rng.Intn(newI.Len())
	idx2 := rng.Intn(newJ.Len())

	moved := newI.Packages[idx1]
	newI.Packages = append(newI.Packages[:idx1], newI.Packages[idx1+1:]...)
	newJ.AddPackage(moved, idx2)

	out := plan.Clone()
	out[i] = newI
	out[j] = newJ
	return out, true
}

// NonlocalSwap exchanges two packages between two routes, updating each
// package's assigned-truck back-reference.
func NonlocalSwap(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	if len(plan) < 2 {
		return nil, false
	}
	i, j := twoDistinct(rng, len(plan))
	if plan[i].Len() == 0 || plan[j].Len() == 0 {
		return nil, false
	}
	newI := plan[i].CloneWithPackages()
	newJ := plan[j].CloneWithPackages()

	idx1 := rng.Intn(newI.Len())
	idx2 := rng.Intn(newJ.Len())

	newI.Packages[idx1], newJ.Packages[idx2] = newJ.Packages[idx2], newI.Packages[idx1]
	numI, numJ := newI.Truck.Number, newJ.Truck.Number
	newI.Packages[idx1].AssignTruck(&numI)
	newJ.Packages[idx2].AssignTruck(&numJ)

	out := plan.Clone()
	out[i] = newI
	out[j] = newJ
	return out, true
}

// DoubleBridge is the 4-cut perturbation: split one route at four cut points
// into five nonempty segments A, B, C, D, E and reassemble as A+D+C+B+E,
// escaping 3-opt basins. On the closed depot-to-depot loop E and A are
// adjacent, so this is the four-segment double bridge with (E, A) as one
// segment.
func DoubleBridge(rng *rand.Rand, plan domain.Plan) (domain.Plan, bool) {
	routeIdx := rng.Intn(len(plan))
	route := plan[routeIdx]
	n := route.Len()
	if n < 5 {
		return nil, false
	}

	var cut []int
	for {
		perm := rng.Perm(n - 1)[:4]
		cut = append([]int(nil), perm...)
		for i := range cut {
			cut[i]++
		}
		sort.Ints(cut)
		if n < 8 || (cut[1] > cut[0]+1 && cut[2] > cut[1]+1 && cut[3] > cut[2]+1) {
			break
		}
	}

	p := route.Packages
	zero := p[:cut[0]]
	one := p[cut[0]:cut[1]]
	two := p[cut[1]:cut[2]]
	three := p[cut[2]:cut[3]]
	four := p[cut[3]:]

	newRoute := route.CloneWithPackages()
	newRoute.Packages = concat(zero, three, two, one, four)
	if len(newRoute.Packages) != len(route.Packages) {
		return nil, false
	}
	return withRoute(plan, routeIdx, newRoute), true
}

// All twelve operators, in declaration order; GenerateNeighbors shuffles
// this list per call.
var operators = []Operator{
	LocalSwap,
	LocalFlip,
	LocalInsertion,
	NonlocalInsertion,
	NonlocalSwap,
	LocalAddHub,
	LocalRemoveHub,
	LocalMoveHub,
	LocalAddPause,
	LocalRemovePause,
	LocalThreeOpt,
	DoubleBridge,
}

// GenerateNeighbors attempts each operator once, in a freshly shuffled
// order, invoking yield for every one that produced a neighbor. Stops early
// if yield returns false.
func GenerateNeighbors(rng *rand.Rand, plan domain.Plan, yield func(domain.Plan) bool) {
	order := rng.Perm(len(operators))
	for _, idx := range order {
		neighbor, ok := operators[idx](rng, plan)
		if !ok {
			continue
		}
		if !yield(neighbor) {
			return
		}
	}
}
