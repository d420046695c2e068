package neighborhood

import (
	"math/rand"
	"testing"
	"time"

	"cvrptw-solver/internal/domain"
)

func buildTestPlan(t *testing.T, n int) domain.Plan {
	t.Helper()
	depot := &domain.Location{ID: 0, Distances: map[int]float64{}}
	truck1 := domain.NewTruck(1, 100, 18, depot)
	truck2 := domain.NewTruck(2, 100, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		loc := &domain.Location{ID: i + 1, Distances: map[int]float64{}}
		pkg := domain.NewPackage(i+1, loc, start, start.Add(10*time.Hour), 1, "")
		truck1.LoadPackage(pkg)
	}
	truck1.Route.SetMinimalDepotStops(100)
	truck2.Route.SetMinimalDepotStops(100)

	return domain.Plan{truck1.Route, truck2.Route}
}

func sameMultiset(t *testing.T, a, b []*domain.Package) bool {
	t.Helper()
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int)
	for _, p := range a {
		counts[p.ID]++
	}
	for _, p := range b {
		counts[p.ID]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

func TestLocalFlipPreservesPackageSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	plan := buildTestPlan(t, 5)
	// LocalFlip picks a random route and refuses the empty second one, so
	// draw until it lands on the 5-package route.
	var neighbor domain.Plan
	ok := false
	for i := 0; i < 10 && !ok; i++ {
		neighbor, ok = LocalFlip(rng, plan)
	}
	if !ok {
		t.Fatal("expected LocalFlip to apply on a 5-package route")
	}
	if !sameMultiset(t, plan[0].Packages, neighbor[0].Packages) || !sameMultiset(t, plan[1].Packages, neighbor[1].Packages) {
		t.Errorf("LocalFlip changed the multiset of packages on a route")
	}
}

func TestLocalThreeOptPreservesPackageSet(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	plan := buildTestPlan(t, 6)
	for i := 0; i < 20; i++ {
		neighbor, ok := LocalThreeOpt(rng, plan)
		if !ok {
			continue
		}
		for r := range plan {
			if !sameMultiset(t, plan[r].Packages, neighbor[r].Packages) {
				t.Fatalf("LocalThreeOpt changed package multiset on route %d", r)
			}
		}
		return
	}
}

func TestDoubleBridgeRequiresMinimumLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	plan := buildTestPlan(t, 3)
	if _, ok := DoubleBridge(rng, plan); ok {
		t.Error("expected DoubleBridge to refuse a 3-package route")
	}

	// DoubleBridge picks a random route and refuses the empty second one, so
	// draw until it lands on the 6-package route.
	plan = buildTestPlan(t, 6)
	applied := false
	for i := 0; i < 10 && !applied; i++ {
		_, applied = DoubleBridge(rng, plan)
	}
	if !applied {
		t.Error("expected DoubleBridge to apply on a 6-package route")
	}
}

func TestNonlocalSwapReassignsTruckNumbers(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	plan := buildTestPlan(t, 3)
	// load truck 2 with packages so both routes are nonempty.
	loc := &domain.Location{ID: 99, Distances: map[int]float64{}}
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := domain.NewPackage(99, loc, start, start.Add(10*time.Hour), 1, "")
	plan[1].AddPackage(pkg, -1)

	neighbor, ok := NonlocalSwap(rng, plan)
	if !ok {
		t.Fatal("expected NonlocalSwap to apply")
	}
	for _, route := range neighbor {
		for _, p := range route.Packages {
			if p.AssignedTruck == nil || *p.AssignedTruck != route.Truck.Number {
				t.Errorf("package %d AssignedTruck = %v, want %d", p.ID, p.AssignedTruck, route.Truck.Number)
			}
		}
	}
}

func TestGenerateNeighborsTriesEveryOperatorOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	plan := buildTestPlan(t, 6)
	count := 0
	GenerateNeighbors(rng, plan, func(domain.Plan) bool {
		count++
		return true
	})
	if count == 0 {
		t.Error("expected at least one operator to apply on a 6-package, 2-route plan")
	}
	if count > len(operators) {
		t.Errorf("GenerateNeighbors yielded %d neighbors, more than the %d operators", count, len(operators))
	}
}

func TestGenerateNeighborsStopsWhenYieldReturnsFalse(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	plan := buildTestPlan(t, 6)
	count := 0
	GenerateNeighbors(rng, plan, func(domain.Plan) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("expected GenerateNeighbors to stop after first yield, got %d calls", count)
	}
}
