package pipeline

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"cvrptw-solver/internal/ports"
)

type fakeLoader struct{}

func (fakeLoader) LoadLocations() ([]ports.RawLocation, error) {
	return []ports.RawLocation{
		{ID: 0, Address: "Depot", City: "SLC", State: "UT", ZIP: "84101", Lat: 40.0, Lon: -111.0},
		{ID: 1, Address: "A St", City: "SLC", State: "UT", ZIP: "84101", Lat: 40.1, Lon: -111.1},
		{ID: 2, Address: "B St", City: "SLC", State: "UT", ZIP: "84101", Lat: 40.2, Lon: -111.2},
	}, nil
}

func (fakeLoader) LoadDistances() (map[int]map[int]float64, error) {
	return map[int]map[int]float64{
		0: {0: 0, 1: 5, 2: 8},
		1: {0: 5, 1: 0, 2: 3},
		2: {0: 8, 1: 3, 2: 0},
	}, nil
}

func (fakeLoader) LoadPackages(ref time.Time) ([]ports.RawPackage, error) {
	return []ports.RawPackage{
		{ID: 1, LocationID: 1, DeliveryDeadline: ref.Add(10 * time.Hour), Mass: 2, SpecialNotes: ""},
		{ID: 2, LocationID: 2, DeliveryDeadline: ref.Add(10 * time.Hour), Mass: 2, SpecialNotes: ""},
	}, nil
}

func TestNewSimulatorSeedsAFeasiblePlan(t *testing.T) {
	cfg := SimulatorConfig{
		DepotLocationID: 0,
		NumberDrivers:   2,
		TruckSpeed:      18,
		TruckCapacity:   16,
		StartOfDay:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	sim, err := NewSimulator(cfg, fakeLoader{})
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	feas, _ := sim.TestEval(sim.CurrentSolution(), false)
	if !feas.AllSatisfied() {
		t.Errorf("expected seeded plan to be feasible, got %v", feas)
	}
}

func TestSimulatorOptimizeStaysFeasible(t *testing.T) {
	cfg := SimulatorConfig{
		DepotLocationID: 0,
		NumberDrivers:   2,
		TruckSpeed:      18,
		TruckCapacity:   16,
		StartOfDay:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	sim, err := NewSimulator(cfg, fakeLoader{})
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	result, err := sim.Optimize(context.Background(), rng)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	feas, _ := sim.TestEval(result, false)
	if !feas.AllSatisfied() {
		t.Errorf("expected optimized plan to be feasible, got %v", feas)
	}
}

type fakeDistanceCache struct {
	store map[string]map[int]map[int]float64
	gets  int
	puts  int
}

func newFakeDistanceCache() *fakeDistanceCache {
	return &fakeDistanceCache{store: make(map[string]map[int]map[int]float64)}
}

func (c *fakeDistanceCache) Get(key string) (map[int]map[int]float64, bool, error) {
	c.gets++
	closed, ok := c.store[key]
	return closed, ok, nil
}

func (c *fakeDistanceCache) Put(key string, closed map[int]map[int]float64) error {
	c.puts++
	c.store[key] = closed
	return nil
}

func TestNewSimulatorPopulatesDistanceCacheOnMiss(t *testing.T) {
	cache := newFakeDistanceCache()
	cfg := SimulatorConfig{
		DepotLocationID: 0,
		NumberDrivers:   1,
		TruckSpeed:      18,
		TruckCapacity:   16,
		StartOfDay:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		DistanceCache:   cache,
	}
	if _, err := NewSimulator(cfg, fakeLoader{}); err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	if cache.puts != 1 {
		t.Errorf("expected NewSimulator to populate the cache once on a miss, got %d puts", cache.puts)
	}

	if _, err := NewSimulator(cfg, fakeLoader{}); err != nil {
		t.Fatalf("second NewSimulator() error = %v", err)
	}
	if cache.puts != 1 {
		t.Errorf("expected the second construction to hit the cache, not re-populate it, got %d puts", cache.puts)
	}
}

func TestSimulatorLookupStatusSkipsUnknownIDs(t *testing.T) {
	cfg := SimulatorConfig{
		DepotLocationID: 0,
		NumberDrivers:   1,
		TruckSpeed:      18,
		TruckCapacity:   16,
		StartOfDay:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	sim, err := NewSimulator(cfg, fakeLoader{})
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	rows, err := sim.LookupStatus(cfg.StartOfDay, []int{1, 999, 2})
	if err != nil {
		t.Fatalf("LookupStatus() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows (unknown id skipped), got %d", len(rows))
	}
}
