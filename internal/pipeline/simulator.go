package pipeline

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"cvrptw-solver/internal/adapters/distancecache"
	"cvrptw-solver/internal/distanceclosure"
	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/eval"
	"cvrptw-solver/internal/linking"
	"cvrptw-solver/internal/ports"
	"cvrptw-solver/internal/seed"
)

// SimulatorConfig carries the construction-time parameters of spec.md §6's
// programmatic entry point: (depot_location_id, number_drivers,
// truck_speed, truck_capacity, start_of_day). The data directory is not a
// field here; it belongs to the ports.DataLoader passed to NewSimulator.
type SimulatorConfig struct {
	DepotLocationID int
	NumberDrivers   int
	TruckSpeed      float64
	TruckCapacity   int
	StartOfDay      time.Time
	AnnealConfig    Config

	// DistanceCache, if non-nil, lets NewSimulator skip the Dijkstra closure
	// pass on a cache hit for this exact raw distance matrix.
	DistanceCache ports.DistanceCache
}

// Simulator is the programmatic entry point of spec.md §6: it owns the
// loaded locations/packages/trucks, the current plan, and the evaluator
// those are scored against.
type Simulator struct {
	locations map[int]*domain.Location
	packages  map[int]*domain.Package
	trucks    []*domain.Truck
	depot     *domain.Location

	evaluator *eval.Evaluator
	current   domain.Plan
	annealCfg Config
}

// NewSimulator loads all three input files via loader, closes the distance
// table, builds linked groups, seeds an initial feasible plan, and returns
// a ready-to-optimize Simulator.
func NewSimulator(cfg SimulatorConfig, loader ports.DataLoader) (*Simulator, error) {
	if cfg.NumberDrivers < 1 {
		return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: errTruckCountTooLow}
	}

	rawLocations, err := loader.LoadLocations()
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: err}
	}
	rawDistances, err := loader.LoadDistances()
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: err}
	}
	rawPackages, err := loader.LoadPackages(cfg.StartOfDay)
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: err}
	}

	locations := make(map[int]*domain.Location, len(rawLocations))
	for _, rl := range rawLocations {
		locations[rl.ID] = &domain.Location{
			ID:      rl.ID,
			Address: rl.Address,
			City:    rl.City,
			State:   rl.State,
			ZIP:     rl.ZIP,
			Coords:  domain.Coordinates{Lat: rl.Lat, Lon: rl.Lon},
		}
	}

	closed := closeDistances(rawDistances, cfg.DistanceCache)
	distanceclosure.Apply(locations, closed)

	depot, ok := locations[cfg.DepotLocationID]
	if !ok {
		return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: errUnknownDepotLocation}
	}

	packages := make(map[int]*domain.Package, len(rawPackages))
	packageList := make([]*domain.Package, 0, len(rawPackages))
	for _, rp := range rawPackages {
		loc, ok := locations[rp.LocationID]
		if !ok {
			return nil, &domain.ConfigurationError{Op: "pipeline.NewSimulator", Err: errUnknownPackageLocation}
		}
		if math.IsInf(depot.DistanceTo(loc.ID), 1) {
			return nil, &domain.GraphError{Op: "pipeline.NewSimulator", Err: errUnreachableLocation}
		}
		pkg := domain.NewPackage(rp.ID, loc, cfg.StartOfDay, rp.DeliveryDeadline, rp.Mass, rp.SpecialNotes)
		packages[rp.ID] = pkg
		packageList = append(packageList, pkg)
	}

	linkedGroups, err := linking.BuildGroups(packageList, cfg.TruckCapacity)
	if err != nil {
		return nil, err
	}

	trucks := make([]*domain.Truck, cfg.NumberDrivers)
	for i := range trucks {
		trucks[i] = domain.NewTruck(i+1, cfg.TruckCapacity, cfg.TruckSpeed, depot)
	}

	initial := seed.Build(depot, trucks, packageList, linkedGroups)
	evaluator := eval.New(depot, cfg.TruckSpeed, cfg.StartOfDay)

	annealCfg := cfg.AnnealConfig
	if annealCfg == (Config{}) {
		annealCfg = DefaultConfig()
	}

	return &Simulator{
		locations: locations,
		packages:  packages,
		trucks:    trucks,
		depot:     depot,
		evaluator: evaluator,
		current:   initial,
		annealCfg: annealCfg,
	}, nil
}

// closeDistances returns the shortest-path closure of raw, consulting cache
// first when one is supplied and storing a freshly computed closure back
// into it.
func closeDistances(raw map[int]map[int]float64, cache ports.DistanceCache) map[int]map[int]float64 {
	if cache == nil {
		return distanceclosure.Close(raw)
	}
	key := distancecache.Key(raw)
	if closed, ok, err := cache.Get(key); err == nil && ok {
		return closed
	}
	closed := distanceclosure.Close(raw)
	_ = cache.Put(key, closed)
	return closed
}

// ChangePackageAddress is the one corrective command: override a package's
// delivery destination. NewSimulator has already seeded the current plan, so
// the package keeps its place in that plan (the seeder's nearest-neighbor
// order is not recomputed); every later evaluation routes it to the new
// location.
func (s *Simulator) ChangePackageAddress(packageID, locationID int) error {
	pkg, ok := s.packages[packageID]
	if !ok {
		return &domain.ConfigurationError{Op: "pipeline.ChangePackageAddress", Err: errUnknownPackage}
	}
	loc, ok := s.locations[locationID]
	if !ok {
		return &domain.ConfigurationError{Op: "pipeline.ChangePackageAddress", Err: errUnknownPackageLocation}
	}
	pkg.ChangeDeliveryLocation(loc)
	return nil
}

// CurrentSolution returns the simulator's current plan.
func (s *Simulator) CurrentSolution() domain.Plan { return s.current }

// Eval is the cost-only shortcut over the evaluator.
func (s *Simulator) Eval(plan domain.Plan) float64 { return s.evaluator.Eval(plan) }

// TestEval is the full feasibility+cost evaluation over the evaluator.
func (s *Simulator) TestEval(plan domain.Plan, returnEarly bool) (domain.Feasibility, float64) {
	return s.evaluator.TestEval(plan, returnEarly)
}

// Optimize runs the full pipeline (two-opt, annealing, wait-time
// minimization) starting from the current solution, stores the result as
// the new current solution, and returns it.
func (s *Simulator) Optimize(ctx context.Context, rng *rand.Rand) (domain.Plan, error) {
	result := Run(ctx, s.current, s.evaluator, rng, s.annealConfig())
	s.current = result
	return result, nil
}

func (s *Simulator) annealConfig() Config {
	return s.annealCfg
}

// LookupStatus reports each requested package's status at query time at.
// Unknown package ids are silently skipped, matching the original's
// range-based bulk lookup.
func (s *Simulator) LookupStatus(at time.Time, packageIDs []int) ([]domain.StatusRow, error) {
	rows := make([]domain.StatusRow, 0, len(packageIDs))
	for _, id := range packageIDs {
		pkg, ok := s.packages[id]
		if !ok {
			continue
		}
		rows = append(rows, domain.StatusRow{
			PackageID: pkg.ID,
			Address:   pkg.DeliveryLocation.Address,
			City:      pkg.DeliveryLocation.City,
			ZIP:       pkg.DeliveryLocation.ZIP,
			Deadline:  pkg.DeliveryDeadline.Format("3:04 PM"),
			Weight:    pkg.Mass,
			Status:    pkg.DeliveryStatus(at),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PackageID < rows[j].PackageID })
	return rows, nil
}

// Trucks returns the simulator's fleet, for callers that need to print a
// per-truck route dump.
func (s *Simulator) Trucks() []*domain.Truck { return s.trucks }
