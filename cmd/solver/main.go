package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"cvrptw-solver/internal/adapters/csvloader"
	"cvrptw-solver/internal/adapters/distancecache"
	"cvrptw-solver/internal/adapters/planarchive"
	"cvrptw-solver/internal/adapters/tui"
	"cvrptw-solver/internal/config"
	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/pipeline"
	"cvrptw-solver/internal/platform/obs"
	"cvrptw-solver/internal/ports"
)

// main is the application composition root for the offline solver: load the
// CSV inputs, seed and optimize a plan, print it, archive it, then drop into
// the interactive status-lookup prompt. Adapted from cmd/server/main.go's
// env-driven wiring style, restoring original_source/VRP/main.py's overall
// flow (seed -> optimize -> print routes -> status lookups).
func main() {
	config.Load()

	dataDir := config.Get("DATA_DIR", "data/")
	depotID := config.GetInt("DEPOT_LOCATION_ID", 0)
	numDrivers := config.GetInt("NUMBER_DRIVERS", 2)
	truckSpeed := config.GetFloat("TRUCK_SPEED", 18)
	truckCapacity := config.GetInt("TRUCK_CAPACITY", 16)
	databaseURL := os.Getenv("DATABASE_URL")
	cachePath := config.Get("DISTANCE_CACHE_PATH", "data/distance_cache.db")

	verbose := flag.Bool("verbose", false, "print a per-stop debug dump of every route")
	seedFlag := flag.Int64("seed", 0, "random seed for the optimizer (0 picks a time-based seed)")
	flag.Parse()

	today := time.Now()
	startOfDay := time.Date(today.Year(), today.Month(), today.Day(), 8, 0, 0, 0, today.Location())

	var distCache *distancecache.SqliteCache
	if cacheDB, err := sql.Open("sqlite", cachePath); err != nil {
		log.Printf("open distance cache %q: %v (continuing without cache)", cachePath, err)
	} else {
		distCache = distancecache.New(cacheDB)
		if err := distCache.InitSchema(); err != nil {
			log.Printf("init distance cache schema: %v (continuing without cache)", err)
			distCache = nil
		}
	}

	sim, err := pipeline.NewSimulator(pipeline.SimulatorConfig{
		DepotLocationID: depotID,
		NumberDrivers:   numDrivers,
		TruckSpeed:      truckSpeed,
		TruckCapacity:   truckCapacity,
		StartOfDay:      startOfDay,
		DistanceCache:   optionalDistanceCache(distCache),
	}, csvloader.New(dataDir))
	if err != nil {
		log.Fatalf("construct simulator: %v", err)
	}

	ctx, runID := obs.WithRunID(context.Background())

	_, initialCost := sim.TestEval(sim.CurrentSolution(), false)
	fmt.Printf("Initial routing solution requires %.1f total miles.\n\n", initialCost)

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	fmt.Println("Optimizing...")
	optimized, err := sim.Optimize(ctx, rng)
	if err != nil {
		log.Fatalf("run_id=%s optimize: %v", runID, err)
	}
	feas, finalCost := sim.TestEval(optimized, false)
	fmt.Printf("Optimized routing solution requires %.1f total miles.\n\n", finalCost)
	if !feas.AllSatisfied() {
		log.Fatalf("run_id=%s optimized plan is infeasible: %+v", runID, feas)
	}

	for _, truck := range sim.Trucks() {
		if *verbose {
			fmt.Print(truck.Route.DebugSteps())
		} else {
			fmt.Println(truck.Route.String())
		}
	}
	fmt.Println()

	if databaseURL != "" {
		if err := archivePlan(ctx, databaseURL, runID, optimized, finalCost); err != nil {
			log.Printf("run_id=%s archive plan: %v (continuing without archive)", runID, err)
		}
	}

	prompt := tui.New(os.Stdin, os.Stdout)
	allIDs := make([]int, 0)
	for _, truck := range sim.Trucks() {
		for _, pkg := range truck.Route.Packages {
			allIDs = append(allIDs, pkg.ID)
		}
	}
	for _, clock := range []string{"8:55 AM", "10:00 AM", "12:04 PM"} {
		if err := prompt.ShowPackageStatuses(startOfDay, clock, sim, allIDs); err != nil {
			log.Printf("run_id=%s status lookup at %s: %v", runID, clock, err)
		}
	}

	fmt.Println("Simulation finished!")
}

// optionalDistanceCache converts a possibly-nil *distancecache.SqliteCache
// into a ports.DistanceCache, returning a true nil interface (not a
// non-nil interface wrapping a nil pointer) when cache is nil.
func optionalDistanceCache(cache *distancecache.SqliteCache) ports.DistanceCache {
	if cache == nil {
		return nil
	}
	return cache
}

func archivePlan(ctx context.Context, databaseURL, runID string, plan domain.Plan, totalMiles float64) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	archive := planarchive.New(db)
	if err := archive.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := archive.Save(ctx, runID, plan, totalMiles); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}
