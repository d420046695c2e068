package main

import (
	"log"
	"net/http"
	"time"

	"cvrptw-solver/internal/adapters/csvloader"
	"cvrptw-solver/internal/api"
	"cvrptw-solver/internal/config"
	"cvrptw-solver/internal/pipeline"
)

// main is the application composition root for the HTTP server: it wires a
// single shared Simulator behind the API router and starts listening. An
// ambient convenience over cmd/solver's offline run, not part of the core
// contract (SPEC_FULL.md §9).
func main() {
	config.Load()

	dataDir := config.Get("DATA_DIR", "data/")
	depotID := config.GetInt("DEPOT_LOCATION_ID", 0)
	numDrivers := config.GetInt("NUMBER_DRIVERS", 2)
	truckSpeed := config.GetFloat("TRUCK_SPEED", 18)
	truckCapacity := config.GetInt("TRUCK_CAPACITY", 16)
	port := config.Get("PORT", "8080")

	today := time.Now()
	startOfDay := time.Date(today.Year(), today.Month(), today.Day(), 8, 0, 0, 0, today.Location())

	sim, err := pipeline.NewSimulator(pipeline.SimulatorConfig{
		DepotLocationID: depotID,
		NumberDrivers:   numDrivers,
		TruckSpeed:      truckSpeed,
		TruckCapacity:   truckCapacity,
		StartOfDay:      startOfDay,
	}, csvloader.New(dataDir))
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(sim, startOfDay, "8:55 AM")

	// Timeouts are tuned for a long-running optimization request (POST /plans
	// runs a full anneal+two-opt pass, not a quick lookup).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
