package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cvrptw-solver/internal/adapters/planarchive"
	"cvrptw-solver/internal/config"
	"cvrptw-solver/internal/platform/db"
)

// main initializes the Postgres plan-archive schema used by cmd/solver to
// record finalized optimization runs.
func main() {
	config.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing plan archive schema...")
	if err := planarchive.New(conn).InitSchema(context.Background()); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
