// Package planarchive persists a finalized domain.Plan to Postgres: one
// plan_runs row per run and one plan_stops row per route step (package or
// depot stop), tagged by a run id so repeated optimization runs can be
// compared. Adapted from the
// teacher's internal/adapters/repositories/sqlite_init.go schema-setup
// style (transactional CREATE TABLE IF NOT EXISTS, prepared-statement
// batch insert), retargeted from SQLite to Postgres via pgx/v5.
package planarchive

import (
	"context"
	"database/sql"
	"fmt"

	"cvrptw-solver/internal/domain"
)

// Archive writes finalized plans to a Postgres database reachable through
// db.
type Archive struct {
	DB *sql.DB
}

// New returns an Archive over db. InitSchema must be called once before
// use.
func New(db *sql.DB) *Archive {
	return &Archive{DB: db}
}

// InitSchema creates the plan_runs/plan_stops tables if they do not
// already exist.
func (a *Archive) InitSchema(ctx context.Context) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("plan archive: init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS plan_runs (
			run_id TEXT PRIMARY KEY,
			total_miles DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS plan_stops (
			run_id TEXT NOT NULL REFERENCES plan_runs(run_id),
			truck_number INTEGER NOT NULL,
			step_index INTEGER NOT NULL,
			package_id INTEGER,
			is_depot_stop BOOLEAN NOT NULL,
			wait_minutes INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, truck_number, step_index)
		)`,
	}
	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("plan archive: init schema: exec statement #%d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("plan archive: init schema: commit: %w", err)
	}
	return nil
}

// Save archives plan under runID, with its total cost recorded alongside.
func (a *Archive) Save(ctx context.Context, runID string, plan domain.Plan, totalMiles float64) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("plan archive: save: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plan_runs (run_id, total_miles) VALUES ($1, $2)`,
		runID, totalMiles,
	); err != nil {
		return fmt.Errorf("plan archive: save: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO plan_stops (run_id, truck_number, step_index, package_id, is_depot_stop, wait_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("plan archive: save: prepare stop insert: %w", err)
	}
	defer stmt.Close()

	for _, route := range plan {
		cursor := route.Steps()
		idx := 0
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			switch s := step.(type) {
			case domain.PackageStep:
				if _, err := stmt.ExecContext(ctx, runID, route.Truck.Number, idx, s.Package.ID, false, 0); err != nil {
					return fmt.Errorf("plan archive: save: insert package stop: %w", err)
				}
			case domain.DepotStopStep:
				if _, err := stmt.ExecContext(ctx, runID, route.Truck.Number, idx, nil, true, s.Stop.WaitMinutes); err != nil {
					return fmt.Errorf("plan archive: save: insert depot stop: %w", err)
				}
			}
			idx++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("plan archive: save: commit: %w", err)
	}
	return nil
}
