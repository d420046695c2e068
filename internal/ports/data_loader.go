// Package ports defines the boundaries a Simulator depends on but does not
// implement itself: CSV ingestion, status presentation, optimization
// progress reporting, and route plotting.
package ports

import "time"

// RawLocation is one row of locations.csv before it is wired into a
// domain.Location (whose Distances map is filled in later, by the
// distance closure).
type RawLocation struct {
	ID      int
	Address string
	City    string
	State   string
	ZIP     string
	Lat     float64
	Lon     float64
}

// RawPackage is one row of packages.csv, with its DeliveryDeadline already
// resolved against a reference date ("EOD" or "hh:mm AM/PM" per spec.md §6)
// but before notes are parsed — that happens in domain.NewPackage.
type RawPackage struct {
	ID               int
	LocationID       int
	DeliveryDeadline time.Time
	Mass             int
	SpecialNotes     string
}

// DataLoader is the CSV-ingestion boundary: the three tabular files of
// spec.md §6 (locations.csv, distances.csv, packages.csv).
type DataLoader interface {
	// LoadLocations returns every location row, unordered.
	LoadLocations() ([]RawLocation, error)
	// LoadDistances returns the raw (possibly lower-triangular) pairwise
	// distance table, keyed by location id on both axes. The caller is
	// responsible for symmetrizing and closing it.
	LoadDistances() (map[int]map[int]float64, error)
	// LoadPackages returns every package row, with deadlines resolved
	// against referenceDate.
	LoadPackages(referenceDate time.Time) ([]RawPackage, error)
}
