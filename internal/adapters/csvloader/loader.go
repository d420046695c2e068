// Package csvloader implements ports.DataLoader against the three flat
// files of spec.md §6: locations.csv, distances.csv, packages.csv.
// Grounded on original_source/VRP/dataloader.py's row shapes and on the
// pack's own encoding/csv usage pattern (reader.ReadAll, manual strconv
// conversion, early-return on malformed rows).
package csvloader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/ports"
)

const (
	locationsFilename = "locations.csv"
	distancesFilename = "distances.csv"
	packagesFilename  = "packages.csv"
)

// Loader reads the three CSV files from a single directory.
type Loader struct {
	Dir string
}

// New returns a Loader rooted at dir.
func New(dir string) *Loader {
	return &Loader{Dir: dir}
}

func (l *Loader) path(filename string) string {
	return filepath.Join(l.Dir, filename)
}

// LoadLocations parses locations.csv: LocationID,Address,City,State,ZIP,Lat,Lon.
func (l *Loader) LoadLocations() ([]ports.RawLocation, error) {
	records, err := readAllWithHeader(l.path(locationsFilename))
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "csvloader.LoadLocations", Err: err}
	}

	out := make([]ports.RawLocation, 0, len(records))
	for _, row := range records {
		id, err := strconv.Atoi(row["LocationID"])
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadLocations", Err: fmt.Errorf("bad LocationID %q: %w", row["LocationID"], err)}
		}
		lat, err := strconv.ParseFloat(row["Lat"], 64)
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadLocations", Err: fmt.Errorf("bad Lat %q: %w", row["Lat"], err)}
		}
		lon, err := strconv.ParseFloat(row["Lon"], 64)
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadLocations", Err: fmt.Errorf("bad Lon %q: %w", row["Lon"], err)}
		}
		out = append(out, ports.RawLocation{
			ID:      id,
			Address: row["Address"],
			City:    row["City"],
			State:   row["State"],
			ZIP:     row["ZIP"],
			Lat:     lat,
			Lon:     lon,
		})
	}
	return out, nil
}

// LoadDistances parses distances.csv: a header row of location ids, then
// one row per origin location id followed by its distance to every column
// id. The matrix may be lower-triangular with zeros elsewhere; closure and
// symmetrization happen downstream in internal/distanceclosure.
func (l *Loader) LoadDistances() (map[int]map[int]float64, error) {
	f, err := os.Open(l.path(distancesFilename))
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Data rows carry a leading origin id, so they are one field wider than
	// the header.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: err}
	}
	if len(records) < 2 {
		return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: fmt.Errorf("%s has no data rows", distancesFilename)}
	}

	header := records[0]
	columnIDs := make([]int, len(header))
	for i, h := range header {
		id, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: fmt.Errorf("bad header column %q: %w", h, err)}
		}
		columnIDs[i] = id
	}

	table := make(map[int]map[int]float64, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		originID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: fmt.Errorf("bad row origin %q: %w", row[0], err)}
		}
		row2 := make(map[int]float64, len(row)-1)
		for j := 1; j < len(row); j++ {
			dist, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, &domain.ConfigurationError{Op: "csvloader.LoadDistances", Err: fmt.Errorf("bad distance %q: %w", row[j], err)}
			}
			row2[columnIDs[j-1]] = dist
		}
		table[originID] = row2
	}
	return table, nil
}

// LoadPackages parses packages.csv: PackageID,LocationID,DeliveryDeadline,Mass,SpecialNotes.
// DeliveryDeadline is "EOD" (23:59:59 on referenceDate) or "hh:mm AM/PM".
func (l *Loader) LoadPackages(referenceDate time.Time) ([]ports.RawPackage, error) {
	records, err := readAllWithHeader(l.path(packagesFilename))
	if err != nil {
		return nil, &domain.ConfigurationError{Op: "csvloader.LoadPackages", Err: err}
	}

	y, m, d := referenceDate.Date()
	loc := referenceDate.Location()

	out := make([]ports.RawPackage, 0, len(records))
	for _, row := range records {
		id, err := strconv.Atoi(row["PackageID"])
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadPackages", Err: fmt.Errorf("bad PackageID %q: %w", row["PackageID"], err)}
		}
		locationID, err := strconv.Atoi(row["LocationID"])
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadPackages", Err: fmt.Errorf("bad LocationID %q: %w", row["LocationID"], err)}
		}
		mass, err := strconv.Atoi(row["Mass"])
		if err != nil {
			return nil, &domain.ConfigurationError{Op: "csvloader.LoadPackages", Err: fmt.Errorf("bad Mass %q: %w", row["Mass"], err)}
		}

		var deadline time.Time
		raw := strings.TrimSpace(row["DeliveryDeadline"])
		if raw == "EOD" {
			deadline = time.Date(y, m, d, 23, 59, 59, 0, loc)
		} else {
			parsed, err := time.Parse("3:04 PM", raw)
			if err != nil {
				return nil, &domain.ConfigurationError{Op: "csvloader.LoadPackages", Err: fmt.Errorf("bad DeliveryDeadline %q: %w", raw, err)}
			}
			deadline = time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, loc)
		}

		out = append(out, ports.RawPackage{
			ID:               id,
			LocationID:       locationID,
			DeliveryDeadline: deadline,
			Mass:             mass,
			SpecialNotes:     row["SpecialNotes"],
		})
	}
	return out, nil
}

// readAllWithHeader reads a CSV file and returns each data row as a
// header-keyed map, mirroring csv.DictReader's row shape.
func readAllWithHeader(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, row := range records[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}
