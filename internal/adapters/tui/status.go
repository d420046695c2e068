// Package tui implements an interactive terminal prompt for viewing
// package statuses, restoring the show_package_statuses loop from
// original_source/VRP/main.py: view at a given time (y), pick a custom
// time (c), or skip (n).
package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"cvrptw-solver/internal/domain"
)

// StatusLookup is the subset of pipeline.Simulator the prompt needs.
type StatusLookup interface {
	LookupStatus(at time.Time, packageIDs []int) ([]domain.StatusRow, error)
}

// Prompt drives the interactive status-lookup loop against an io.Reader
// (normally os.Stdin) and writes its output to an io.Writer (normally
// os.Stdout).
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompt reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

// ShowPackageStatuses asks the user whether to view statuses at curTime,
// choose a custom time, or skip, then queries lookup for packageIDs and
// renders the resulting rows. today anchors the date portion of whatever
// clock time the user enters.
func (p *Prompt) ShowPackageStatuses(today time.Time, curTime string, lookup StatusLookup, packageIDs []int) error {
	for {
		fmt.Fprintf(p.out, "View package statuses at %s (y) or choose custom time (c)? y/n/c\n", curTime)
		ans, ok := p.readLine()
		if !ok {
			return nil
		}
		switch ans {
		case "y":
			at, err := parseClockTime(today, curTime)
			if err != nil {
				return fmt.Errorf("tui: parse time %q: %w", curTime, err)
			}
			return p.lookupAndRender(lookup, at, packageIDs)
		case "c":
			back, err := p.customTimeLoop(today, lookup, packageIDs)
			if back {
				continue
			}
			return err
		case "n":
			return nil
		}
	}
}

// customTimeLoop reports back=true when the user chose (b)ack, so the caller
// asks its y/n/c question again.
func (p *Prompt) customTimeLoop(today time.Time, lookup StatusLookup, packageIDs []int) (back bool, err error) {
	for {
		fmt.Fprintln(p.out, "Enter custom time (hh:mm AM/PM) or go (b)ack:")
		ans, ok := p.readLine()
		if !ok {
			return false, nil
		}
		if ans == "b" {
			return true, nil
		}
		at, err := parseClockTime(today, ans)
		if err != nil {
			continue
		}
		return false, p.lookupAndRender(lookup, at, packageIDs)
	}
}

// PresentStatuses renders rows looked up at at, so Prompt satisfies
// ports.StatusPresenter.
func (p *Prompt) PresentStatuses(at time.Time, rows []domain.StatusRow) error {
	p.render(at, rows)
	return nil
}

func (p *Prompt) lookupAndRender(lookup StatusLookup, at time.Time, packageIDs []int) error {
	rows, err := lookup.LookupStatus(at, packageIDs)
	if err != nil {
		return fmt.Errorf("tui: lookup status: %w", err)
	}
	p.render(at, rows)
	return nil
}

func (p *Prompt) render(at time.Time, rows []domain.StatusRow) {
	fmt.Fprintf(p.out, "Package statuses at %s:\n", at.Format("3:04 PM"))
	for _, r := range rows {
		fmt.Fprintf(p.out, "  #%d  %-9s  %s, %s %s  deadline %s  %dkg\n",
			r.PackageID, r.Status, r.Address, r.City, r.ZIP, r.Deadline, r.Weight)
	}
}

func (p *Prompt) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func parseClockTime(today time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("3:04 PM", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(today.Year(), today.Month(), today.Day(), t.Hour(), t.Minute(), 0, 0, today.Location()), nil
}
