package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cvrptw-solver/internal/domain"
)

type fakeLookup struct {
	calls []time.Time
	rows  []domain.StatusRow
}

func (f *fakeLookup) LookupStatus(at time.Time, packageIDs []int) ([]domain.StatusRow, error) {
	f.calls = append(f.calls, at)
	return f.rows, nil
}

func TestShowPackageStatusesYesUsesGivenTime(t *testing.T) {
	in := strings.NewReader("y\n")
	var out bytes.Buffer
	p := New(in, &out)
	lookup := &fakeLookup{rows: []domain.StatusRow{{PackageID: 1, Status: domain.StatusEnRoute}}}
	today := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	if err := p.ShowPackageStatuses(today, "8:55 AM", lookup, []int{1}); err != nil {
		t.Fatalf("ShowPackageStatuses() error = %v", err)
	}
	if len(lookup.calls) != 1 {
		t.Fatalf("expected exactly one lookup call, got %d", len(lookup.calls))
	}
	if lookup.calls[0].Hour() != 8 || lookup.calls[0].Minute() != 55 {
		t.Errorf("lookup called with %v, want 8:55 AM", lookup.calls[0])
	}
	if !strings.Contains(out.String(), "EN ROUTE") {
		t.Errorf("output %q does not render the looked-up status", out.String())
	}
}

func TestShowPackageStatusesNoSkipsLookup(t *testing.T) {
	in := strings.NewReader("n\n")
	var out bytes.Buffer
	p := New(in, &out)
	lookup := &fakeLookup{}
	today := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	if err := p.ShowPackageStatuses(today, "8:55 AM", lookup, []int{1}); err != nil {
		t.Fatalf("ShowPackageStatuses() error = %v", err)
	}
	if len(lookup.calls) != 0 {
		t.Errorf("expected no lookup call after 'n', got %d", len(lookup.calls))
	}
}

func TestShowPackageStatusesCustomTimeRetriesOnMalformedInput(t *testing.T) {
	in := strings.NewReader("c\nnot-a-time\n10:00 AM\n")
	var out bytes.Buffer
	p := New(in, &out)
	lookup := &fakeLookup{}
	today := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	if err := p.ShowPackageStatuses(today, "8:55 AM", lookup, []int{1}); err != nil {
		t.Fatalf("ShowPackageStatuses() error = %v", err)
	}
	if len(lookup.calls) != 1 {
		t.Fatalf("expected exactly one lookup call after retry, got %d", len(lookup.calls))
	}
	if lookup.calls[0].Hour() != 10 {
		t.Errorf("lookup called with %v, want 10:00 AM", lookup.calls[0])
	}
}
