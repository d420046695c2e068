package domain

import (
	"strings"
	"testing"
	"time"
)

func TestTruckLoadPackageAssignsBackReference(t *testing.T) {
	depot := &Location{ID: 999}
	truck := NewTruck(1, 16, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(1, &Location{ID: 5}, start, start.Add(8*time.Hour), 5, "")

	truck.LoadPackage(pkg)

	if truck.Route.Len() != 1 {
		t.Fatalf("route length = %d, want 1", truck.Route.Len())
	}
	if pkg.AssignedTruck == nil || *pkg.AssignedTruck != 1 {
		t.Errorf("package assigned-truck = %v, want 1", pkg.AssignedTruck)
	}
}

func TestRouteStepsInterleavesDepotStopsAndClosesWithFinal(t *testing.T) {
	depot := &Location{ID: 999}
	truck := NewTruck(1, 2, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		pkg := NewPackage(i, &Location{ID: i}, start, start.Add(8*time.Hour), 1, "")
		truck.LoadPackage(pkg)
	}
	truck.Route.SetMinimalDepotStops(2)

	var steps []Step
	c := truck.Route.Steps()
	for {
		s, ok := c.Next()
		if !ok {
			break
		}
		steps = append(steps, s)
	}

	// depot stop 0, pkg1, pkg2, depot stop 2, pkg3, final depot stop at 3
	if len(steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(steps))
	}
	if _, ok := steps[0].(DepotStopStep); !ok {
		t.Errorf("step 0 should be a depot stop")
	}
	last, ok := steps[len(steps)-1].(DepotStopStep)
	if !ok || last.Stop.RouteIndex != 3 {
		t.Errorf("final step should be an implicit depot stop at index 3, got %#v", steps[len(steps)-1])
	}
}

func TestRouteCloneWithPackagesIsIndependent(t *testing.T) {
	depot := &Location{ID: 999}
	truck := NewTruck(1, 16, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(1, &Location{ID: 5}, start, start.Add(8*time.Hour), 5, "")
	truck.LoadPackage(pkg)

	clone := truck.Route.CloneWithPackages()
	clone.Packages = append(clone.Packages, NewPackage(2, &Location{ID: 6}, start, start.Add(8*time.Hour), 5, ""))

	if truck.Route.Len() != 1 {
		t.Errorf("original route mutated by clone append, len = %d", truck.Route.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone len = %d, want 2", clone.Len())
	}
}

func TestRouteDebugStepsListsPackagesAndDepotStops(t *testing.T) {
	depot := &Location{ID: 999}
	truck := NewTruck(1, 16, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(7, &Location{ID: 5, Address: "123 Main St"}, start, start.Add(8*time.Hour), 5, "")
	truck.LoadPackage(pkg)

	out := truck.Route.DebugSteps()
	if !strings.Contains(out, "package #7") {
		t.Errorf("DebugSteps() = %q, want it to mention package #7", out)
	}
	if !strings.Contains(out, "123 Main St") {
		t.Errorf("DebugSteps() = %q, want it to mention the delivery address", out)
	}
	if !strings.Contains(out, "depot stop") {
		t.Errorf("DebugSteps() = %q, want it to mention a depot stop", out)
	}
}
