package domain

import (
	"testing"
	"time"
)

func TestNewPackageAppliesDelayedFlightEarliestLoad(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(1, &Location{ID: 1}, start, start.Add(8*time.Hour), 1,
		"Delayed on flight---will not arrive to depot until 9:05 am")

	if pkg.EarliestLoad.Hour() != 9 || pkg.EarliestLoad.Minute() != 5 {
		t.Errorf("EarliestLoad = %v, want 9:05", pkg.EarliestLoad)
	}
}

func TestNewPackageAppliesRequiredTruck(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(1, &Location{ID: 1}, start, start.Add(8*time.Hour), 1, "Can only be on truck 2")

	if pkg.RequiredTruckNumber == nil || *pkg.RequiredTruckNumber != 2 {
		t.Errorf("RequiredTruckNumber = %v, want 2", pkg.RequiredTruckNumber)
	}
}

func TestDeliveryStatusProgressesThroughLifecycle(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := NewPackage(1, &Location{ID: 1}, start.Add(time.Hour), start.Add(8*time.Hour), 1, "")

	if got := pkg.DeliveryStatus(start); got != StatusNotReady {
		t.Errorf("before EarliestLoad: status = %s, want NOT READY", got)
	}
	if got := pkg.DeliveryStatus(start.Add(2 * time.Hour)); got != StatusAtHub {
		t.Errorf("after EarliestLoad, before load: status = %s, want AT HUB", got)
	}

	load := start.Add(2 * time.Hour)
	pkg.LoadTime = &load
	if got := pkg.DeliveryStatus(start.Add(3 * time.Hour)); got != StatusEnRoute {
		t.Errorf("after load, before delivery: status = %s, want EN ROUTE", got)
	}

	delivered := start.Add(4 * time.Hour)
	pkg.DeliveryTime = &delivered
	if got := pkg.DeliveryStatus(start.Add(5 * time.Hour)); got != StatusDelivered {
		t.Errorf("after delivery: status = %s, want DELIVERED", got)
	}
}

func TestChangeDeliveryLocationOverridesDestination(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	original := &Location{ID: 1}
	replacement := &Location{ID: 2}
	pkg := NewPackage(1, original, start, start.Add(8*time.Hour), 1, "")

	pkg.ChangeDeliveryLocation(replacement)

	if pkg.DeliveryLocation != replacement {
		t.Errorf("DeliveryLocation = %v, want the replacement location", pkg.DeliveryLocation)
	}
}
