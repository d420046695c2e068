// Package seed builds a deterministic, feasible initial Plan from the raw
// package list and side-constraint rules, before any stochastic search
// begins.
package seed

import (
	"sort"

	"cvrptw-solver/internal/domain"
)

// Build runs the six-step constructive seeder of spec.md §4.C over
// packages, loading linked groups onto truck 0, honoring required-truck and
// 9:05-exact rules, deferring the rest, reordering truck 0 by nearest
// neighbor, round-robining the remainder, installing minimal depot stops,
// and padding truck 2's morning with a fixed warm-up wait.
func Build(depot *domain.Location, trucks []*domain.Truck, packages []*domain.Package, linkedGroups []*domain.LinkedGroup) domain.Plan {
	sorted := make([]*domain.Package, len(packages))
	copy(sorted, packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DeliveryDeadline.Equal(sorted[j].DeliveryDeadline) {
			return sorted[i].DeliveryDeadline.Before(sorted[j].DeliveryDeadline)
		}
		return sorted[i].EarliestLoad.Before(sorted[j].EarliestLoad)
	})

	// Step 1: every linked group, in group order, onto truck 0.
	linkedMembers := make(map[int]bool)
	for _, group := range linkedGroups {
		for _, p := range group.Members {
			trucks[0].LoadPackage(p)
			linkedMembers[p.ID] = true
		}
	}

	remaining := make([]*domain.Package, 0, len(sorted))
	for _, p := range sorted {
		if linkedMembers[p.ID] {
			continue
		}
		remaining = append(remaining, p)
	}

	// Step 2: required truck, or 9:05-exact onto truck 1.
	rest := remaining[:0:0]
	for _, p := range remaining {
		switch {
		case p.RequiredTruckNumber != nil:
			truckIdx := *p.RequiredTruckNumber - 1
			trucks[truckIdx].LoadPackage(p)
		case p.EarliestLoad.Hour() == 9 && p.EarliestLoad.Minute() == 5:
			trucks[1].LoadPackage(p)
		default:
			rest = append(rest, p)
		}
	}
	remaining = rest

	// Step 3: deferred pass — skip if deadline-hour > 10 or earliest-load
	// hour > 8; else load onto truck 0.
	rest = remaining[:0:0]
	for _, p := range remaining {
		if p.DeliveryDeadline.Hour() > 10 || p.EarliestLoad.Hour() > 8 {
			rest = append(rest, p)
			continue
		}
		trucks[0].LoadPackage(p)
	}
	remaining = rest

	// Step 4: nearest-neighbor reorder of truck 0's current packages.
	trucks[0].Route.Packages = nearestNeighborOrder(depot, trucks[0].Route.Packages)

	// Step 5: round-robin the remainder across all trucks.
	for i, p := range remaining {
		trucks[i%len(trucks)].LoadPackage(p)
	}

	// Step 6: minimal depot stops per truck.
	plan := make(domain.Plan, len(trucks))
	for i, t := range trucks {
		t.Route.SetMinimalDepotStops(t.Capacity)
		plan[i] = t.Route
	}

	// Step 7: fixed warm-up adjustment — 95 minutes of wait on truck 2's
	// start-of-day depot stop.
	if len(plan) > 1 {
		if stop := plan[1].GetDepotStop(0); stop != nil {
			stop.IncreaseWait(95)
		}
	}

	return plan
}

// nearestNeighborOrder greedily reorders packages into a nearest-neighbor
// tour starting from start, always picking the closest unvisited delivery
// location as the next step.
func nearestNeighborOrder(start *domain.Location, packages []*domain.Package) []*domain.Package {
	ordered := make([]*domain.Package, len(packages))
	copy(ordered, packages)

	cur := start
	for i := 0; i < len(ordered); i++ {
		nearestIdx := i
		nearestDist := cur.DistanceTo(ordered[i].DeliveryLocation.ID)
		for j := i + 1; j < len(ordered); j++ {
			d := cur.DistanceTo(ordered[j].DeliveryLocation.ID)
			if d < nearestDist {
				nearestDist = d
				nearestIdx = j
			}
		}
		ordered[i], ordered[nearestIdx] = ordered[nearestIdx], ordered[i]
		cur = ordered[i].DeliveryLocation
	}
	return ordered
}
