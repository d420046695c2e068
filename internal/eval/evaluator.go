// Package eval computes feasibility and cost for a candidate Plan: the five
// named constraints of spec.md §4.D plus total miles driven, with an
// early-exit mode for the hot annealing loop.
package eval

import (
	"time"

	"cvrptw-solver/internal/domain"
)

// Evaluator simulates a plan against a fixed depot location, truck speed,
// and start-of-day to produce a Feasibility vector and total cost.
type Evaluator struct {
	Depot      *domain.Location
	Speed      float64
	StartOfDay time.Time
}

// New builds an Evaluator for the given depot/speed/start-of-day triple.
func New(depot *domain.Location, speed float64, startOfDay time.Time) *Evaluator {
	return &Evaluator{Depot: depot, Speed: speed, StartOfDay: startOfDay}
}

// Eval is the cost-only shortcut: total miles driven by the plan, without
// simulating time windows or checking feasibility.
func (e *Evaluator) Eval(plan domain.Plan) float64 {
	total := 0.0
	for _, route := range plan {
		pred := e.Depot
		cursor := route.Steps()
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			switch s := step.(type) {
			case domain.PackageStep:
				total += pred.DistanceTo(s.Package.DeliveryLocation.ID)
				pred = s.Package.DeliveryLocation
			case domain.DepotStopStep:
				total += pred.DistanceTo(e.Depot.ID)
				pred = e.Depot
			}
		}
	}
	return total
}

// TestEval simulates the plan (per-route, per-step timing), filling each
// package's LoadTime/DeliveryTime as it walks, and returns the full
// feasibility vector plus total cost. When returnEarly is true, evaluation
// stops as soon as any constraint is known-violated and returns the
// cost-only Eval of the whole plan; the vector then holds only what was
// observed before the stop, and packages not yet walked keep their previous
// LoadTime/DeliveryTime — callers that need the full vector must pass
// false.
func (e *Evaluator) TestEval(plan domain.Plan, returnEarly bool) (domain.Feasibility, float64) {
	var feas domain.Feasibility

	feas[domain.WithinTruckCapacity] = boolToTri(validateCapacity(plan))
	if returnEarly && !feas.AllSatisfied() {
		return feas, e.Eval(plan)
	}

	feas[domain.SatisfiedLinkedDeliveries] = boolToTri(validateLinkedDeliveries(plan))
	if returnEarly && !feas.AllSatisfied() {
		return feas, e.Eval(plan)
	}

	totalMiles := 0.0
	for truckIdx, route := range plan {
		curTime := e.StartOfDay
		loadTime := e.StartOfDay
		pred := e.Depot

		cursor := route.Steps()
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			switch s := step.(type) {
			case domain.PackageStep:
				pkg := s.Package
				dist := pred.DistanceTo(pkg.DeliveryLocation.ID)
				curTime = curTime.Add(hoursToDuration(dist / e.Speed))

				pkg.LoadTime = timePtr(loadTime)
				pkg.DeliveryTime = timePtr(curTime)

				if pkg.RequiredTruckNumber != nil {
					update(&feas[domain.PackagesOnRequiredTrucks], *pkg.RequiredTruckNumber == truckIdx+1)
				}
				update(&feas[domain.DeliveredByDeadlines], !curTime.After(pkg.DeliveryDeadline))
				update(&feas[domain.AvailableWhenLoaded], !loadTime.Before(pkg.EarliestLoad))

				if returnEarly && !feas.AllSatisfied() {
					return feas, e.Eval(plan)
				}

				totalMiles += dist
				pred = pkg.DeliveryLocation
			case domain.DepotStopStep:
				dist := pred.DistanceTo(e.Depot.ID)
				curTime = curTime.Add(hoursToDuration(dist / e.Speed)).Add(time.Duration(s.Stop.WaitMinutes) * time.Minute)
				loadTime = curTime
				pred = e.Depot
				totalMiles += dist
			}
		}
	}

	return feas, totalMiles
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func timePtr(t time.Time) *time.Time {
	tt := t
	return &tt
}

func boolToTri(b bool) domain.TriState {
	if b {
		return domain.Satisfied
	}
	return domain.Violated
}

// update folds an observation into an already-possibly-unobserved entry:
// unobserved or satisfied stays satisfied only if incoming is also true.
func update(t *domain.TriState, ok bool) {
	prevOK := *t != domain.Violated
	if prevOK && ok {
		*t = domain.Satisfied
	} else {
		*t = domain.Violated
	}
}

// validateCapacity checks that every inter-depot-stop segment (and the
// trailing segment) is within truck capacity. Routes no longer than
// capacity are trivially feasible regardless of depot stops.
func validateCapacity(plan domain.Plan) bool {
	for _, route := range plan {
		if route.Len() <= route.Truck.Capacity {
			continue
		}
		curIdx := 0
		ok := true
		for _, stop := range route.DepotStops {
			if stop.RouteIndex-curIdx > route.Truck.Capacity {
				ok = false
			}
			curIdx = stop.RouteIndex
		}
		if route.Len()-curIdx > route.Truck.Capacity {
			ok = false
		}
		if !ok {
			return false
		}
	}
	return true
}

// validateLinkedDeliveries checks that every linked group is fully
// contained within one contiguous inter-depot-stop segment of one route.
// The "loaded-together" buffer accumulates linked-group members as a route
// is walked and is flushed (checked against every still-open group) at
// every depot stop, matching the source semantics exactly.
func validateLinkedDeliveries(plan domain.Plan) bool {
	var remaining []*domain.LinkedGroup
	seen := make(map[*domain.LinkedGroup]bool)
	for _, route := range plan {
		cursor := route.Steps()
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			if ps, isPkg := step.(domain.PackageStep); isPkg {
				if g := ps.Package.LinkedGroup; g != nil && !seen[g] {
					seen[g] = true
					remaining = append(remaining, g)
				}
			}
		}
	}
	if len(remaining) == 0 {
		return true
	}

	open := make(map[*domain.LinkedGroup]bool, len(remaining))
	for _, g := range remaining {
		open[g] = true
	}

	for _, route := range plan {
		cursor := route.Steps()
		var loadedTogether []*domain.Package
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			if len(open) == 0 {
				return true
			}
			switch s := step.(type) {
			case domain.PackageStep:
				if s.Package.LinkedGroup != nil {
					loadedTogether = append(loadedTogether, s.Package)
				}
			case domain.DepotStopStep:
				for _, pkg := range loadedTogether {
					group := pkg.LinkedGroup
					if group == nil || !open[group] {
						continue
					}
					if groupSubsetOf(group, loadedTogether) {
						delete(open, group)
					} else {
						return false
					}
					if len(open) == 0 {
						return true
					}
				}
				loadedTogether = loadedTogether[:0]
			}
		}
	}
	return len(open) == 0
}

func groupSubsetOf(group *domain.LinkedGroup, loaded []*domain.Package) bool {
	for _, m := range group.Members {
		found := false
		for _, p := range loaded {
			if p == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
