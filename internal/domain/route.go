package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DepotStop marks a mid-route return to the depot: the position in the
// package list at which the truck reloads, and a nonnegative wait applied
// there.
type DepotStop struct {
	RouteIndex  int
	WaitMinutes int
}

func NewDepotStop(routeIndex int) *DepotStop {
	return &DepotStop{RouteIndex: routeIndex}
}

// IncreaseWait adds minutes of wait at this stop.
func (d *DepotStop) IncreaseWait(minutes int) {
	d.WaitMinutes += minutes
}

// DecreaseWait removes up to minutes of wait, clamped at zero.
func (d *DepotStop) DecreaseWait(minutes int) {
	d.WaitMinutes -= minutes
	if d.WaitMinutes < 0 {
		d.WaitMinutes = 0
	}
}

func (d *DepotStop) String() string {
	return "D(" + strconv.Itoa(d.WaitMinutes) + ")"
}

// Step is one yielded element of a route walk: either a package delivery or
// a depot stop.
type Step interface {
	isStep()
}

type PackageStep struct{ Package *Package }
type DepotStopStep struct{ Stop *DepotStop }

func (PackageStep) isStep()    {}
func (DepotStopStep) isStep()  {}

// Route is one truck's ordered deliveries plus its depot-stop set. Packages
// and depot stops are cloned independently (copy-on-write) so neighborhood
// operators that touch only one of the two never pay for a deep copy of the
// other.
type Route struct {
	Truck      *Truck
	Packages   []*Package
	DepotStops []*DepotStop
}

// NewRoute returns an empty route owned by truck, with the implicit
// start-of-day depot stop at index 0.
func NewRoute(truck *Truck) *Route {
	return &Route{Truck: truck, DepotStops: []*DepotStop{NewDepotStop(0)}}
}

// Len is the number of packages on the route.
func (r *Route) Len() int { return len(r.Packages) }

func (r *Route) String() string {
	var sb strings.Builder
	sb.WriteString(r.Truck.String())
	sb.WriteString(": ")
	c := r.Steps()
	first := true
	for {
		step, ok := c.Next()
		if !ok {
			break
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		switch s := step.(type) {
		case PackageStep:
			sb.WriteString(s.Package.String())
		case DepotStopStep:
			sb.WriteString(s.Stop.String())
		}
	}
	return sb.String()
}

// DebugSteps renders one line per step — package id, destination address,
// and delivery deadline, or the wait minutes at a depot stop — restoring
// the verbose per-stop dump of DeliverySimulator.print_routes.
func (r *Route) DebugSteps() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s route:\n", r.Truck.String())
	c := r.Steps()
	idx := 0
	for {
		step, ok := c.Next()
		if !ok {
			break
		}
		switch s := step.(type) {
		case PackageStep:
			fmt.Fprintf(&sb, "  %d: package #%d -> %s (deadline %s)\n",
				idx, s.Package.ID, s.Package.DeliveryLocation.Address,
				s.Package.DeliveryDeadline.Format("3:04 PM"))
		case DepotStopStep:
			fmt.Fprintf(&sb, "  %d: depot stop, wait %d min\n", idx, s.Stop.WaitMinutes)
		}
		idx++
	}
	return sb.String()
}

// CloneWithPackages returns a shallow copy of r whose Packages slice is an
// independent clone (opt_copy_packages); DepotStops is aliased.
func (r *Route) CloneWithPackages() *Route {
	clone := *r
	clone.Packages = append([]*Package(nil), r.Packages...)
	return &clone
}

// CloneWithDepotStops returns a shallow copy of r whose DepotStops slice (and
// each stop within it) is an independent clone (opt_copy_depot_stops);
// Packages is aliased.
func (r *Route) CloneWithDepotStops() *Route {
	clone := *r
	clone.DepotStops = make([]*DepotStop, len(r.DepotStops))
	for i, s := range r.DepotStops {
		cp := *s
		clone.DepotStops[i] = &cp
	}
	return &clone
}

// StepCursor is an explicit, stateful iterator over a route's steps — no
// goroutine/channel machinery, per spec.md §9.
type StepCursor struct {
	route        *Route
	pIdx, dIdx   int
	finalEmitted bool
}

// Steps returns a fresh cursor over r's packages interleaved with its depot
// stops by index, always closing with an implicit final depot stop at
// index len(Packages).
func (r *Route) Steps() *StepCursor {
	return &StepCursor{route: r}
}

// Next returns the next step and true, or (nil, false) once exhausted.
func (c *StepCursor) Next() (Step, bool) {
	r := c.route
	lp := len(r.Packages)
	ld := len(r.DepotStops)

	for c.pIdx < lp || c.dIdx < ld {
		if c.pIdx < lp && c.dIdx < ld && c.pIdx == r.DepotStops[c.dIdx].RouteIndex {
			s := r.DepotStops[c.dIdx]
			c.dIdx++
			return DepotStopStep{Stop: s}, true
		}
		if c.pIdx < lp {
			s := r.Packages[c.pIdx]
			c.pIdx++
			return PackageStep{Package: s}, true
		}
		s := r.DepotStops[c.dIdx]
		c.dIdx++
		return DepotStopStep{Stop: s}, true
	}
	if !c.finalEmitted {
		c.finalEmitted = true
		return DepotStopStep{Stop: NewDepotStop(lp)}, true
	}
	return nil, false
}

// AddPackage appends pkg to the route, or inserts it at insertIdx when >= 0,
// and records the back-reference to the owning truck.
func (r *Route) AddPackage(pkg *Package, insertIdx int) {
	if insertIdx < 0 || insertIdx >= len(r.Packages) {
		r.Packages = append(r.Packages, pkg)
	} else {
		r.Packages = append(r.Packages, nil)
		copy(r.Packages[insertIdx+1:], r.Packages[insertIdx:])
		r.Packages[insertIdx] = pkg
	}
	num := r.Truck.Number
	pkg.AssignTruck(&num)
}

// RemovePackage removes the first occurrence of pkg and clears its
// assigned-truck back-reference.
func (r *Route) RemovePackage(pkg *Package) {
	for i, p := range r.Packages {
		if p == pkg {
			r.Packages = append(r.Packages[:i], r.Packages[i+1:]...)
			pkg.AssignTruck(nil)
			return
		}
	}
}

// GetDepotStop returns the stop at routeIdx, or nil if none exists there.
func (r *Route) GetDepotStop(routeIdx int) *DepotStop {
	for _, s := range r.DepotStops {
		if s.RouteIndex == routeIdx {
			return s
		}
	}
	return nil
}

// AddDepotStop inserts a new stop at insertIdx, keeping DepotStops sorted by
// RouteIndex. A stop already at that index makes this a no-op — two stops
// cannot coexist at the same route index (spec.md §9).
func (r *Route) AddDepotStop(insertIdx int) {
	for i, s := range r.DepotStops {
		if s.RouteIndex == insertIdx {
			return
		}
		if insertIdx < s.RouteIndex {
			r.DepotStops = append(r.DepotStops, nil)
			copy(r.DepotStops[i+1:], r.DepotStops[i:])
			r.DepotStops[i] = NewDepotStop(insertIdx)
			return
		}
	}
	r.DepotStops = append(r.DepotStops, NewDepotStop(insertIdx))
}

// RemoveDepotStop deletes stop from the route.
func (r *Route) RemoveDepotStop(stop *DepotStop) {
	for i, s := range r.DepotStops {
		if s == stop {
			r.DepotStops = append(r.DepotStops[:i], r.DepotStops[i+1:]...)
			return
		}
	}
}

// MoveDepotStop relocates stop to newIdx, unless a stop already occupies
// newIdx (no-op in that case), then re-sorts by RouteIndex.
func (r *Route) MoveDepotStop(stop *DepotStop, newIdx int) {
	for _, s := range r.DepotStops {
		if s.RouteIndex == newIdx {
			return
		}
	}
	stop.RouteIndex = newIdx
	sort.Slice(r.DepotStops, func(i, j int) bool {
		return r.DepotStops[i].RouteIndex < r.DepotStops[j].RouteIndex
	})
}

// DepotStopIndices returns a map of route-index to depot stop.
func (r *Route) DepotStopIndices() map[int]*DepotStop {
	out := make(map[int]*DepotStop, len(r.DepotStops))
	for _, s := range r.DepotStops {
		out[s.RouteIndex] = s
	}
	return out
}

// SetMinimalDepotStops replaces DepotStops with one stop at every multiple
// of capacity from 0 up to the route's length.
func (r *Route) SetMinimalDepotStops(capacity int) {
	r.DepotStops = nil
	for i := 0; i < len(r.Packages); i++ {
		if i%capacity == 0 {
			r.AddDepotStop(i)
		}
	}
	if len(r.DepotStops) == 0 || r.DepotStops[0].RouteIndex != 0 {
		r.AddDepotStop(0)
	}
}
