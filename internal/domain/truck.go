package domain

import "fmt"

// Truck is one vehicle in the fleet: a unique number, capacity, speed, and
// the Route it owns. Fleet is homogeneous per spec.md Non-goals.
type Truck struct {
	Number          int
	Capacity        int
	Speed           float64
	StartOfDay      string // formatted start-of-day, informational only
	DepotLocation   *Location
	Route           *Route
	CurrentLocation *Location
	MilesDriven     float64
}

// NewTruck builds a truck starting at the depot with an empty route and a
// single implicit depot stop at index 0.
func NewTruck(number, capacity int, speed float64, depot *Location) *Truck {
	t := &Truck{
		Number:          number,
		Capacity:        capacity,
		Speed:           speed,
		DepotLocation:   depot,
		CurrentLocation: depot,
	}
	t.Route = NewRoute(t)
	return t
}

// LoadPackage appends a package to the truck's route, regardless of current
// capacity — capacity is a feasibility concern for the evaluator, not a
// hard constraint on construction (the seeder may temporarily overload a
// route between segments; depot stops partition it back into legal chunks).
func (t *Truck) LoadPackage(pkg *Package) {
	t.Route.AddPackage(pkg, -1)
}

func (t *Truck) String() string {
	return fmt.Sprintf("truck%d", t.Number)
}
