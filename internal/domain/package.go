package domain

import (
	"fmt"
	"time"

	"cvrptw-solver/internal/notes"
)

// LinkedGroup is a shared handle identifying a set of packages that must
// ride together on one truck within one inter-depot segment. Membership is
// compared by pointer identity, never by content.
type LinkedGroup struct {
	Members []*Package
}

// Contains reports whether p is a member of the group.
func (g *LinkedGroup) Contains(p *Package) bool {
	if g == nil {
		return false
	}
	for _, m := range g.Members {
		if m == p {
			return true
		}
	}
	return false
}

// Status is the user-visible delivery status of a package at a query time.
type Status string

const (
	StatusNotReady Status = "NOT READY"
	StatusAtHub    Status = "AT HUB"
	StatusEnRoute  Status = "EN ROUTE"
	StatusDelivered Status = "DELIVERED"
)

// Package is a single delivery unit: a destination, a load/delivery time
// window, mass, and whatever side constraints its notes encode.
type Package struct {
	ID               int
	DeliveryLocation *Location

	// EarliestLoad defaults to start-of-day; parsed notes (DelayedFlight,
	// WrongAddress) may move it later.
	EarliestLoad     time.Time
	DeliveryDeadline time.Time
	Mass             int

	RawNotes string
	Note     notes.Note

	RequiredTruckNumber *int
	LinkedPackageIDs    []int
	LinkedGroup         *LinkedGroup

	// AssignedTruck is the truck number (1..N) owning the route this
	// package currently sits on, or nil if unassigned.
	AssignedTruck *int

	// LoadTime/DeliveryTime are set by the evaluator when it simulates a
	// plan; nil until a route containing this package has been walked.
	LoadTime     *time.Time
	DeliveryTime *time.Time
}

// NewPackage constructs a Package and parses its notes into a typed variant,
// applying the earliest-load/required-truck/linked-group side effects the
// note implies.
func NewPackage(id int, loc *Location, earliestLoad, deadline time.Time, mass int, rawNotes string) *Package {
	p := &Package{
		ID:               id,
		DeliveryLocation: loc,
		EarliestLoad:     earliestLoad,
		DeliveryDeadline: deadline,
		Mass:             mass,
		RawNotes:         rawNotes,
	}
	p.Note = notes.Parse(rawNotes)
	switch n := p.Note.(type) {
	case notes.DelayedFlight:
		y, m, d := earliestLoad.Date()
		p.EarliestLoad = time.Date(y, m, d, 9, 5, 0, 0, earliestLoad.Location())
	case notes.WrongAddress:
		y, m, d := earliestLoad.Date()
		p.EarliestLoad = time.Date(y, m, d, 10, 20, 0, 0, earliestLoad.Location())
	case notes.RequiredTruck:
		num := n.Number
		p.RequiredTruckNumber = &num
	case notes.LinkedWith:
		p.LinkedPackageIDs = n.IDs
	}
	return p
}

func (p *Package) String() string { return fmt.Sprintf("P.%d", p.ID) }

// AssignTruck records the number of the truck whose route now owns p, or
// clears the back-reference when truckNumber is nil.
func (p *Package) AssignTruck(truckNumber *int) {
	p.AssignedTruck = truckNumber
}

// ChangeDeliveryLocation applies the one corrective command the spec allows
// before seeding: overriding the delivery destination.
func (p *Package) ChangeDeliveryLocation(loc *Location) {
	p.DeliveryLocation = loc
}

// DeliveryStatus reports p's user-visible status at curTime, per spec.md §7.
// Packages never simulated (LoadTime/DeliveryTime nil) read as NOT READY or
// AT HUB depending only on EarliestLoad.
func (p *Package) DeliveryStatus(curTime time.Time) Status {
	if curTime.Before(p.EarliestLoad) {
		return StatusNotReady
	}
	if p.LoadTime == nil || curTime.Before(*p.LoadTime) {
		return StatusAtHub
	}
	if p.DeliveryTime == nil || curTime.Before(*p.DeliveryTime) {
		return StatusEnRoute
	}
	return StatusDelivered
}
