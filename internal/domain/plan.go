package domain

// Plan is an ordered sequence of Routes, one per truck; the route's index
// in Plan is also its owning truck's index (truck order is stable).
type Plan []*Route

// Clone returns a shallow copy of the plan slice itself — individual Route
// pointers are aliased. Callers that mean to mutate a route must first
// replace its slot with a CloneWithPackages/CloneWithDepotStops result.
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// PackageCount returns the total number of packages across all routes.
func (p Plan) PackageCount() int {
	n := 0
	for _, r := range p {
		n += r.Len()
	}
	return n
}

// Constraint names one of the five named feasibility dimensions, in the
// stable order the evaluator reports them.
type Constraint int

const (
	DeliveredByDeadlines Constraint = iota
	AvailableWhenLoaded
	PackagesOnRequiredTrucks
	WithinTruckCapacity
	SatisfiedLinkedDeliveries
	constraintCount
)

func (c Constraint) String() string {
	switch c {
	case DeliveredByDeadlines:
		return "DELIVERED_BY_DEADLINES"
	case AvailableWhenLoaded:
		return "AVAILABLE_WHEN_LOADED"
	case PackagesOnRequiredTrucks:
		return "PACKAGES_ON_REQUIRED_TRUCKS"
	case WithinTruckCapacity:
		return "WITHIN_TRUCK_CAPACITY"
	case SatisfiedLinkedDeliveries:
		return "SATISFIED_LINKED_DELIVERIES"
	default:
		return "UNKNOWN"
	}
}

// TriState is a three-valued feasibility observation: not yet observed
// reads as satisfied (true) until proven otherwise, matching the source
// semantics where an unobserved constraint defaults to true.
type TriState int

const (
	Unobserved TriState = iota
	Satisfied
	Violated
)

// Bool reports the constraint as satisfied unless explicitly Violated.
func (t TriState) Bool() bool { return t != Violated }

// Feasibility is the fixed-length tri-state vector the evaluator returns,
// one entry per Constraint in stable order.
type Feasibility [constraintCount]TriState

// AllSatisfied reports whether every constraint reads as satisfied
// (Unobserved or Satisfied).
func (f Feasibility) AllSatisfied() bool {
	for _, c := range f {
		if !c.Bool() {
			return false
		}
	}
	return true
}

// StatusRow is one row of a lookup_status query result.
type StatusRow struct {
	PackageID int
	Address   string
	City      string
	ZIP       string
	Deadline  string
	Weight    int
	Status    Status
}
