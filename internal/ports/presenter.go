package ports

import (
	"time"

	"cvrptw-solver/internal/domain"
)

// StatusPresenter renders a package-status lookup result to the end user —
// the CLI's interactive status-lookup loop implements this over a
// terminal; an HTTP handler could implement it over JSON.
type StatusPresenter interface {
	PresentStatuses(at time.Time, rows []domain.StatusRow) error
}

// ProgressReporter is notified as the annealing schedule cools, so a long
// optimization run can show a progress bar without the core search package
// depending on any particular UI.
type ProgressReporter interface {
	ReportCoolingStep(step, total int)
}

// RoutePlotter is the out-of-scope visualization seam named in spec.md §1's
// Non-goals: the interface exists so a future adapter could plot routes,
// but no concrete implementation ships.
type RoutePlotter interface {
	PlotRoutes(plan domain.Plan) error
}
