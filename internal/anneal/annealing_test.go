package anneal

import (
	"math/rand"
	"testing"
	"time"

	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/eval"
)

func buildAnnealPlan(t *testing.T) (domain.Plan, *eval.Evaluator) {
	t.Helper()
	depot := &domain.Location{ID: 0, Distances: map[int]float64{}}
	truck1 := domain.NewTruck(1, 100, 18, depot)
	truck2 := domain.NewTruck(2, 100, 18, depot)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		loc := &domain.Location{ID: i + 1, Distances: map[int]float64{}}
		pkg := domain.NewPackage(i+1, loc, start, start.Add(20*time.Hour), 1, "")
		truck1.LoadPackage(pkg)
	}
	truck1.Route.SetMinimalDepotStops(100)
	truck2.Route.SetMinimalDepotStops(100)

	plan := domain.Plan{truck1.Route, truck2.Route}
	return plan, eval.New(depot, 18, start)
}

func TestAnnealerTerminatesAtFinalTemp(t *testing.T) {
	plan, evaluator := buildAnnealPlan(t)
	rng := rand.New(rand.NewSource(42))
	a := New(evaluator.TestEval, rng, plan, 100, 1, 5, 0.9)

	result := a.Run(nil)
	if !a.isDone() {
		t.Error("expected annealer to reach final temperature")
	}
	if result == nil {
		t.Error("expected a non-nil resulting plan")
	}
}

func TestAnnealerNeverWorsensAFeasibleSolutionForFree(t *testing.T) {
	plan, evaluator := buildAnnealPlan(t)
	_, initialCost := evaluator.TestEval(plan, false)

	rng := rand.New(rand.NewSource(7))
	a := New(evaluator.TestEval, rng, plan, 0.0001, 0.00001, 3, 0.5)
	result := a.Run(nil)

	_, finalCost := evaluator.TestEval(result, false)
	if finalCost > initialCost+1e-9 {
		t.Errorf("at near-zero temperature, annealer should only accept improving moves: initial=%v final=%v", initialCost, finalCost)
	}
}

func TestCostHistoryRecordsOneEntryPerCoolingStep(t *testing.T) {
	plan, evaluator := buildAnnealPlan(t)
	rng := rand.New(rand.NewSource(9))
	a := New(evaluator.TestEval, rng, plan, 100, 1, 2, 0.5)
	a.Run(nil)

	expected := a.ExpectedIterations()
	if len(a.CostHistory()) > expected+1 {
		t.Errorf("cost history length %d exceeds expected cooling steps %d", len(a.CostHistory()), expected)
	}
}
