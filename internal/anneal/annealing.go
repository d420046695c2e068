// Package anneal implements the geometric-cooling simulated annealing
// driver that searches the neighborhood of a plan for a lower-cost
// feasible solution, accepting worse neighbors with a temperature-decaying
// probability.
package anneal

import (
	"math"
	"math/rand"

	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/neighborhood"
)

// TestEvalFunc is the feasibility+cost oracle the annealer optimizes
// against; internal/eval.Evaluator.TestEval satisfies this.
type TestEvalFunc func(plan domain.Plan, returnEarly bool) (domain.Feasibility, float64)

// Annealer runs simulated annealing over a single current plan, threading
// one *rand.Rand through every neighbor draw and acceptance decision so a
// run is fully reproducible under a fixed seed.
type Annealer struct {
	testEval    TestEvalFunc
	rng         *rand.Rand
	solution    domain.Plan
	initTemp    float64
	curTemp     float64
	finalTemp   float64
	iterPerTemp int
	alpha       float64
	curFeas     domain.Feasibility
	curCost     float64
	feasible    bool
	costHistory []float64
}

// New builds an Annealer seeded with initSolution, cooling from initTemp to
// finalTemp geometrically by alpha (0 < alpha < 1), running iterPerTemp
// neighbor draws at each temperature step.
func New(testEval TestEvalFunc, rng *rand.Rand, initSolution domain.Plan, initTemp, finalTemp float64, iterPerTemp int, alpha float64) *Annealer {
	feas, cost := testEval(initSolution, false)
	return &Annealer{
		testEval:    testEval,
		rng:         rng,
		solution:    initSolution,
		initTemp:    initTemp,
		curTemp:     initTemp,
		finalTemp:   finalTemp,
		iterPerTemp: iterPerTemp,
		alpha:       alpha,
		curFeas:     feas,
		curCost:     cost,
		feasible:    feas.AllSatisfied(),
	}
}

// ExpectedIterations returns the number of cooling steps this run will take
// before reaching finalTemp, for progress reporting.
func (a *Annealer) ExpectedIterations() int {
	i := 0
	temp := a.initTemp
	for temp > a.finalTemp {
		i++
		temp *= a.alpha
	}
	return i
}

func (a *Annealer) isDone() bool { return a.curTemp <= a.finalTemp }

// Run executes the full cooling schedule and returns the current (most
// recently accepted) plan at termination. onCool, if non-nil, is invoked once per temperature step
// with the current (1-indexed) step and the expected total, for progress
// reporting; it does not affect the search.
func (a *Annealer) Run(onCool func(step, total int)) domain.Plan {
	total := a.ExpectedIterations()
	step := 0
	for !a.isDone() {
		step++
		if onCool != nil {
			onCool(step, total)
		}
		for i := 0; i < a.iterPerTemp; i++ {
			a.innerIteration()
		}
		a.costHistory = append(a.costHistory, a.curCost)
		a.curTemp *= a.alpha
	}
	return a.solution
}

// innerIteration draws exactly the first applicable neighbor from a freshly
// shuffled operator order and decides whether to accept it.
func (a *Annealer) innerIteration() {
	var candidate domain.Plan
	found := false
	neighborhood.GenerateNeighbors(a.rng, a.solution, func(p domain.Plan) bool {
		candidate = p
		found = true
		return false
	})
	if !found {
		return
	}

	newFeas, newCost := a.testEval(candidate, true)
	feasible := newFeas.AllSatisfied()

	curCostAdj, newCostAdj := a.curCost, newCost
	if !feasible {
		newCostAdj += a.initTemp * 1000
	}
	if !a.feasible {
		curCostAdj += a.initTemp * 1000
	}
	delta := newCostAdj - curCostAdj

	if delta <= 0 {
		a.accept(candidate, feasible, newCost)
		return
	}
	if a.rng.Float64() < math.Exp(-delta/a.curTemp) {
		a.accept(candidate, feasible, newCost)
	}
}

func (a *Annealer) accept(plan domain.Plan, feasible bool, cost float64) {
	a.solution = plan
	a.feasible = feasible
	a.curCost = cost
}

// CostHistory returns the accepted cost recorded at the end of every
// temperature step, for plotting.
func (a *Annealer) CostHistory() []float64 { return a.costHistory }
