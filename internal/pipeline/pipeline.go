// Package pipeline orchestrates the full optimization run: seed, greedy
// local optimization, stochastic annealing, and a final wait-time
// tightening pass, with invariant checks between stages and timing logged
// the way the rest of the ambient stack logs operations.
package pipeline

import (
	"context"
	"math/rand"

	"cvrptw-solver/internal/anneal"
	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/eval"
	"cvrptw-solver/internal/platform/obs"
	"cvrptw-solver/internal/refine"
)

// Config bundles the tunables of an optimization run so callers do not need
// to thread the annealing schedule through every stage separately.
type Config struct {
	InitTemp    float64
	FinalTemp   float64
	IterPerTemp int
	Alpha       float64
	Rounds      int
}

// DefaultConfig mirrors the constants the original tuning run settled on:
// one round of annealing at 20 iterations per temperature step.
func DefaultConfig() Config {
	return Config{InitTemp: 1000, FinalTemp: 0.01, IterPerTemp: 20, Alpha: 0.9995, Rounds: 1}
}

// Run executes seed → two_opt → (anneal → two_opt)*Rounds → minimize_wait_times
// over initial, asserting feasibility is never lost between stages it
// expects to preserve it, and returns the final plan.
func Run(ctx context.Context, initial domain.Plan, evaluator *eval.Evaluator, rng *rand.Rand, cfg Config) domain.Plan {
	defer obs.Time(ctx, "pipeline.Run")(nil)

	feas, _ := evaluator.TestEval(initial, false)
	domain.Assert(feas.AllSatisfied(), "pipeline.Run", "seeded plan is not feasible: %v", feas)

	sol := runStage(ctx, "pipeline.two_opt_initial", func() domain.Plan {
		return refine.TwoOpt(initial, evaluator.TestEval)
	})
	feas, _ = evaluator.TestEval(sol, false)
	domain.Assert(feas.AllSatisfied(), "pipeline.Run", "plan became infeasible after initial two-opt: %v", feas)

	best := sol
	_, bestCost := evaluator.TestEval(best, false)

	for round := 0; round < cfg.Rounds; round++ {
		sol = runStage(ctx, "pipeline.anneal_round", func() domain.Plan {
			a := anneal.New(evaluator.TestEval, rng, sol, cfg.InitTemp, cfg.FinalTemp, cfg.IterPerTemp, cfg.Alpha)
			return a.Run(nil)
		})

		localOpt := runStage(ctx, "pipeline.two_opt_round", func() domain.Plan {
			return refine.TwoOpt(sol, evaluator.TestEval)
		})
		_, localCost := evaluator.TestEval(localOpt, false)
		_, solCost := evaluator.TestEval(sol, false)
		if localCost < solCost {
			sol = localOpt
		}

		feas, cost := evaluator.TestEval(sol, false)
		if feas.AllSatisfied() && cost < bestCost {
			best = sol
			bestCost = cost
		}
	}

	runStage(ctx, "pipeline.minimize_wait_times", func() domain.Plan {
		refine.MinimizeWaitTimes(best, evaluator.TestEval)
		return best
	})

	feas, _ = evaluator.TestEval(best, false)
	domain.Assert(feas.AllSatisfied(), "pipeline.Run", "final plan is not feasible: %v", feas)

	return best
}

func runStage(ctx context.Context, name string, fn func() domain.Plan) domain.Plan {
	defer obs.Time(ctx, name)(nil)
	return fn()
}
