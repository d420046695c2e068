// Package refine implements the deterministic local-search passes applied
// around the stochastic search: greedy 2-opt and full-pass best-improvement
// 3-opt per route, and a final wait-time minimizer.
package refine

import (
	"cvrptw-solver/internal/domain"
)

// TestEvalFunc is the feasibility+cost oracle refine optimizes against.
type TestEvalFunc func(plan domain.Plan, returnEarly bool) (domain.Feasibility, float64)

// TwoOpt runs a greedy 2-opt sweep independently on every route: for each
// route, scans every (i, j) reversal, applies each feasible improving
// reversal as soon as it is found and continues the scan from the improved
// route, and repeats until a full pass finds no improvement.
func TwoOpt(solution domain.Plan, testEval TestEvalFunc) domain.Plan {
	ret := make(domain.Plan, len(solution))
	for routeIdx, route := range solution {
		best := route.CloneWithPackages()
		bestCost := costOf(solution, routeIdx, best, testEval)

		improved := true
		for improved {
			improved = false
			n := len(best.Packages)
			for i := 1; i <= n-2; i++ {
				for j := i + 1; j <= n; j++ {
					if j-i == 1 {
						continue
					}
					candidate := best.CloneWithPackages()
					reverseSegment(candidate.Packages, i, j)
					feas, cost := testEvalWith(solution, routeIdx, candidate, testEval)
					if feas.AllSatisfied() && cost < bestCost {
						best = candidate
						bestCost = cost
						improved = true
					}
				}
			}
		}
		ret[routeIdx] = best
	}
	assertSamePackageCount(solution, ret)
	return ret
}

// reverseSegment reverses packages[i:j] in place.
func reverseSegment(packages []*domain.Package, i, j int) {
	for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
		packages[lo], packages[hi] = packages[hi], packages[lo]
	}
}

// ThreeOpt runs a full-pass best-improvement 3-opt sweep per route, trying
// all seven reconnection patterns (three 2-opt-equivalent, four strict
// 3-opt) at every (i, j, k) triple and keeping only the best improvement
// found each pass.
func ThreeOpt(solution domain.Plan, testEval TestEvalFunc) domain.Plan {
	ret := make(domain.Plan, len(solution))
	for routeIdx, route := range solution {
		best := route.CloneWithPackages()
		bestCost := costOf(solution, routeIdx, best, testEval)

		improved := true
		for improved {
			improved = false
			p := best.Packages
			n := len(p)
			for i := 1; i <= n-4; i++ {
				for j := i + 1; j <= n-3; j++ {
					for k := j + 1; k <= n-2; k++ {
						a, c, e := i, j, k
						b, d, f := a+1, c+1, e+1

						for _, recon := range threeOptReconnections(p, a, b, c, d, e, f) {
							candidate := best.CloneWithPackages()
							candidate.Packages = recon
							feas, cost := testEvalWith(solution, routeIdx, candidate, testEval)
							if feas.AllSatisfied() && cost < bestCost {
								best = candidate
								bestCost = cost
								improved = true
							}
						}
					}
				}
			}
		}
		ret[routeIdx] = best
	}
	assertSamePackageCount(solution, ret)
	return ret
}

func threeOptReconnections(p []*domain.Package, a, b, c, d, e, f int) [][]*domain.Package {
	head := p[:a+1]
	tail := p[f:]
	segBC := p[b : c+1]
	segDE := p[d : e+1]
	revBC := reversedCopy(segBC)
	revDE := reversedCopy(segDE)

	return [][]*domain.Package{
		concat(head, segBC, revDE, tail), // 2-opt
		concat(head, revBC, segDE, tail), // 2-opt
		concat(head, revBC, revDE, tail), // 3-opt
		concat(head, segDE, segBC, tail), // 3-opt
		concat(head, segDE, revBC, tail), // 3-opt
		concat(head, revDE, segBC, tail), // 3-opt
		concat(head, revDE, revBC, tail), // 2-opt
	}
}

func reversedCopy(s []*domain.Package) []*domain.Package {
	out := make([]*domain.Package, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}

func concat(parts ...[]*domain.Package) []*domain.Package {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]*domain.Package, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// costOf evaluates solution with solution[routeIdx] swapped out for
// candidate, returning only the cost.
func costOf(solution domain.Plan, routeIdx int, candidate *domain.Route, testEval TestEvalFunc) float64 {
	_, cost := testEvalWith(solution, routeIdx, candidate, testEval)
	return cost
}

func testEvalWith(solution domain.Plan, routeIdx int, candidate *domain.Route, testEval TestEvalFunc) (domain.Feasibility, float64) {
	trial := solution.Clone()
	trial[routeIdx] = candidate
	return testEval(trial, false)
}

func assertSamePackageCount(a, b domain.Plan) {
	countA, countB := 0, 0
	for _, r := range a {
		countA += r.Len()
	}
	for _, r := range b {
		countB += r.Len()
	}
	domain.Assert(countA == countB, "refine", "package count changed during local search: %d -> %d", countA, countB)
}

// MinimizeWaitTimes decrements every depot stop's wait, one minute at a
// time, for as long as the plan stays feasible, restoring the last minute
// once a decrement breaks feasibility. Stops are mutated in place — this is
// a final tightening pass, not neighbor generation, so no copy-on-write
// discipline applies.
func MinimizeWaitTimes(solution domain.Plan, testEval TestEvalFunc) {
	for _, route := range solution {
		for _, stop := range route.DepotStops {
			for stop.WaitMinutes > 0 {
				stop.DecreaseWait(1)
				feas, _ := testEval(solution, false)
				if !feas.AllSatisfied() {
					stop.IncreaseWait(1)
					break
				}
			}
		}
	}
}
