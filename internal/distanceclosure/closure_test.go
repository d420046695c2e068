package distanceclosure

import "testing"

func TestCloseSupersedesDirectEdgeWithShorterPath(t *testing.T) {
	raw := map[int]map[int]float64{
		1: {2: 10, 3: 25},
		2: {1: 10, 3: 10},
		3: {1: 25, 2: 10},
	}
	closed := Close(raw)

	if got := closed[1][3]; got != 20 {
		t.Errorf("A-C closed distance = %v, want 20", got)
	}
	if got := closed[3][1]; got != 20 {
		t.Errorf("C-A closed distance = %v, want 20 (symmetric)", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	raw := map[int]map[int]float64{
		1: {2: 10, 3: 25},
		2: {1: 10, 3: 10},
		3: {1: 25, 2: 10},
	}
	once := Close(raw)
	twice := Close(once)

	for from, row := range once {
		for to, d := range row {
			if twice[from][to] != d {
				t.Errorf("closing an already-closed matrix changed [%d][%d]: %v -> %v", from, to, d, twice[from][to])
			}
		}
	}
}

func TestCloseMarksUnreachablePairsAsInfinite(t *testing.T) {
	raw := map[int]map[int]float64{
		1: {2: 5},
		2: {1: 5},
		3: {},
	}
	closed := Close(raw)
	if !isInf(closed[1][3]) {
		t.Errorf("disconnected pair should be +Inf, got %v", closed[1][3])
	}
}

func isInf(f float64) bool { return f > 1e300 }
