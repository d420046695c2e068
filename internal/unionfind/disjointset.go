// Package unionfind implements a disjoint-set forest with path compression
// and union by rank, used exclusively by internal/linking to group
// co-delivery package ids.
package unionfind

// DisjointSet is a union-find structure over n elements [0, n), each
// carrying an arbitrary payload for enumeration.
type DisjointSet struct {
	parent  []int
	rank    []int
	mapping []any
}

// New builds a DisjointSet where element i starts in its own singleton set
// and is tagged with mapping[i] for EnumerateSets.
func New(n int, mapping []any) *DisjointSet {
	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
		rank[i] = 1
	}
	return &DisjointSet{parent: parent, rank: rank, mapping: mapping}
}

// Find returns the representative of x's set, compressing the path to the
// root as it walks.
func (d *DisjointSet) Find(x int) int {
	if d.parent[x] != x {
		d.parent[x] = d.Find(d.parent[x])
	}
	return d.parent[x]
}

// Union merges the sets containing x and y by rank. Corrects the source
// bug where an equal-rank merge never actually bumped the surviving root's
// rank (a no-op comparison instead of an increment) — this implementation
// increments it, per spec.md §9.
func (d *DisjointSet) Union(x, y int) {
	px, py := d.Find(x), d.Find(y)
	if px == py {
		return
	}
	if d.rank[px] > d.rank[py] {
		d.parent[py] = px
	} else {
		d.parent[px] = py
		if d.rank[px] == d.rank[py] {
			d.rank[py]++
		}
	}
}

// EnumerateSets returns the partition as a slice of payload sets, one per
// distinct root, including singletons. Driven by Find on every element (not
// a raw parent-array walk) so every element — root or not — is correctly
// attributed to its set, per spec.md §9.
func (d *DisjointSet) EnumerateSets() [][]any {
	buckets := make(map[int][]any)
	order := make([]int, 0)
	for i := range d.parent {
		root := d.Find(i)
		if _, ok := buckets[root]; !ok {
			order = append(order, root)
		}
		buckets[root] = append(buckets[root], d.mapping[i])
	}
	out := make([][]any, 0, len(order))
	for _, root := range order {
		out = append(out, buckets[root])
	}
	return out
}
