// Package linking builds linked-delivery groups from packages' parsed
// "must be delivered with" notes, using internal/unionfind to cluster
// mentioned package ids into connected components.
package linking

import (
	"fmt"
	"sort"

	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/unionfind"
)

// BuildGroups unions every package with the ids its notes mention, then
// assigns each multi-member component its own *domain.LinkedGroup — fixing
// the source bug where every package received group zero regardless of its
// actual membership (spec.md §9). Returns InfeasibleInputError if any
// resulting group exceeds truckCapacity.
func BuildGroups(packages []*domain.Package, truckCapacity int) ([]*domain.LinkedGroup, error) {
	byID := make(map[int]*domain.Package, len(packages))
	for _, p := range packages {
		byID[p.ID] = p
	}

	involved := make(map[int]struct{})
	for _, p := range packages {
		if len(p.LinkedPackageIDs) == 0 {
			continue
		}
		involved[p.ID] = struct{}{}
		for _, id := range p.LinkedPackageIDs {
			involved[id] = struct{}{}
		}
	}
	if len(involved) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(involved))
	for id := range involved {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	index := make(map[int]int, len(ids))
	mapping := make([]any, len(ids))
	for i, id := range ids {
		index[id] = i
		mapping[i] = byID[id]
	}

	ds := unionfind.New(len(ids), mapping)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		for _, linkedID := range p.LinkedPackageIDs {
			j, ok := index[linkedID]
			if !ok {
				continue
			}
			ds.Union(index[id], j)
		}
	}

	var groups []*domain.LinkedGroup
	for _, set := range ds.EnumerateSets() {
		if len(set) < 2 {
			continue
		}
		members := make([]*domain.Package, 0, len(set))
		for _, m := range set {
			members = append(members, m.(*domain.Package))
		}
		if len(members) > truckCapacity {
			return nil, &domain.InfeasibleInputError{
				Op:  "linking.BuildGroups",
				Err: &groupCapacityError{size: len(members), capacity: truckCapacity},
			}
		}
		group := &domain.LinkedGroup{Members: members}
		for _, m := range members {
			m.LinkedGroup = group
		}
		groups = append(groups, group)
	}
	return groups, nil
}

type groupCapacityError struct {
	size, capacity int
}

func (e *groupCapacityError) Error() string {
	return fmt.Sprintf("linked delivery group of %d exceeds truck capacity %d", e.size, e.capacity)
}
