package query

import "slices"

// Reconcile compares the desired related ids with the ones currently stored
// and returns what must be inserted and deleted. Both inputs are treated as
// sets; the outputs are sorted ascending.
func Reconcile(desired, existing []int64) (toAdd, toRemove []int64) {
	want := toSet(desired)
	have := toSet(existing)

	for id := range want {
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range have {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	slices.Sort(toAdd)
	slices.Sort(toRemove)
	return toAdd, toRemove
}

// Distinct drops repeated ids, keeping the first occurrence of each.
func Distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
