package identity

import "github.com/miermontoto/gStats/pkg/alg/seqmatch"

// Group is a set of raw author names deemed equivalent. The canonical
// member is the first name that opened the group; Members[0] always
// equals Canonical.
type Group struct {
	Canonical string
	Members   []string
}

// GroupNames partitions names into similarity groups with a greedy single
// pass over the input order. For each name, existing groups are scanned in
// creation order and the first group whose canonical's normalized form has
// a similarity ratio strictly greater than threshold wins; otherwise the
// name opens a new group.
//
// The pass is order-dependent by contract: callers pass names in first-seen
// order and the same input always yields the same groups. There is no
// backtracking and no global optimum; downstream output depends on this
// exact first-match-wins behavior.
func GroupNames(names []string, threshold float64) []Group {
	groups := make([]Group, 0, len(names))
	keys := make([]string, 0, len(names))

	for _, name := range names {
		norm := Normalize(name)
		placed := false

		for i := range groups {
			if seqmatch.Ratio(norm, keys[i]) > threshold {
				groups[i].Members = append(groups[i].Members, name)
				placed = true

				break
			}
		}

		if !placed {
			groups = append(groups, Group{Canonical: name, Members: []string{name}})
			keys = append(keys, norm)
		}
	}

	return groups
}
