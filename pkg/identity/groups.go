package identity

import (
	"sort"

	"github.com/miermontoto/gStats/pkg/alg/mapx"
)

// CombinedGroups inverts a resolved mapping into display groups. Singleton
// groups are dropped; they carry no merge information for the UI. Canonical
// names are sorted lexicographically and each member list starts with the
// canonical name followed by the remaining members in sorted order.
func CombinedGroups(mapping map[string]string) []Group {
	members := make(map[string][]string, len(mapping))

	for name, canonical := range mapping {
		if name != canonical {
			members[canonical] = append(members[canonical], name)
		}
	}

	canonicals := mapx.SortedKeys(members)
	groups := make([]Group, 0, len(canonicals))

	for _, canonical := range canonicals {
		aliases := members[canonical]
		sort.Strings(aliases)

		groups = append(groups, Group{
			Canonical: canonical,
			Members:   append([]string{canonical}, aliases...),
		})
	}

	return groups
}

// MergeOptions returns the names a user could still merge and the possible
// merge destinations, both sorted for stable presentation. Mergeable names
// are those not currently aliased to some other name; targets are the
// distinct canonical names the resolved mapping points at.
func MergeOptions(names []string, threshold float64, manual map[string]string) (mergeable, targets []string) {
	mapping := Resolve(names, threshold, manual)

	targetSet := make(map[string]bool, len(mapping))

	for name, canonical := range mapping {
		if name == canonical {
			mergeable = append(mergeable, name)
		}

		targetSet[canonical] = true
	}

	targets = mapx.SortedKeys(targetSet)
	sort.Strings(mergeable)

	return mergeable, targets
}
