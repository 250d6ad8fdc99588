package identity

import "sort"

// Resolve maps every name in names to exactly one canonical name.
//
// Automatic similarity groups form the base mapping; manual entries then
// override it for the names they mention. A manual entry is only
// actionable when both its source and target are present in names; other
// entries are silently ignored. Manual targets may chain (A -> B, B -> C)
// and are chased to a final target with a visited-set guard, so a cycle in
// the manual table terminates at the last value seen before a revisit.
//
// A manual entry that remaps an automatic group's canonical drags the rest
// of that group along to the new target.
//
// The result is total over names and idempotent: mapping[mapping[n]] ==
// mapping[n] for every n. Manual keys are processed in sorted order so the
// outcome is deterministic regardless of map iteration order.
func Resolve(names []string, threshold float64, manual map[string]string) map[string]string {
	mapping := make(map[string]string, len(names))

	for _, group := range GroupNames(names, threshold) {
		for _, member := range group.Members {
			mapping[member] = group.Canonical
		}
	}

	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	for _, target := range manualGroups(manual, known) {
		for _, member := range target.members {
			mapping[member] = target.name
		}

		mapping[target.name] = target.name
	}

	// A manual entry may remap a name that is itself the canonical of an
	// automatic group, leaving that group's other members pointing at a
	// displaced canonical. Chase every name to its canonical's own target.
	// Chasing terminates: a displaced canonical always points at a target
	// applied later, and the last one applied maps to itself.
	for name, canonical := range mapping {
		for mapping[canonical] != canonical {
			canonical = mapping[canonical]
		}

		mapping[name] = canonical
	}

	return mapping
}

// manualGroup collects every manual source that chases to the same final
// target.
type manualGroup struct {
	name    string
	members []string
}

// manualGroups resolves the actionable manual entries into final-target
// groups, ordered by first appearance over sorted source names.
func manualGroups(manual map[string]string, known map[string]bool) []manualGroup {
	sources := make([]string, 0, len(manual))

	for source, target := range manual {
		if known[source] && known[target] {
			sources = append(sources, source)
		}
	}

	sort.Strings(sources)

	byTarget := make(map[string]int, len(sources))
	groups := make([]manualGroup, 0, len(sources))

	for _, source := range sources {
		final := chaseTarget(manual[source], manual)

		idx, seen := byTarget[final]
		if !seen {
			idx = len(groups)
			byTarget[final] = idx
			groups = append(groups, manualGroup{name: final})
		}

		groups[idx].members = append(groups[idx].members, source)
	}

	return groups
}

// chaseTarget follows manual mapping chains until the current value is not
// itself a source, or until a value repeats. The visited set guarantees
// termination on cyclic tables.
func chaseTarget(target string, manual map[string]string) string {
	visited := make(map[string]bool)

	for {
		next, chained := manual[target]
		if !chained || visited[target] {
			return target
		}

		visited[target] = true
		target = next
	}
}
