package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miermontoto/gStats/pkg/identity"
)

func TestResolve_Totality(t *testing.T) {
	t.Parallel()

	names := []string{"Jon Doe", "John Doe", "J. Doe", "alice", "Alice Smith", "bob"}

	for _, threshold := range []float64{0.0, 0.5, 0.7, 1.0} {
		mapping := identity.Resolve(names, threshold, nil)
		require.Len(t, mapping, len(names))

		for _, name := range names {
			require.Contains(t, mapping, name)
		}
	}
}

func TestResolve_CanonicalFixpoint(t *testing.T) {
	t.Parallel()

	names := []string{"Bob", "Robert", "Rob", "alice", "Alice Smith"}
	manual := map[string]string{"Rob": "alice"}

	mapping := identity.Resolve(names, 0.5, manual)

	for name, canonical := range mapping {
		require.Equal(t, canonical, mapping[canonical],
			"canonical of %q must map to itself", name)
	}
}

func TestResolve_ManualOverridesAutomatic(t *testing.T) {
	t.Parallel()

	names := []string{"Bob", "Robert", "Rob"}
	manual := map[string]string{"Rob": "Bob"}

	mapping := identity.Resolve(names, 0.0, manual)

	require.Equal(t, "Bob", mapping["Rob"], "manual mapping must win")
	require.Equal(t, "Bob", mapping["Bob"])
	// "Robert" is untouched by the manual table and follows the automatic
	// group, whose canonical is the first name in input order.
	require.Equal(t, "Bob", mapping["Robert"])
}

func TestResolve_ManualRemapOfAutomaticCanonical(t *testing.T) {
	t.Parallel()

	// "John Doe" groups under "Jon Doe" automatically; the manual entry then
	// remaps the canonical itself, and the rest of the group must follow.
	names := []string{"Jon Doe", "John Doe", "Zed"}
	manual := map[string]string{"Jon Doe": "Zed"}

	mapping := identity.Resolve(names, 0.6, manual)

	require.Equal(t, map[string]string{
		"Jon Doe":  "Zed",
		"John Doe": "Zed",
		"Zed":      "Zed",
	}, mapping)

	for name := range mapping {
		require.Equal(t, mapping[name], mapping[mapping[name]],
			"mapping must be idempotent for %q", name)
	}
}

func TestResolve_ManualChain(t *testing.T) {
	t.Parallel()

	names := []string{"A", "B", "C", "unrelated"}
	manual := map[string]string{"A": "B", "B": "C"}

	mapping := identity.Resolve(names, 1.0, manual)

	require.Equal(t, "C", mapping["A"], "chain A -> B -> C must land on C")
	require.Equal(t, "C", mapping["B"])
	require.Equal(t, "C", mapping["C"])
	require.Equal(t, "unrelated", mapping["unrelated"])
}

func TestResolve_ManualCycleTerminates(t *testing.T) {
	t.Parallel()

	names := []string{"A", "B"}
	manual := map[string]string{"A": "B", "B": "A"}

	mapping := identity.Resolve(names, 1.0, manual)

	// Sources are processed in sorted order, so the group for final target
	// "B" (from source "A") is applied first and the group for "A" (from
	// source "B") second; both names settle on a single canonical.
	require.Equal(t, "A", mapping["A"])
	require.Equal(t, "A", mapping["B"])

	for name := range mapping {
		require.Equal(t, mapping[name], mapping[mapping[name]])
	}
}

func TestResolve_UnknownManualNamesIgnored(t *testing.T) {
	t.Parallel()

	names := []string{"alice", "bob"}
	manual := map[string]string{
		"alice": "Charlie", // target unknown
		"Dave":  "bob",     // source unknown
		"Eve":   "Mallory", // both unknown
	}

	mapping := identity.Resolve(names, 1.0, manual)

	require.Equal(t, map[string]string{"alice": "alice", "bob": "bob"}, mapping)
}

func TestResolve_EmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, identity.Resolve(nil, 0.7, map[string]string{"a": "b"}))
}

func TestResolve_SharedFinalTarget(t *testing.T) {
	t.Parallel()

	names := []string{"x1", "x2", "target", "hub"}
	manual := map[string]string{"x1": "hub", "x2": "hub", "hub": "target"}

	mapping := identity.Resolve(names, 1.0, manual)

	require.Equal(t, "target", mapping["x1"])
	require.Equal(t, "target", mapping["x2"])
	require.Equal(t, "target", mapping["hub"])
	require.Equal(t, "target", mapping["target"])
}
