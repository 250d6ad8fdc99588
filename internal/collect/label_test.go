package collect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBranchLabel(t *testing.T) {
	t.Parallel()

	branchOf := map[string]string{
		"aaa": "main",
		"bbb": "feature/x",
		"ccc": "",
	}

	tests := []struct {
		name string
		hash string
		want string
	}{
		{name: "labeled_commit", hash: "aaa", want: "main"},
		{name: "feature_branch", hash: "bbb", want: "feature/x"},
		{name: "empty_label_falls_back", hash: "ccc", want: "HEAD"},
		{name: "unreached_commit_falls_back", hash: "ddd", want: "HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, branchLabel(branchOf, tt.hash))
		})
	}
}
