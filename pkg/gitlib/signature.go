package gitlib

import "time"

// Signature represents a git signature (author/committer). The Name field
// is the raw name as recorded in the commit, before any identity merging.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}
