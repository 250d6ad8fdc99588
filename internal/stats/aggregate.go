// Package stats derives the dashboard's aggregate views from collected
// commit records: totals, per-author and per-branch breakdowns, time
// bucketed activity series and the weekday/hour heat map.
package stats

import (
	"sort"
	"time"

	"github.com/miermontoto/gStats/internal/collect"
)

// Totals summarizes a record set for the overview page.
type Totals struct {
	Commits      int
	Authors      int
	Insertions   int
	Deletions    int
	FilesChanged int
	First        time.Time
	Last         time.Time
}

// AuthorTotals is one author's contribution summary.
type AuthorTotals struct {
	Name         string
	Commits      int
	Insertions   int
	Deletions    int
	FilesChanged int
	First        time.Time
	Last         time.Time
}

// BranchTotals is one branch's contribution summary.
type BranchTotals struct {
	Name       string
	Commits    int
	Insertions int
	Deletions  int
}

// TimePoint is one bucket of a timeline series.
type TimePoint struct {
	Label      string
	Commits    int
	Insertions int
	Deletions  int
}

// ActivityMatrix counts commits per weekday (0 = Monday) and hour of day.
type ActivityMatrix [7][24]int

// ApplyMapping rewrites each record's author through an identity
// mapping. Authors missing from the mapping are kept verbatim. Input
// records are not modified.
func ApplyMapping(records []collect.Record, mapping map[string]string) []collect.Record {
	out := make([]collect.Record, len(records))

	for i, r := range records {
		if canonical, ok := mapping[r.Author]; ok {
			r.Author = canonical
		}

		out[i] = r
	}

	return out
}

// FilterMaxLines drops records whose total churn exceeds max. A max of
// zero disables filtering. Bulk imports and vendored-code commits would
// otherwise dwarf every chart.
func FilterMaxLines(records []collect.Record, max int) []collect.Record {
	if max <= 0 {
		return records
	}

	out := make([]collect.Record, 0, len(records))

	for _, r := range records {
		if r.Insertions+r.Deletions > max {
			continue
		}

		out = append(out, r)
	}

	return out
}

// Overview computes whole-repository totals.
func Overview(records []collect.Record) Totals {
	var t Totals

	seen := make(map[string]struct{})

	for _, r := range records {
		t.Commits++
		t.Insertions += r.Insertions
		t.Deletions += r.Deletions
		t.FilesChanged += r.FilesChanged

		if _, ok := seen[r.Author]; !ok {
			seen[r.Author] = struct{}{}
			t.Authors++
		}

		if t.First.IsZero() || r.When.Before(t.First) {
			t.First = r.When
		}

		if r.When.After(t.Last) {
			t.Last = r.When
		}
	}

	return t
}

// ByAuthor aggregates records per author, ordered by commit count
// descending with name as the tiebreak.
func ByAuthor(records []collect.Record) []AuthorTotals {
	byName := make(map[string]*AuthorTotals)
	order := make([]string, 0)

	for _, r := range records {
		at, ok := byName[r.Author]
		if !ok {
			at = &AuthorTotals{Name: r.Author}
			byName[r.Author] = at
			order = append(order, r.Author)
		}

		at.Commits++
		at.Insertions += r.Insertions
		at.Deletions += r.Deletions
		at.FilesChanged += r.FilesChanged

		if at.First.IsZero() || r.When.Before(at.First) {
			at.First = r.When
		}

		if r.When.After(at.Last) {
			at.Last = r.When
		}
	}

	out := make([]AuthorTotals, 0, len(order))

	for _, name := range order {
		out = append(out, *byName[name])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// ByBranch aggregates records per branch label, ordered by commit count
// descending with name as the tiebreak.
func ByBranch(records []collect.Record) []BranchTotals {
	byName := make(map[string]*BranchTotals)
	order := make([]string, 0)

	for _, r := range records {
		bt, ok := byName[r.Branch]
		if !ok {
			bt = &BranchTotals{Name: r.Branch}
			byName[r.Branch] = bt
			order = append(order, r.Branch)
		}

		bt.Commits++
		bt.Insertions += r.Insertions
		bt.Deletions += r.Deletions
	}

	out := make([]BranchTotals, 0, len(order))

	for _, name := range order {
		out = append(out, *byName[name])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Timeline buckets records into a contiguous series at the given
// granularity. Gaps between the first and last commit are filled with
// zero points so chart axes stay evenly spaced.
func Timeline(records []collect.Record, g Granularity) []TimePoint {
	if len(records) == 0 {
		return nil
	}

	byBucket := make(map[time.Time]*TimePoint)

	var first, last time.Time

	for _, r := range records {
		start := g.bucketStart(r.When)

		tp, ok := byBucket[start]
		if !ok {
			tp = &TimePoint{Label: g.label(start)}
			byBucket[start] = tp
		}

		tp.Commits++
		tp.Insertions += r.Insertions
		tp.Deletions += r.Deletions

		if first.IsZero() || start.Before(first) {
			first = start
		}

		if start.After(last) {
			last = start
		}
	}

	out := make([]TimePoint, 0, len(byBucket))

	for cur := first; !cur.After(last); cur = g.next(cur) {
		if tp, ok := byBucket[cur]; ok {
			out = append(out, *tp)
			continue
		}

		out = append(out, TimePoint{Label: g.label(cur)})
	}

	return out
}

// TimelineByAuthor buckets per-author commit counts onto a shared label
// axis, for stacked timeline charts. Series order follows ByAuthor.
func TimelineByAuthor(records []collect.Record, g Granularity) (labels []string, series map[string][]int) {
	if len(records) == 0 {
		return nil, nil
	}

	var first, last time.Time

	for _, r := range records {
		start := g.bucketStart(r.When)

		if first.IsZero() || start.Before(first) {
			first = start
		}

		if start.After(last) {
			last = start
		}
	}

	index := make(map[time.Time]int)

	for cur := first; !cur.After(last); cur = g.next(cur) {
		index[cur] = len(labels)
		labels = append(labels, g.label(cur))
	}

	series = make(map[string][]int)

	for _, at := range ByAuthor(records) {
		series[at.Name] = make([]int, len(labels))
	}

	for _, r := range records {
		series[r.Author][index[g.bucketStart(r.When)]]++
	}

	return labels, series
}

// Activity builds the weekday/hour commit heat map. Rows run Monday
// through Sunday, matching ISO week order.
func Activity(records []collect.Record) ActivityMatrix {
	var m ActivityMatrix

	for _, r := range records {
		when := r.When.UTC()
		day := (int(when.Weekday()) + 6) % 7
		m[day][when.Hour()]++
	}

	return m
}

// ActivityFor builds the heat map for a single author.
func ActivityFor(records []collect.Record, author string) ActivityMatrix {
	var m ActivityMatrix

	for _, r := range records {
		if r.Author != author {
			continue
		}

		when := r.When.UTC()
		day := (int(when.Weekday()) + 6) % 7
		m[day][when.Hour()]++
	}

	return m
}
