package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miermontoto/gStats/internal/collect"
)

func at(day, hour int) time.Time {
	// January 2024: the 1st is a Monday.
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func sampleRecords() []collect.Record {
	return []collect.Record{
		{Author: "alice", Branch: "main", When: at(1, 9), Insertions: 10, Deletions: 2, FilesChanged: 1},
		{Author: "bob", Branch: "main", When: at(1, 10), Insertions: 5, Deletions: 5, FilesChanged: 2},
		{Author: "alice", Branch: "dev", When: at(3, 9), Insertions: 1, Deletions: 0, FilesChanged: 1},
		{Author: "alice", Branch: "main", When: at(5, 23), Insertions: 200, Deletions: 100, FilesChanged: 8},
	}
}

func TestApplyMapping(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	mapped := ApplyMapping(records, map[string]string{"bob": "alice"})

	require.Equal(t, "alice", mapped[1].Author)
	require.Equal(t, "bob", records[1].Author, "input must not be modified")

	for _, r := range mapped {
		require.Equal(t, "alice", r.Author)
	}
}

func TestFilterMaxLines(t *testing.T) {
	t.Parallel()

	records := sampleRecords()

	require.Len(t, FilterMaxLines(records, 0), 4, "zero disables filtering")
	require.Len(t, FilterMaxLines(records, 12), 3)
	require.Len(t, FilterMaxLines(records, 1), 1)
}

func TestOverview(t *testing.T) {
	t.Parallel()

	totals := Overview(sampleRecords())

	require.Equal(t, 4, totals.Commits)
	require.Equal(t, 2, totals.Authors)
	require.Equal(t, 216, totals.Insertions)
	require.Equal(t, 107, totals.Deletions)
	require.Equal(t, 12, totals.FilesChanged)
	require.Equal(t, at(1, 9), totals.First)
	require.Equal(t, at(5, 23), totals.Last)
}

func TestOverviewEmpty(t *testing.T) {
	t.Parallel()

	totals := Overview(nil)

	require.Zero(t, totals.Commits)
	require.Zero(t, totals.Authors)
	require.True(t, totals.First.IsZero())
}

func TestByAuthor(t *testing.T) {
	t.Parallel()

	authors := ByAuthor(sampleRecords())

	require.Len(t, authors, 2)
	require.Equal(t, "alice", authors[0].Name)
	require.Equal(t, 3, authors[0].Commits)
	require.Equal(t, 211, authors[0].Insertions)
	require.Equal(t, "bob", authors[1].Name)
	require.Equal(t, 1, authors[1].Commits)
}

func TestByAuthorTiebreakByName(t *testing.T) {
	t.Parallel()

	records := []collect.Record{
		{Author: "zoe", When: at(1, 0)},
		{Author: "amy", When: at(2, 0)},
	}

	authors := ByAuthor(records)

	require.Equal(t, "amy", authors[0].Name)
	require.Equal(t, "zoe", authors[1].Name)
}

func TestByBranch(t *testing.T) {
	t.Parallel()

	branches := ByBranch(sampleRecords())

	require.Len(t, branches, 2)
	require.Equal(t, "main", branches[0].Name)
	require.Equal(t, 3, branches[0].Commits)
	require.Equal(t, "dev", branches[1].Name)
	require.Equal(t, 1, branches[1].Commits)
}

func TestTimelineFillsGaps(t *testing.T) {
	t.Parallel()

	points := Timeline(sampleRecords(), Daily)

	require.Len(t, points, 5, "jan 1 through jan 5, gaps included")
	require.Equal(t, "2024-01-01", points[0].Label)
	require.Equal(t, 2, points[0].Commits)
	require.Equal(t, "2024-01-02", points[1].Label)
	require.Zero(t, points[1].Commits)
	require.Equal(t, "2024-01-05", points[4].Label)
	require.Equal(t, 300, points[4].Insertions+points[4].Deletions)
}

func TestTimelineEmpty(t *testing.T) {
	t.Parallel()

	require.Nil(t, Timeline(nil, Daily))
}

func TestTimelineWeekly(t *testing.T) {
	t.Parallel()

	records := []collect.Record{
		{Author: "alice", When: at(1, 9)},  // week 1
		{Author: "alice", When: at(15, 9)}, // week 3
	}

	points := Timeline(records, Weekly)

	require.Len(t, points, 3)
	require.Equal(t, "2024-W01", points[0].Label)
	require.Equal(t, "2024-W02", points[1].Label)
	require.Zero(t, points[1].Commits)
	require.Equal(t, "2024-W03", points[2].Label)
}

func TestTimelineByAuthor(t *testing.T) {
	t.Parallel()

	labels, series := TimelineByAuthor(sampleRecords(), Daily)

	require.Len(t, labels, 5)
	require.Len(t, series, 2)
	require.Equal(t, []int{1, 0, 1, 0, 1}, series["alice"])
	require.Equal(t, []int{1, 0, 0, 0, 0}, series["bob"])
}

func TestActivity(t *testing.T) {
	t.Parallel()

	m := Activity(sampleRecords())

	require.Equal(t, 1, m[0][9], "monday 09:00")
	require.Equal(t, 1, m[0][10], "monday 10:00")
	require.Equal(t, 1, m[2][9], "wednesday 09:00")
	require.Equal(t, 1, m[4][23], "friday 23:00")
}

func TestActivityFor(t *testing.T) {
	t.Parallel()

	m := ActivityFor(sampleRecords(), "bob")

	var total int
	for _, row := range m {
		for _, n := range row {
			total += n
		}
	}

	require.Equal(t, 1, total)
	require.Equal(t, 1, m[0][10])
}
