// Package dashboard assembles the gStats report page: overview totals,
// author and branch breakdowns, churn timelines, the activity heat map
// and the resolved identity groups.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/miermontoto/gStats/internal/collect"
	"github.com/miermontoto/gStats/internal/plotpage"
	"github.com/miermontoto/gStats/internal/stats"
	"github.com/miermontoto/gStats/pkg/identity"
)

const (
	maxChartAuthors = 20
	heatMapHeight   = "420px"
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Input carries everything the dashboard needs to render.
type Input struct {
	Info      collect.RepoInfo
	Records   []collect.Record // author names already resolved and filtered
	Mapping   map[string]string
	Threshold float64
	Theme     plotpage.Theme
}

// Build assembles the full report page from collected and resolved data.
func Build(in Input) *plotpage.Page {
	page := plotpage.NewPage("Repository Report", in.Info.Path).WithTheme(in.Theme)

	totals := stats.Overview(in.Records)
	granularity := stats.PickGranularity(totals.First, totals.Last)
	co := plotpage.NewChartOpts(in.Theme)

	tabs := plotpage.NewTabs("report",
		plotpage.TabItem{ID: "overview", Label: "Overview", Content: overviewTab(co, in, totals, granularity)},
		plotpage.TabItem{ID: "authors", Label: "Authors", Content: authorsTab(co, in.Records, granularity)},
		plotpage.TabItem{ID: "churn", Label: "Churn", Content: churnTab(co, in.Records, granularity)},
		plotpage.TabItem{ID: "branches", Label: "Branches", Content: branchesTab(co, in.Records)},
		plotpage.TabItem{ID: "identities", Label: "Identities", Content: identitiesTab(in)},
	)

	page.Add(plotpage.Section{Chart: tabs})

	return page
}

func overviewTab(co *plotpage.ChartOpts, in Input, totals stats.Totals, g stats.Granularity) plotpage.Renderable {
	dirty := "clean"
	if in.Info.Dirty {
		dirty = fmt.Sprintf("dirty, %d untracked", in.Info.Untracked)
	}

	grid := plotpage.NewGrid(4,
		plotpage.NewStat("Commits", humanize.Comma(int64(totals.Commits))),
		plotpage.NewStat("Authors", humanize.Comma(int64(totals.Authors))),
		plotpage.NewStat("Lines Added", humanize.Comma(int64(totals.Insertions))),
		plotpage.NewStat("Lines Removed", humanize.Comma(int64(totals.Deletions))),
		plotpage.NewStat("Active Branch", in.Info.ActiveBranch),
		plotpage.NewStat("Branches", humanize.Comma(int64(in.Info.BranchCount))),
		plotpage.NewStat("First Commit", shortDate(totals)),
		plotpage.NewStat("Working Tree", dirty),
	)

	timeline := stats.Timeline(in.Records, g)
	labels, commits := timelineSeries(timeline)

	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "commits", Data: commits, AreaOpacity: 0.2},
	}, "commits")

	return renderables(
		grid,
		section("Commits Over Time", fmt.Sprintf("Bucketed %s.", g), plotpage.WrapChart(chart)),
		section("Commit Activity", "Commits by weekday and hour (UTC).",
			plotpage.WrapChart(activityHeatMap(co, in.Records))),
	)
}

func authorsTab(co *plotpage.ChartOpts, records []collect.Record, g stats.Granularity) plotpage.Renderable {
	authors := stats.ByAuthor(records)

	chartAuthors := authors
	if len(chartAuthors) > maxChartAuthors {
		chartAuthors = chartAuthors[:maxChartAuthors]
	}

	names := make([]string, len(chartAuthors))
	commits := make([]plotpage.SeriesData, len(chartAuthors))

	for i, a := range chartAuthors {
		names[i] = a.Name
		commits[i] = a.Commits
	}

	bar := plotpage.BuildBarChart(co, names, []plotpage.BarSeries{
		{Name: "commits", Data: commits},
	}, "commits")

	labels, series := stats.TimelineByAuthor(records, g)
	lineSeries := make([]plotpage.LineSeries, 0, len(chartAuthors))

	for _, a := range chartAuthors {
		data := make([]plotpage.SeriesData, len(labels))
		for i, n := range series[a.Name] {
			data[i] = n
		}

		lineSeries = append(lineSeries, plotpage.LineSeries{Name: a.Name, Data: data, Stack: "authors", AreaOpacity: 0.3})
	}

	timeline := plotpage.BuildLineChart(co, labels, lineSeries, "commits")

	table := plotpage.NewTable([]string{"Author", "Commits", "Added", "Removed", "Files", "First", "Last"})

	for _, a := range authors {
		table.AddRow(
			a.Name,
			humanize.Comma(int64(a.Commits)),
			humanize.Comma(int64(a.Insertions)),
			humanize.Comma(int64(a.Deletions)),
			humanize.Comma(int64(a.FilesChanged)),
			a.First.Format("2006-01-02"),
			a.Last.Format("2006-01-02"),
		)
	}

	return renderables(
		section("Commits by Author", "", plotpage.WrapChart(bar)),
		section("Author Activity Over Time", "Stacked commit counts per author.", plotpage.WrapChart(timeline)),
		section("Author Breakdown", "", table),
	)
}

func churnTab(co *plotpage.ChartOpts, records []collect.Record, g stats.Granularity) plotpage.Renderable {
	timeline := stats.Timeline(records, g)

	labels := make([]string, len(timeline))
	ins := make([]plotpage.SeriesData, len(timeline))
	del := make([]plotpage.SeriesData, len(timeline))

	for i, tp := range timeline {
		labels[i] = tp.Label
		ins[i] = tp.Insertions
		del[i] = tp.Deletions
	}

	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "insertions", Data: ins, Stack: "churn", AreaOpacity: 0.4},
		{Name: "deletions", Data: del, Stack: "churn", AreaOpacity: 0.4},
	}, "lines")

	return renderables(
		section("Code Churn", fmt.Sprintf("Lines added and removed, bucketed %s.", g), plotpage.WrapChart(chart)),
	)
}

func branchesTab(co *plotpage.ChartOpts, records []collect.Record) plotpage.Renderable {
	branches := stats.ByBranch(records)

	names := make([]string, len(branches))
	commits := make([]plotpage.SeriesData, len(branches))

	for i, b := range branches {
		names[i] = b.Name
		commits[i] = b.Commits
	}

	bar := plotpage.BuildBarChart(co, names, []plotpage.BarSeries{
		{Name: "commits", Data: commits},
	}, "commits")

	table := plotpage.NewTable([]string{"Branch", "Commits", "Added", "Removed"})

	for _, b := range branches {
		table.AddRow(
			b.Name,
			humanize.Comma(int64(b.Commits)),
			humanize.Comma(int64(b.Insertions)),
			humanize.Comma(int64(b.Deletions)),
		)
	}

	return renderables(
		section("Commits by Branch", "Each commit is counted on the first branch that reaches it.", plotpage.WrapChart(bar)),
		section("Branch Breakdown", "", table),
	)
}

func identitiesTab(in Input) plotpage.Renderable {
	groups := identity.CombinedGroups(in.Mapping)

	table := plotpage.NewTable([]string{"Canonical", "Merged Names"})

	for _, g := range groups {
		badges := make([]string, 0, len(g.Members))

		for _, m := range g.Members {
			if m == g.Canonical {
				continue
			}

			badges = append(badges, plotpage.NewBadge(m).HTML())
		}

		table.AddRow(htmlEscape(g.Canonical), strings.Join(badges, " "))
	}

	var body plotpage.Renderable = table
	if len(groups) == 0 {
		body = plotpage.NewText("No author names were merged at the current threshold.")
	}

	return renderables(
		plotpage.NewGrid(2,
			plotpage.NewStat("Identity Groups", humanize.Comma(int64(len(groups)))),
			plotpage.NewStat("Similarity Threshold", fmt.Sprintf("%.2f", in.Threshold)),
		),
		plotpage.NewCard("Merged Identities", "Author names resolved to the same person.").WithContent(body),
	)
}

func activityHeatMap(co *plotpage.ChartOpts, records []collect.Record) plotpage.Renderable {
	matrix := stats.Activity(records)

	hours := make([]string, 24)
	for h := range hours {
		hours[h] = fmt.Sprintf("%02d", h)
	}

	cells := make([]plotpage.HeatCell, 0, 7*24)

	for day, row := range matrix {
		for hour, n := range row {
			if n == 0 {
				continue
			}

			cells = append(cells, plotpage.HeatCell{X: hour, Y: day, Value: n})
		}
	}

	return plotpage.BuildHeatMap(co, hours, weekdayLabels, cells, heatMapHeight)
}

func timelineSeries(timeline []stats.TimePoint) (labels []string, commits []plotpage.SeriesData) {
	labels = make([]string, len(timeline))
	commits = make([]plotpage.SeriesData, len(timeline))

	for i, tp := range timeline {
		labels[i] = tp.Label
		commits[i] = tp.Commits
	}

	return labels, commits
}

func shortDate(totals stats.Totals) string {
	if totals.First.IsZero() {
		return "-"
	}

	return totals.First.Format("2006-01-02")
}

func section(title, subtitle string, content plotpage.Renderable) plotpage.Renderable {
	return &sectionBlock{title: title, subtitle: subtitle, content: content}
}
