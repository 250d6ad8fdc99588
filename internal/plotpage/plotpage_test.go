package plotpage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageRender(t *testing.T) {
	t.Parallel()

	page := NewPage("Repository Report", "Commit statistics")
	page.Add(Section{
		Title:    "Commits Over Time",
		Subtitle: "Bucketed by week.",
		Chart:    NewText("chart goes here"),
		Hint: Hint{
			Title: "How to read:",
			Items: []string{"Peaks are release pushes"},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	require.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	require.Contains(t, html, "Repository Report")
	require.Contains(t, html, "Commits Over Time")
	require.Contains(t, html, "Peaks are release pushes")
	require.Contains(t, html, `class="dark"`)
}

func TestPageRenderLightTheme(t *testing.T) {
	t.Parallel()

	page := NewPage("Report", "").WithTheme(ThemeLight)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	require.Contains(t, buf.String(), `<html lang="en" class="">`)
}

func TestTextEscapesHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewText("<script>alert(1)</script>").Render(&buf))

	require.NotContains(t, buf.String(), "<script>")
	require.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestTabsRender(t *testing.T) {
	t.Parallel()

	tabs := NewTabs("main",
		TabItem{ID: "overview", Label: "Overview", Content: NewText("totals")},
		TabItem{ID: "authors", Label: "Authors", Content: NewText("people")},
	)

	var buf bytes.Buffer
	require.NoError(t, tabs.Render(&buf))

	html := buf.String()
	require.Contains(t, html, `data-tab-target="overview"`)
	require.Contains(t, html, `data-tab-panel="authors"`)
	require.Contains(t, html, "totals")
	require.Contains(t, html, "people")
}

func TestTabsRenderEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewTabs("empty").Render(&buf))
	require.Zero(t, buf.Len())
}

func TestGridClampsColumns(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, NewGrid(0).Columns)
	require.Equal(t, maxGridColumns, NewGrid(9).Columns)

	var buf bytes.Buffer
	require.NoError(t, NewGrid(2, NewText("a"), NewText("b")).Render(&buf))
	require.Contains(t, buf.String(), "md:grid-cols-2")
}

func TestStatRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewStat("Commits", "1,234").WithNote("since 2020").Render(&buf))

	html := buf.String()
	require.Contains(t, html, "Commits")
	require.Contains(t, html, "1,234")
	require.Contains(t, html, "since 2020")
}

func TestTableRender(t *testing.T) {
	t.Parallel()

	table := NewTable([]string{"Author", "Commits"})
	table.AddRow("alice", "10").AddRow("bob", "3")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	html := buf.String()
	require.Contains(t, html, "<th")
	require.Contains(t, html, "alice")
	require.Contains(t, html, "bob")
}

func TestBadgeHTML(t *testing.T) {
	t.Parallel()

	html := NewBadge("J. Doe").HTML()

	require.Contains(t, html, "J. Doe")
	require.Contains(t, html, "<span")
}

func TestCardRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewCard("Identity Groups", "merged authors").WithContent(NewText("body")).Render(&buf))

	html := buf.String()
	require.Contains(t, html, "Identity Groups")
	require.Contains(t, html, "merged authors")
	require.Contains(t, html, "body")
}

func TestWrapChartExtractsFragment(t *testing.T) {
	t.Parallel()

	chart := BuildBarChart(nil, []string{"a", "b"}, []BarSeries{
		{Name: "commits", Data: []SeriesData{1, 2}},
	}, "commits")

	var buf bytes.Buffer
	require.NoError(t, WrapChart(chart).Render(&buf))

	html := buf.String()
	require.NotContains(t, html, "<!DOCTYPE")
	require.Contains(t, html, "echart-box")
}

func TestWrapChartNil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WrapChart(nil).Render(&buf))
	require.Zero(t, buf.Len())
}
