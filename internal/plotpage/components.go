package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// TabItem represents a single tab in a tab group.
type TabItem struct {
	ID      string
	Label   string
	Content Renderable
}

// Tabs renders a tabbed interface.
type Tabs struct {
	ID    string
	Items []TabItem
}

// NewTabs creates a new tab group.
func NewTabs(id string, items ...TabItem) *Tabs {
	return &Tabs{ID: id, Items: items}
}

// Render writes the tabs HTML.
func (t *Tabs) Render(w io.Writer) error {
	if len(t.Items) == 0 {
		return nil
	}

	items := make([]tabItemData, len(t.Items))

	for i, item := range t.Items {
		var content template.HTML

		if item.Content != nil {
			var buf bytes.Buffer

			err := item.Content.Render(&buf)
			if err != nil {
				return fmt.Errorf("rendering tab %s: %w", item.ID, err)
			}

			content = template.HTML(buf.String())
		}

		items[i] = tabItemData{
			ID:      item.ID,
			Label:   item.Label,
			Content: content,
		}
	}

	html := mustRenderTemplate("tabs.html", tabsData{
		ID:    t.ID,
		Items: items,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing tabs: %w", err)
	}

	return nil
}

// Card renders a card container.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a new card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card content.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	data := cardData{
		Title:    c.Title,
		Subtitle: c.Subtitle,
	}

	if c.Content != nil {
		var buf bytes.Buffer

		err := c.Content.Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering card content: %w", err)
		}

		data.Content = template.HTML(buf.String())
	}

	html := mustRenderTemplate("card.html", data)

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing card: %w", err)
	}

	return nil
}

// Text renders plain text content.
type Text struct {
	Content string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	_, err := w.Write([]byte(template.HTMLEscapeString(t.Content)))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// Grid renders a responsive grid layout.
type Grid struct {
	Columns int
	Gap     string
	Items   []Renderable
}

// NewGrid creates a new grid layout.
func NewGrid(columns int, items ...Renderable) *Grid {
	if columns < 1 {
		columns = 1
	}

	if columns > maxGridColumns {
		columns = maxGridColumns
	}

	return &Grid{Columns: columns, Gap: "gap-4", Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3",
		4: "grid-cols-1 md:grid-cols-2 lg:grid-cols-4",
	}[g.Columns]

	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		if item != nil {
			var buf bytes.Buffer

			err := item.Render(&buf)
			if err != nil {
				return fmt.Errorf("rendering grid item %d: %w", i, err)
			}

			items[i] = template.HTML(buf.String())
		}
	}

	html := mustRenderTemplate("grid.html", gridData{
		ColClass: colClass,
		Gap:      g.Gap,
		Items:    items,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}

	return nil
}

// Stat renders a statistic/metric display.
type Stat struct {
	Label string
	Value string
	Note  string
}

// NewStat creates a new stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithNote sets the secondary line under the value.
func (s *Stat) WithNote(note string) *Stat {
	s.Note = note

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	html := mustRenderTemplate("stat.html", statData{
		Label: s.Label,
		Value: s.Value,
		Note:  s.Note,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing stat: %w", err)
	}

	return nil
}

// Badge renders an inline badge/tag.
type Badge struct {
	Text string
}

// NewBadge creates a new badge.
func NewBadge(text string) *Badge {
	return &Badge{Text: text}
}

// Render writes the badge HTML.
func (b *Badge) Render(w io.Writer) error {
	html := mustRenderTemplate("badge.html", badgeData{Text: b.Text})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing badge: %w", err)
	}

	return nil
}

// HTML returns the badge as an HTML fragment, for embedding in cells.
func (b *Badge) HTML() string {
	var buf bytes.Buffer

	// Template is embedded; render errors are programming errors.
	_ = b.Render(&buf)

	return buf.String()
}

// Table renders an HTML table.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a new table.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	// Convert string rows to template.HTML to allow raw HTML in cells.
	htmlRows := make([][]template.HTML, len(t.Rows))
	for i, row := range t.Rows {
		htmlRows[i] = make([]template.HTML, len(row))
		for j, cell := range row {
			htmlRows[i][j] = template.HTML(cell)
		}
	}

	html := mustRenderTemplate("table.html", tableData{
		Headers: t.Headers,
		Rows:    htmlRows,
		Striped: t.Striped,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

// RawHTML is a Renderable that writes pre-rendered HTML verbatim.
type RawHTML template.HTML

// Render writes the raw HTML content.
func (r RawHTML) Render(w io.Writer) error {
	_, err := w.Write([]byte(r))
	if err != nil {
		return fmt.Errorf("write raw html: %w", err)
	}

	return nil
}
