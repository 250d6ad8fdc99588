package dashboard

import (
	"fmt"
	"html/template"
	"io"

	"github.com/miermontoto/gStats/internal/plotpage"
)

// renderList renders its children in order.
type renderList []plotpage.Renderable

func renderables(items ...plotpage.Renderable) plotpage.Renderable {
	return renderList(items)
}

// Render writes each child in sequence.
func (l renderList) Render(w io.Writer) error {
	for i, item := range l {
		if item == nil {
			continue
		}

		err := item.Render(w)
		if err != nil {
			return fmt.Errorf("rendering block %d: %w", i, err)
		}
	}

	return nil
}

// sectionBlock is a titled wrapper around a component, rendered inside
// a tab panel.
type sectionBlock struct {
	title    string
	subtitle string
	content  plotpage.Renderable
}

// Render writes the section heading and its content.
func (s *sectionBlock) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<div class="space-y-3"><div><h2 class="text-base font-semibold">%s</h2>`,
		htmlEscape(s.title))
	if err != nil {
		return fmt.Errorf("writing section title: %w", err)
	}

	if s.subtitle != "" {
		_, err = fmt.Fprintf(w, `<p class="text-sm text-stone-500 dark:text-stone-400">%s</p>`,
			htmlEscape(s.subtitle))
		if err != nil {
			return fmt.Errorf("writing section subtitle: %w", err)
		}
	}

	_, err = io.WriteString(w, "</div>")
	if err != nil {
		return fmt.Errorf("writing section: %w", err)
	}

	if s.content != nil {
		err = s.content.Render(w)
		if err != nil {
			return fmt.Errorf("rendering section content: %w", err)
		}
	}

	_, err = io.WriteString(w, "</div>")
	if err != nil {
		return fmt.Errorf("writing section: %w", err)
	}

	return nil
}

func htmlEscape(s string) string {
	return template.HTMLEscapeString(s)
}
