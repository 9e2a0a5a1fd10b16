package viewer

import (
	"fmt"
	"io"
	"strings"
)

// Character columns used for rendering a page at scale 1.0. Zooming in widens
// the glyphs, so fewer columns fit on the surface.
const baseColumns = 120

// TextRenderer paints page text onto a writer surface, wrapping lines to a
// width derived from the scale factor.
type TextRenderer struct {
	out io.Writer
}

// NewTextRenderer creates a renderer writing to out.
func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

// RenderPage extracts the page text and writes it wrapped to the surface.
func (r *TextRenderer) RenderPage(doc Document, page int, scale float64) error {
	if doc == nil {
		return fmt.Errorf("no document to render")
	}

	text, err := doc.PageText(page)
	if err != nil {
		return err
	}

	width := int(float64(baseColumns) / scale)
	if width < 20 {
		width = 20
	}

	header := fmt.Sprintf("--- page %d/%d @ %.2fx ---", page, doc.PageCount(), scale)
	if _, err := fmt.Fprintln(r.out, header); err != nil {
		return err
	}

	for _, line := range wrap(text, width) {
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}

	return nil
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{"(empty page)"}
	}

	lines := make([]string, 0, len(words)/8+1)
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}
