// Package pdftext turns statement PDFs into pages of text lines and table
// rows. Rows are rebuilt from positioned glyphs: glyphs on the same baseline
// form a row, and wide horizontal gaps split a row into cells.
package pdftext

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a document has no extractable text, usually a
// scanned image.
var ErrNoText = errors.New("no extractable text")

// Glyph is a positioned run of text on a page.
type Glyph struct {
	X, W     float64
	FontSize float64
	S        string
}

// Page is one page reduced to rows of cells.
type Page struct {
	Number int
	Rows   [][]string
}

// Lines returns each row with its cells joined by single spaces.
func (p Page) Lines() []string {
	lines := make([]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		if l := strings.TrimSpace(strings.Join(r, " ")); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Document is an extracted statement.
type Document struct {
	Name  string
	Pages []Page
}

// Lines returns the lines of every page in order.
func (d *Document) Lines() []string {
	var lines []string
	for _, p := range d.Pages {
		lines = append(lines, p.Lines()...)
	}
	return lines
}

// Rows returns the rows of every page in order, single-cell lines included.
func (d *Document) Rows() [][]string {
	var rows [][]string
	for _, p := range d.Pages {
		rows = append(rows, p.Rows...)
	}
	return rows
}

// FromRows builds a single-page document from table rows.
func FromRows(name string, rows ...[]string) *Document {
	return &Document{Name: name, Pages: []Page{{Number: 1, Rows: rows}}}
}

// Options tune row segmentation. Gaps are multiples of the font size.
type Options struct {
	SpaceGap float64
	CellGap  float64
}

// DefaultOptions suit the bank statements seen so far.
var DefaultOptions = Options{SpaceGap: 0.15, CellGap: 1.2}

// Extract reads the PDF at path. Malformed content that makes the reader
// panic is reported as an error.
func Extract(path string, opts Options) (doc *Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	doc = &Document{Name: path}
	hasText := false
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })
		page := Page{Number: i}
		for _, row := range rows {
			glyphs := make([]Glyph, 0, len(row.Content))
			for _, t := range row.Content {
				glyphs = append(glyphs, Glyph{X: t.X, W: t.W, FontSize: t.FontSize, S: t.S})
			}
			cells := Segment(glyphs, opts)
			if len(cells) == 0 {
				continue
			}
			hasText = true
			page.Rows = append(page.Rows, cells)
		}
		doc.Pages = append(doc.Pages, page)
	}
	if !hasText {
		return nil, ErrNoText
	}
	return doc, nil
}

// Segment orders glyphs left to right and splits them into cells.
func Segment(glyphs []Glyph, opts Options) []string {
	if opts.CellGap <= 0 {
		opts = DefaultOptions
	}
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

	var cells []string
	var cur strings.Builder
	end := 0.0
	for i, g := range sorted {
		if g.S == "" {
			continue
		}
		size := g.FontSize
		if size <= 0 {
			size = 10
		}
		if i > 0 && cur.Len() > 0 {
			gap := g.X - end
			switch {
			case gap > opts.CellGap*size:
				cells = appendCell(cells, cur.String())
				cur.Reset()
			case gap > opts.SpaceGap*size:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(g.S)
		w := g.W
		if w <= 0 {
			w = 0.5 * size * float64(len([]rune(g.S)))
		}
		end = g.X + w
	}
	return appendCell(cells, cur.String())
}

func appendCell(cells []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return cells
	}
	return append(cells, s)
}
