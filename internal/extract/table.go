package extract

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	minTableRows = 2
	minTableCols = 2
	// columnSlack is how far, in points, left edges may drift and still share
	// a column.
	columnSlack = 12.0
	minCellGap  = 4.0
)

// PDFTableExtractor finds tables from text positions. A table is a run of at
// least two consecutive lines that each split into two or more cells.
type PDFTableExtractor struct{}

// NewPDFTableExtractor constructs a PDFTableExtractor.
func NewPDFTableExtractor() *PDFTableExtractor {
	return &PDFTableExtractor{}
}

// ExtractTables returns the tables of every page in reading order.
func (e *PDFTableExtractor) ExtractTables(ctx context.Context, data []byte) (out []TableExtract, err error) {
	defer RecoverParser(&err)

	reader, err := openPDF(data)
	if err != nil {
		return nil, err
	}

	out = []TableExtract{}
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		out = append(out, detectTables(linesFromTexts(page.Content().Text), i)...)
	}
	return out, nil
}

type cell struct {
	x0, x1 float64
	text   string
}

type line struct {
	y     float64
	cells []cell
}

// linesFromTexts groups positioned glyphs into lines of cells by baseline,
// top of the page first. Page.Content tracks the full text state (Tm, Td,
// TD, T*), unlike GetTextByRow which only follows Tm.
func linesFromTexts(texts []pdf.Text) []line {
	byY := make(map[int64][]pdf.Text)
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		y := int64(math.Round(t.Y))
		byY[y] = append(byY[y], t)
	}

	out := make([]line, 0, len(byY))
	for y, glyphs := range byY {
		sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })
		cells := splitCells(glyphs)
		if len(cells) == 0 {
			continue
		}
		out = append(out, line{y: float64(y), cells: cells})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].y > out[j].y })
	return out
}

// splitCells merges adjacent glyphs and breaks wherever the horizontal gap
// is wider than about one em. Narrower gaps become a single space.
func splitCells(texts []pdf.Text) []cell {
	var cells []cell
	cur := -1
	for _, t := range texts {
		width := t.W
		if width <= 0 {
			width = estimateWidth(t)
		}
		if cur >= 0 {
			gap := t.X - cells[cur].x1
			if gap <= cellGap(t.FontSize) {
				if gap > wordGap(t.FontSize) {
					cells[cur].text += " "
				}
				cells[cur].text += t.S
				cells[cur].x1 = math.Max(cells[cur].x1, t.X+width)
				continue
			}
		}
		cells = append(cells, cell{x0: t.X, x1: t.X + width, text: t.S})
		cur = len(cells) - 1
	}

	out := cells[:0]
	for _, c := range cells {
		c.text = strings.Join(strings.Fields(c.text), " ")
		if c.text != "" {
			out = append(out, c)
		}
	}
	return out
}

func estimateWidth(t pdf.Text) float64 {
	size := t.FontSize
	if size <= 0 {
		size = 10
	}
	n := utf8.RuneCountInString(t.S)
	if n == 0 {
		n = 1
	}
	return size * 0.5 * float64(n)
}

func cellGap(fontSize float64) float64 {
	return math.Max(fontSize, minCellGap)
}

func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 10
	}
	return fontSize * 0.15
}

func detectTables(lines []line, page int) []TableExtract {
	var (
		tables []TableExtract
		block  []line
	)
	flush := func() {
		if len(block) >= minTableRows {
			if t, ok := buildTable(block); ok {
				t.Page = page
				t.Index = len(tables)
				tables = append(tables, t)
			}
		}
		block = nil
	}
	for _, ln := range lines {
		if len(ln.cells) >= minTableCols {
			block = append(block, ln)
			continue
		}
		flush()
	}
	flush()
	return tables
}

func buildTable(block []line) (TableExtract, bool) {
	anchors := columnAnchors(block)
	if len(anchors) < minTableCols {
		return TableExtract{}, false
	}
	grid := make([][]string, len(block))
	for i, ln := range block {
		row := make([]string, len(anchors))
		for _, c := range ln.cells {
			col := nearestAnchor(anchors, c.x0)
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += c.text
		}
		grid[i] = row
	}
	return TableExtract{Header: grid[0], Rows: grid[1:]}, true
}

// columnAnchors clusters the left edges of all cells in the block.
func columnAnchors(block []line) []float64 {
	var edges []float64
	for _, ln := range block {
		for _, c := range ln.cells {
			edges = append(edges, c.x0)
		}
	}
	sort.Float64s(edges)

	var anchors []float64
	for _, x := range edges {
		if n := len(anchors); n > 0 && x-anchors[n-1] <= columnSlack {
			continue
		}
		anchors = append(anchors, x)
	}
	return anchors
}

func nearestAnchor(anchors []float64, x float64) int {
	best := 0
	for i, a := range anchors {
		if math.Abs(a-x) < math.Abs(anchors[best]-x) {
			best = i
		}
	}
	return best
}
