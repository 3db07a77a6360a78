package service

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"golang.org/x/net/html"

	"uiprobe/internal/domain/entity"
)

// RowNotFound is the sentinel returned by Find when no row matches the
// predicate. Distinct from index 0, which is a valid first-row match.
const RowNotFound = -1

// HTMLSource provides the serialized markup of a located element.
// output.SurfacePort satisfies it.
type HTMLSource interface {
	OuterHTML(ctx context.Context, loc entity.Locator) (string, error)
}

// TableReader extracts structured data from a repeating row/column surface.
// It never caches parsed rows across calls: every read re-fetches the markup,
// because the table can be re-sorted or re-rendered between actions. Row
// locators handed out by Row are valid only until the next such mutation.
type TableReader struct {
	src   HTMLSource
	table entity.Locator
}

func NewTableReader(src HTMLSource, table entity.Locator) *TableReader {
	return &TableReader{src: src, table: table}
}

// RowCount returns the number of data rows, 0 for an empty table.
func (r *TableReader) RowCount(ctx context.Context) (int, error) {
	rows, err := r.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Row returns a locator scoped to the i-th data row (0-based). The locator
// re-resolves on each use, but its index is only meaningful until the table
// mutates; callers must call Row again after a re-sort, not reuse the old
// value.
func (r *TableReader) Row(i int) entity.Locator {
	return r.table.Child(fmt.Sprintf("tbody tr:nth-of-type(%d)", i+1))
}

// Cell returns a locator for one cell inside the i-th row.
func (r *TableReader) Cell(row, col int) entity.Locator {
	return r.Row(row).Child(fmt.Sprintf("td:nth-of-type(%d)", col+1))
}

// Headers returns the header cell texts, outermost header row only.
func (r *TableReader) Headers(ctx context.Context) ([]string, error) {
	root, err := r.parse(ctx)
	if err != nil {
		return nil, err
	}
	rows := collectRows(root, true)
	if len(rows) == 0 {
		return nil, nil
	}
	return cellTexts(rows[0]), nil
}

// CellText reads one cell from a fresh snapshot. A row index at or past the
// current row count means the caller is holding an index from before a
// mutation and must re-fetch: that surfaces as *entity.StaleReferenceError.
// An absent cell inside a present row reads as "", never as an error.
func (r *TableReader) CellText(ctx context.Context, row, col int) (string, error) {
	rows, err := r.snapshot(ctx)
	if err != nil {
		return "", err
	}
	if row < 0 || row >= len(rows) {
		return "", &entity.StaleReferenceError{Locator: r.Row(row)}
	}
	cells := rows[row]
	if col < 0 || col >= len(cells) {
		return "", nil
	}
	return cells[col], nil
}

// AllData returns a finite, restartable sequence of rows, each row an
// ordered sequence of cell texts. The markup is fetched once per call;
// ranging the returned sequence multiple times replays the same snapshot.
func (r *TableReader) AllData(ctx context.Context) (iter.Seq[[]string], error) {
	rows, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func([]string) bool) {
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}, nil
}

// Find returns the 0-based index of the first row whose cells satisfy pred,
// or RowNotFound. Lowest index wins on ties.
func (r *TableReader) Find(ctx context.Context, pred func(cells []string) bool) (int, error) {
	rows, err := r.snapshot(ctx)
	if err != nil {
		return RowNotFound, err
	}
	for i, row := range rows {
		if pred(row) {
			return i, nil
		}
	}
	return RowNotFound, nil
}

func (r *TableReader) snapshot(ctx context.Context) ([][]string, error) {
	root, err := r.parse(ctx)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, tr := range collectRows(root, false) {
		rows = append(rows, cellTexts(tr))
	}
	return rows, nil
}

func (r *TableReader) parse(ctx context.Context) (*html.Node, error) {
	raw, err := r.src.OuterHTML(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("fetch table markup: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse table markup: %w", err)
	}
	return doc, nil
}

// collectRows walks the tree and gathers <tr> nodes. Header rows are those
// inside <thead>; everything else is data, including rows with zero cells.
func collectRows(n *html.Node, header bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node, inHead bool)
	walk = func(n *html.Node, inHead bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "thead":
				inHead = true
			case "tr":
				if inHead == header {
					out = append(out, n)
				}
				return // nested tables are out of scope
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inHead)
		}
	}
	walk(n, false)
	return out
}

// cellTexts extracts trimmed text per cell. An absent cell simply does not
// appear; a present-but-empty cell reads as "".
func cellTexts(tr *html.Node) []string {
	cells := []string{}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
