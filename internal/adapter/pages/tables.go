package pages

import (
	"context"
	"fmt"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/application/service"
	"uiprobe/internal/domain/entity"
)

// TablesPage exposes the tabular surfaces through TableReaders. Readers are
// created per call site, never cached row handles.
type TablesPage struct {
	surface output.SurfacePort
}

func NewTablesPage(s output.SurfacePort) *TablesPage {
	return &TablesPage{surface: s}
}

func (p *TablesPage) Open(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/tables")
}

// Customers is the main data table.
func (p *TablesPage) Customers() *service.TableReader {
	return service.NewTableReader(p.surface, entity.Css("#table1"))
}

// Scores includes a blank cell and a zero-cell row.
func (p *TablesPage) Scores() *service.TableReader {
	return service.NewTableReader(p.surface, entity.Css("#table2"))
}

// Empty has headers but no data rows.
func (p *TablesPage) Empty() *service.TableReader {
	return service.NewTableReader(p.surface, entity.Css("#empty-table"))
}

// SortCustomersBy clicks the col-th header of the main table, which re-sorts
// its rows in place. Row indexes read before the click are stale afterwards.
func (p *TablesPage) SortCustomersBy(ctx context.Context, col int) error {
	header := entity.Css("#table1").Child(fmt.Sprintf("thead th:nth-of-type(%d)", col+1))
	return p.surface.Click(ctx, header)
}

// DueOf returns the due column for the customer with the given last name,
// or "" with a false flag when no row matches.
func (p *TablesPage) DueOf(ctx context.Context, lastName string) (string, bool, error) {
	customers := p.Customers()
	idx, err := customers.Find(ctx, func(cells []string) bool {
		return len(cells) > 0 && cells[0] == lastName
	})
	if err != nil {
		return "", false, err
	}
	if idx == service.RowNotFound {
		return "", false, nil
	}
	due, err := customers.CellText(ctx, idx, 3)
	if err != nil {
		return "", false, err
	}
	return due, true, nil
}
