// Package table converts stock and reconciliation values into rows for
// tabular CLI output.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/export"
	"github.com/agentstation/luga/pkg/reconcile"
	"github.com/agentstation/luga/pkg/stock"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// StockToTableData lists the rows of a normalized stock table.
func StockToTableData(t *stock.Table) Data {
	rows := make([][]string, 0, t.Len())
	t.Each(func(r stock.Row) {
		rows = append(rows, []string{r.ID, r.Quantity.String()})
	})
	return Data{
		Headers:         []string{constants.IDColumn, constants.QuantityColumn},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// RowsToTableData lists reconciliation rows with their class.
func RowsToTableData(rows []reconcile.Row) Data {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, export.FormatQuantity(r.Exposed), ClassLabel(r.Class())})
	}
	return Data{
		Headers:         []string{constants.IDColumn, constants.QuantityColumn, "Class"},
		Rows:            out,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// SummaryToTableData renders the headline reconciliation figures.
func SummaryToTableData(s reconcile.Summary) Data {
	rows := [][]string{
		{"Prodotti", strconv.Itoa(s.TotalProducts)},
		{"Prodotti con match in robot (non esposti)", strconv.Itoa(s.FullyAccounted)},
		{"Totale prodotti con match (esposti)", s.ExposedQuantity.String()},
		{"Prodotti senza match", strconv.Itoa(s.Unmatched)},
	}
	if s.Negative > 0 {
		rows = append(rows, []string{"Prodotti con robot oltre il totale", strconv.Itoa(s.Negative)})
	}
	return Data{
		Headers:         []string{"Summary", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// TotalsToTableData renders per-table totals side by side.
func TotalsToTableData(totals map[string]stock.Totals, order ...string) Data {
	rows := make([][]string, 0, len(order))
	for _, name := range order {
		t, ok := totals[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{name, strconv.Itoa(t.Products), t.Quantity.String()})
	}
	return Data{
		Headers:         []string{"Table", "Prodotti", "Totale prodotti"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// ClassLabel turns a class into a human label, e.g. "Fully Accounted".
func ClassLabel(c reconcile.Class) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}
