package output

import (
	"io"

	"github.com/agentstation/luga/internal/cmd/table"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/export"
	"github.com/agentstation/luga/pkg/reconcile"
	"github.com/agentstation/luga/pkg/stock"
)

// StockRow is the serialized form of one normalized stock row.
type StockRow struct {
	ID       string `json:"id" yaml:"id"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

// StockReport is the serialized form of a normalized stock table.
type StockReport struct {
	Table    string     `json:"table" yaml:"table"`
	Products int        `json:"products" yaml:"products"`
	Quantity string     `json:"quantity" yaml:"quantity"`
	Rows     []StockRow `json:"rows" yaml:"rows"`
}

// NewStockReport builds the serialized form of t.
func NewStockReport(t *stock.Table) StockReport {
	totals := t.Totals()
	rep := StockReport{
		Table:    t.Name(),
		Products: totals.Products,
		Quantity: totals.Quantity.String(),
		Rows:     make([]StockRow, 0, t.Len()),
	}
	t.Each(func(r stock.Row) {
		rep.Rows = append(rep.Rows, StockRow{ID: r.ID, Quantity: r.Quantity.String()})
	})
	return rep
}

// ResultRow is the serialized form of one reconciliation row.
// Exposed is nil for unmatched products.
type ResultRow struct {
	ID      string          `json:"id" yaml:"id"`
	Exposed *string         `json:"exposed_quantity" yaml:"exposed_quantity"`
	Class   reconcile.Class `json:"class" yaml:"class"`
}

// TableTotals is the serialized form of stock.Totals.
type TableTotals struct {
	Products int    `json:"products" yaml:"products"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

// SummaryReport is the serialized form of reconcile.Summary.
type SummaryReport struct {
	TotalProducts   int    `json:"total_products" yaml:"total_products"`
	FullyAccounted  int    `json:"fully_accounted" yaml:"fully_accounted"`
	ExposedQuantity string `json:"exposed_quantity" yaml:"exposed_quantity"`
	ExposedRows     int    `json:"exposed_rows" yaml:"exposed_rows"`
	Unmatched       int    `json:"unmatched" yaml:"unmatched"`
	Negative        int    `json:"negative" yaml:"negative"`
}

// Report is everything the reconcile command prints.
type Report struct {
	Total   TableTotals   `json:"total" yaml:"total"`
	Robot   TableTotals   `json:"robot" yaml:"robot"`
	Summary SummaryReport `json:"summary" yaml:"summary"`
	Rows    []ResultRow   `json:"rows" yaml:"rows"`

	totals  map[string]stock.Totals
	summary reconcile.Summary
	rows    []reconcile.Row
}

// NewReport builds a report. When all is false only exposed and negative
// rows are listed, which are the ones that need attention on the floor.
func NewReport(total, robot *stock.Table, result *reconcile.Result, all bool) Report {
	s := reconcile.Summarize(result)
	rows := result.Rows()
	if !all {
		rows = result.Filter(reconcile.ClassExposed, reconcile.ClassNegative)
	}

	rep := Report{
		Total: toTotals(total.Totals()),
		Robot: toTotals(robot.Totals()),
		Summary: SummaryReport{
			TotalProducts:   s.TotalProducts,
			FullyAccounted:  s.FullyAccounted,
			ExposedQuantity: s.ExposedQuantity.String(),
			ExposedRows:     s.ExposedRows,
			Unmatched:       s.Unmatched,
			Negative:        s.Negative,
		},
		Rows:    make([]ResultRow, 0, len(rows)),
		totals: map[string]stock.Totals{
			constants.TotalTable: total.Totals(),
			constants.RobotTable: robot.Totals(),
		},
		summary: s,
		rows:    rows,
	}
	for _, r := range rows {
		row := ResultRow{ID: r.ID, Class: r.Class()}
		if r.Exposed.Valid {
			q := export.FormatQuantity(r.Exposed)
			row.Exposed = &q
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

func toTotals(t stock.Totals) TableTotals {
	return TableTotals{Products: t.Products, Quantity: t.Quantity.String()}
}

// FormatStock writes a stock table in the given format.
func FormatStock(w io.Writer, format Format, t *stock.Table) error {
	if format == FormatTable {
		return NewFormatter(format).Format(w, table.StockToTableData(t))
	}
	return NewFormatter(format).Format(w, NewStockReport(t))
}

// FormatReport writes a reconciliation report in the given format.
func FormatReport(w io.Writer, format Format, rep Report) error {
	if format != FormatTable {
		return NewFormatter(format).Format(w, rep)
	}
	return NewFormatter(format).Format(w, []table.Data{
		table.TotalsToTableData(rep.totals, constants.TotalTable, constants.RobotTable),
		table.SummaryToTableData(rep.summary),
		table.RowsToTableData(rep.rows),
	})
}
