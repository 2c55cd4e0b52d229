// Package stock normalizes raw uploads into stock tables: one quantity per
// product identifier, in first-seen order.
package stock

import (
	"github.com/shopspring/decimal"
)

// Row is a single product count.
type Row struct {
	ID       string          `json:"id" yaml:"id"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
}

// Totals summarizes a stock table.
type Totals struct {
	Products int             `json:"products" yaml:"products"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
}

// Table is an ordered mapping from product ID to quantity.
// A Table is never modified after construction.
type Table struct {
	name string
	ids  []string
	qty  map[string]decimal.Decimal
}

// NewTable builds a table from rows. A repeated ID keeps the position of
// its first occurrence and the quantity of its last.
func NewTable(name string, rows ...Row) *Table {
	t := &Table{
		name: name,
		ids:  make([]string, 0, len(rows)),
		qty:  make(map[string]decimal.Decimal, len(rows)),
	}
	for _, row := range rows {
		t.set(row.ID, row.Quantity)
	}
	return t
}

func (t *Table) set(id string, quantity decimal.Decimal) {
	if _, ok := t.qty[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.qty[id] = quantity
}

// Name returns the table's label, such as "total" or "robot".
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of distinct products.
func (t *Table) Len() int {
	return len(t.ids)
}

// Get returns the quantity recorded for id.
func (t *Table) Get(id string) (decimal.Decimal, bool) {
	q, ok := t.qty[id]
	return q, ok
}

// Has reports whether id is present.
func (t *Table) Has(id string) bool {
	_, ok := t.qty[id]
	return ok
}

// IDs returns the product IDs in table order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Rows returns the table as rows in table order.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, Row{ID: id, Quantity: t.qty[id]})
	}
	return out
}

// Each calls fn for every row in table order.
func (t *Table) Each(fn func(Row)) {
	for _, id := range t.ids {
		fn(Row{ID: id, Quantity: t.qty[id]})
	}
}

// Totals returns the number of products and the sum of their quantities.
func (t *Table) Totals() Totals {
	sum := decimal.Zero
	for _, id := range t.ids {
		sum = sum.Add(t.qty[id])
	}
	return Totals{Products: len(t.ids), Quantity: sum}
}
