package reconcile

import "github.com/shopspring/decimal"

// Summary holds the headline figures of a reconciliation.
//
// ExposedQuantity is a sum of quantities over exposed rows, not a row
// count. Negative counts rows whose robot count exceeds the total count;
// they fall in none of the chart buckets. FullyAccounted + ExposedRows +
// Unmatched + Negative always equals TotalProducts, so the three bucket
// counts alone add up to TotalProducts only when Negative is zero.
type Summary struct {
	TotalProducts   int             `json:"total_products" yaml:"total_products"`
	FullyAccounted  int             `json:"fully_accounted" yaml:"fully_accounted"`
	ExposedQuantity decimal.Decimal `json:"exposed_quantity" yaml:"exposed_quantity"`
	ExposedRows     int             `json:"exposed_rows" yaml:"exposed_rows"`
	Unmatched       int             `json:"unmatched" yaml:"unmatched"`
	Negative        int             `json:"negative" yaml:"negative"`
}

// Summarize computes the summary of r.
func Summarize(r *Result) Summary {
	s := Summary{ExposedQuantity: decimal.Zero}
	if r == nil {
		return s
	}
	s.TotalProducts = r.Len()
	for _, row := range r.rows {
		switch row.Class() {
		case ClassFullyAccounted:
			s.FullyAccounted++
		case ClassExposed:
			s.ExposedRows++
			s.ExposedQuantity = s.ExposedQuantity.Add(row.Exposed.Decimal)
		case ClassUnmatched:
			s.Unmatched++
		case ClassNegative:
			s.Negative++
		}
	}
	return s
}

// Slice is one category of the summary chart.
type Slice struct {
	Label string          `json:"label" yaml:"label"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Chart labels, as shown on the dashboard.
const (
	ChartNotExposed = "Prodotti non esposti"
	ChartExposed    = "Prodotti esposti"
	ChartUnmatched  = "Prodotti senza match"
)

// Chart returns the categorical chart series: the fully accounted count,
// the exposed quantity and the unmatched count.
func (s Summary) Chart() []Slice {
	return []Slice{
		{Label: ChartNotExposed, Value: decimal.NewFromInt(int64(s.FullyAccounted))},
		{Label: ChartExposed, Value: s.ExposedQuantity},
		{Label: ChartUnmatched, Value: decimal.NewFromInt(int64(s.Unmatched))},
	}
}
