package reconcile

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Class buckets a reconciliation row.
type Class string

const (
	// ClassExposed marks a positive exposed quantity.
	ClassExposed Class = "exposed"
	// ClassFullyAccounted marks a product whose counts match exactly.
	ClassFullyAccounted Class = "fully_accounted"
	// ClassUnmatched marks a product missing from the robot table.
	ClassUnmatched Class = "unmatched"
	// ClassNegative marks a robot count above the total count. It is not
	// part of the three reporting buckets.
	ClassNegative Class = "negative"
)

// Classify derives the class of an exposed quantity.
func Classify(exposed decimal.NullDecimal) Class {
	switch {
	case !exposed.Valid:
		return ClassUnmatched
	case exposed.Decimal.IsZero():
		return ClassFullyAccounted
	case exposed.Decimal.IsPositive():
		return ClassExposed
	default:
		return ClassNegative
	}
}

// Row is the reconciliation of one product.
// Exposed is invalid (absent) when the product has no robot entry.
type Row struct {
	ID      string              `json:"id" yaml:"id"`
	Exposed decimal.NullDecimal `json:"exposed_quantity" yaml:"exposed_quantity"`
}

// Class returns the row's class.
func (r Row) Class() Class {
	return Classify(r.Exposed)
}

// MarshalJSON adds the derived class to the encoded row.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string              `json:"id"`
		Exposed decimal.NullDecimal `json:"exposed_quantity"`
		Class   Class               `json:"class"`
	}{r.ID, r.Exposed, r.Class()})
}

// Result is an immutable, ordered set of reconciliation rows keyed by ID.
type Result struct {
	rows  []Row
	index map[string]int
}

// NewResult builds a Result. A repeated ID keeps its first position and
// its last value.
func NewResult(rows []Row) *Result {
	r := &Result{
		rows:  make([]Row, 0, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		if i, ok := r.index[row.ID]; ok {
			r.rows[i] = row
			continue
		}
		r.index[row.ID] = len(r.rows)
		r.rows = append(r.rows, row)
	}
	return r
}

// Len returns the number of products.
func (r *Result) Len() int {
	return len(r.rows)
}

// Get returns the row for id.
func (r *Result) Get(id string) (Row, bool) {
	i, ok := r.index[id]
	if !ok {
		return Row{}, false
	}
	return r.rows[i], true
}

// Rows returns a copy of the rows in result order.
func (r *Result) Rows() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Filter returns the rows whose class is one of classes, in result order.
func (r *Result) Filter(classes ...Class) []Row {
	want := make(map[Class]bool, len(classes))
	for _, c := range classes {
		want[c] = true
	}
	var out []Row
	for _, row := range r.rows {
		if want[row.Class()] {
			out = append(out, row)
		}
	}
	return out
}

// Equal reports whether both results hold the same IDs with the same
// exposed quantities, ignoring row order.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Len() != other.Len() {
		return false
	}
	for _, row := range r.rows {
		o, ok := other.Get(row.ID)
		if !ok || o.Exposed.Valid != row.Exposed.Valid {
			return false
		}
		if row.Exposed.Valid && !row.Exposed.Decimal.Equal(o.Exposed.Decimal) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the result as its list of rows.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.rows)
}
