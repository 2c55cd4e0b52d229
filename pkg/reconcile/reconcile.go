// Package reconcile computes exposed stock: for every product in the total
// table, the quantity not accounted for by the robot-managed table.
//
// The join is driven by the total table. Products known only to the robot
// table never appear in a Result.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/stock"
)

// Reconcile joins total against robot. Both tables must be normalized.
// The result lists every product of total in total's order; its exposed
// quantity is total minus robot, or absent when robot has no entry.
// Negative differences are kept as they are.
func Reconcile(total, robot *stock.Table) (*Result, error) {
	if total == nil {
		return nil, errors.NewValidationError("total", nil, "total stock table is required")
	}
	if robot == nil {
		return nil, errors.NewValidationError("robot", nil, "robot stock table is required")
	}

	rows := make([]Row, 0, total.Len())
	total.Each(func(r stock.Row) {
		row := Row{ID: r.ID}
		if managed, ok := robot.Get(r.ID); ok {
			row.Exposed = decimal.NewNullDecimal(r.Quantity.Sub(managed))
		}
		rows = append(rows, row)
	})

	return NewResult(rows), nil
}
