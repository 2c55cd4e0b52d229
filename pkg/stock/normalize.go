package stock

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/sheet"
)

// Normalize turns a raw upload into a Table labeled table.
//
// The first two columns are taken positionally as ID and quantity, whatever
// their headers say; all other columns are dropped. IDs are kept as text so
// leading zeros survive. A quantity that cannot be read as a number fails
// with a TypeMismatchError naming the row; a readable quantity under a blank
// ID fails with a ValidationError naming the row. The column check counts
// data rows only, so a header that titles just the first column is fine.
func Normalize(table string, raw *sheet.RawTable) (*Table, error) {
	if raw == nil {
		return nil, errors.NewValidationError(table, nil, "no data")
	}
	if width := raw.Width(); width > 0 && width < 2 {
		return nil, errors.NewValidationError("columns", width,
			fmt.Sprintf("%s needs at least two columns (id, quantity), found %d", describe(table, raw), width))
	}

	t := NewTable(table)
	for i, cells := range raw.Rows {
		var id, value string
		if len(cells) > 0 {
			id = strings.TrimSpace(cells[0])
		}
		if len(cells) > 1 {
			value = cells[1]
		}

		quantity, err := ParseQuantity(value)
		if err != nil {
			return nil, errors.NewTypeMismatchError(table, i+1, id, value)
		}
		if id == "" {
			return nil, errors.NewValidationError("id", i+1,
				fmt.Sprintf("%s row %d has a quantity but no product id", describe(table, raw), i+1))
		}
		t.set(id, quantity)
	}
	return t, nil
}

// ParseQuantity reads a quantity cell. A single comma with no dot is taken
// as a decimal comma, as written by Italian-locale spreadsheet exports.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty quantity")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func describe(table string, raw *sheet.RawTable) string {
	if raw.Name != "" {
		return fmt.Sprintf("%s (%s)", table, raw.Name)
	}
	return table
}
