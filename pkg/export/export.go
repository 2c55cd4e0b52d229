// Package export writes reconciliation results as semicolon-delimited text
// and reads them back.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/reconcile"
)

// FileName and MediaType describe the export download.
const (
	FileName  = constants.ExportFileName
	MediaType = constants.ExportMediaType
)

// Header is the first record of every export.
var Header = []string{constants.IDColumn, constants.QuantityColumn}

// WriteCSV writes result to w, one record per row in result order.
// Unmatched rows carry the non_trovato token instead of a quantity.
func WriteCSV(w io.Writer, result *reconcile.Result) error {
	if result == nil {
		return errors.NewValidationError("result", nil, "nothing to export")
	}

	cw := csv.NewWriter(w)
	cw.Comma = constants.Delimiter

	if err := cw.Write(Header); err != nil {
		return errors.WrapIO("write", FileName, err)
	}
	for _, row := range result.Rows() {
		if err := cw.Write([]string{row.ID, FormatQuantity(row.Exposed)}); err != nil {
			return errors.WrapIO("write", FileName, err)
		}
	}
	cw.Flush()
	return errors.WrapIO("write", FileName, cw.Error())
}

// Bytes renders result as export bytes.
func Bytes(result *reconcile.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatQuantity renders an exposed quantity as written in exports.
func FormatQuantity(q decimal.NullDecimal) string {
	if !q.Valid {
		return constants.NotFoundToken
	}
	return q.Decimal.String()
}

// ParseQuantity is the inverse of FormatQuantity.
func ParseQuantity(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == constants.NotFoundToken {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ReadCSV reads an export written by WriteCSV.
func ReadCSV(r io.Reader) (*reconcile.Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = constants.Delimiter
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewUnreadableFileError(FileName, nil, err)
	}
	if len(records) > 0 && records[0][0] == Header[0] && records[0][1] == Header[1] {
		records = records[1:]
	}

	rows := make([]reconcile.Row, 0, len(records))
	for i, rec := range records {
		q, err := ParseQuantity(rec[1])
		if err != nil {
			return nil, fmt.Errorf("export: %w", errors.NewTypeMismatchError(FileName, i+1, rec[0], rec[1]))
		}
		rows = append(rows, reconcile.Row{ID: rec[0], Exposed: q})
	}
	return reconcile.NewResult(rows), nil
}
