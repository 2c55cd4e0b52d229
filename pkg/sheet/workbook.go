package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	zipSignature = []byte("PK\x03\x04")
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	// ErrNotWorkbook is returned when data carries no known spreadsheet signature.
	ErrNotWorkbook = errors.New("not a spreadsheet workbook")
)

// ReadWorkbook returns the rows of the first sheet of an xlsx or xls
// workbook, header row included.
func ReadWorkbook(data []byte) ([][]string, error) {
	switch {
	case bytes.HasPrefix(data, zipSignature):
		return readXLSX(data)
	case bytes.HasPrefix(data, oleSignature):
		return readXLS(data)
	default:
		return nil, ErrNotWorkbook
	}
}

func readXLS(data []byte) (rows [][]string, err error) {
	if err := checkCompound(data); err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	// The xls decoder panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("decoding xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("opening xls: no workbook stream")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		rows = append(rows, xlsRow(sheet, i))
	}
	return rows, nil
}

// xlsRow returns the cells of row i with trailing blanks trimmed, or nil
// when the sheet stores nothing for that row. Rows written without a ROW
// record report no last column, so the id and quantity columns are always
// read.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		// Row dereferences missing rows.
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	if row == nil {
		return nil
	}
	width := max(row.LastCol(), 2)
	cells = make([]string, 0, width)
	for j := 0; j < width; j++ {
		cells = append(cells, row.Col(j))
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
