package sheet_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/sheet"
)

// xlsxFixture writes rows into the first sheet of a new workbook.
func xlsxFixture(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCheckMediaType(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		wantErr   bool
	}{
		{"xls", constants.MediaTypeXLS, false},
		{"xlsx", constants.MediaTypeXLSX, false},
		{"csv", constants.MediaTypeCSV, false},
		{"csv with charset", "text/csv; charset=utf-8", false},
		{"pdf", "application/pdf", true},
		{"plain text", "text/plain", true},
		{"empty", "", true},
		{"garbage", "not a media type;;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sheet.CheckMediaType("upload", tt.mediaType)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidFileType(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMediaTypeFromName(t *testing.T) {
	assert.Equal(t, constants.MediaTypeXLS, sheet.MediaTypeFromName("Giacenze.XLS"))
	assert.Equal(t, constants.MediaTypeXLSX, sheet.MediaTypeFromName("/tmp/totali.xlsx"))
	assert.Equal(t, constants.MediaTypeCSV, sheet.MediaTypeFromName("robot.csv"))
	assert.Empty(t, sheet.MediaTypeFromName("robot.pdf"))
	assert.Empty(t, sheet.MediaTypeFromName("noext"))
}

func TestReadWorkbook(t *testing.T) {
	data := xlsxFixture(t, [][]any{
		{"Codice", "Quantita", "Descrizione"},
		{"00123", 10, "aspirina"},
		{"B7", 1234, "garza"},
		{},
		{"C9", 2.5, "sciroppo"},
	})

	table, err := sheet.Read("totali.xlsx", constants.MediaTypeXLSX, data)
	require.NoError(t, err)

	assert.Equal(t, sheet.FormatWorkbook, table.Format)
	assert.Equal(t, "totali.xlsx", table.Name)
	assert.Equal(t, []string{"Codice", "Quantita", "Descrizione"}, table.Header)
	assert.Equal(t, 3, table.Width())
	require.Len(t, table.Rows, 3, "header dropped and blank row removed")
	assert.Equal(t, []string{"00123", "10", "aspirina"}, table.Rows[0])
	assert.Equal(t, "1234", table.Rows[1][1], "raw values carry no number format")
	assert.Equal(t, "2.5", table.Rows[2][1])
}

func TestReadWorkbookAcceptedUnderAnyMediaType(t *testing.T) {
	data := xlsxFixture(t, [][]any{{"id", "qty"}, {"A", 1}})

	table, err := sheet.Read("export.csv", constants.MediaTypeCSV, data)
	require.NoError(t, err)
	assert.Equal(t, sheet.FormatWorkbook, table.Format)
}

func TestReadDelimitedFallback(t *testing.T) {
	data := []byte("\xEF\xBB\xBFA;10\nB;5;extra\n\n  ;  \nC;0\n")

	table, err := sheet.Read("robot.csv", constants.MediaTypeXLS, data)
	require.NoError(t, err)

	assert.Equal(t, sheet.FormatDelimited, table.Format)
	assert.Empty(t, table.Header, "delimited uploads have no header row")
	assert.Equal(t, [][]string{
		{"A", "10"},
		{"B", "5", "extra"},
		{"C", "0"},
	}, table.Rows)
	assert.Equal(t, 3, table.Width(), "widest data row")
}

func TestReadDelimitedStrayQuotes(t *testing.T) {
	table, err := sheet.Read("robot.csv", constants.MediaTypeCSV, []byte("A\"x;1\nB;\"2\"\n"))
	require.NoError(t, err)

	assert.Equal(t, sheet.FormatDelimited, table.Format)
	assert.Equal(t, [][]string{{`A"x`, "1"}, {"B", "2"}}, table.Rows)
}

func TestReadWorkbookNarrowHeader(t *testing.T) {
	data := xlsxFixture(t, [][]any{
		{"Codice"},
		{"A", 10},
		{"B", 5},
	})

	table, err := sheet.Read("totali.xlsx", constants.MediaTypeXLSX, data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Codice"}, table.Header)
	assert.Equal(t, 2, table.Width(), "header is not counted")
	assert.Equal(t, [][]string{{"A", "10"}, {"B", "5"}}, table.Rows)
}

func TestReadXLS(t *testing.T) {
	data, err := os.ReadFile("testdata/stock.xls")
	require.NoError(t, err)

	table, err := sheet.Read("giacenze.xls", constants.MediaTypeXLS, data)
	require.NoError(t, err)

	assert.Equal(t, sheet.FormatWorkbook, table.Format)
	assert.Equal(t, []string{"Codice", "Giacenza", "Note"}, table.Header)
	assert.Equal(t, [][]string{
		{"00123", "10"},
		{"B7", "2.5"},
		{"C9", "0"},
	}, table.Rows, "unstored row skipped, row without ROW record still read")
	assert.Equal(t, 2, table.Width())
}

func TestReadXLSBrokenContainer(t *testing.T) {
	fixture, err := os.ReadFile("testdata/stock.xls")
	require.NoError(t, err)

	// Offsets into the fixture: the header holds the directory start at 48
	// and the allocation extension start at 68; the allocation table is
	// sector 0 at 512.
	patch := func(off int, v uint32) []byte {
		data := bytes.Clone(fixture)
		binary.LittleEndian.PutUint32(data[off:], v)
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", fixture[:700]},
		{"workbook chain loops", patch(512+4*2, 2)},
		{"workbook chain leaves table", patch(512+4*3, 0x00FFFFFF)},
		{"directory outside file", patch(48, 64)},
		{"extension outside file", patch(68, 0x7FFF)},
		{"bad byte order", patch(28, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sheet.ReadWorkbook(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "xls")
		})
	}
}

func TestReadUnreadableXLS(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, "not a compound file"...)

	_, err := sheet.Read("giacenze.xls", constants.MediaTypeXLS, data)
	require.Error(t, err)

	var unreadable *errors.UnreadableFileError
	require.ErrorAs(t, err, &unreadable)
	require.Error(t, unreadable.WorkbookErr)
	assert.Contains(t, unreadable.WorkbookErr.Error(), "xls")
	assert.Error(t, unreadable.DelimitedErr)
}

func TestReadUnreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"binary", []byte{0x00, 0x01, 0xFF, 0xFE, 0x00}},
		{"latin-1 text", []byte("A;caf\xe9\nB;5")},
		{"broken zip", []byte("PK\x03\x04 definitely not a workbook\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sheet.Read("bad.xlsx", constants.MediaTypeXLSX, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsUnreadableFile(err))

			var unreadable *errors.UnreadableFileError
			require.ErrorAs(t, err, &unreadable)
			assert.Equal(t, "bad.xlsx", unreadable.Name)
			assert.Error(t, unreadable.WorkbookErr, "workbook cause is kept")
			assert.Error(t, unreadable.DelimitedErr, "delimited cause is kept")
		})
	}
}

func TestReadNotWorkbookCause(t *testing.T) {
	_, err := sheet.Read("bad.csv", constants.MediaTypeCSV, []byte{0x00})
	var unreadable *errors.UnreadableFileError
	require.ErrorAs(t, err, &unreadable)
	assert.ErrorIs(t, unreadable.WorkbookErr, sheet.ErrNotWorkbook)
}

func TestReadRejectsMediaTypeBeforeParsing(t *testing.T) {
	_, err := sheet.Read("a.png", "image/png", []byte("A;1"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidFileType(err))
	assert.False(t, errors.IsUnreadableFile(err))
}

func TestReadFrom(t *testing.T) {
	table, err := sheet.ReadFrom("robot.csv", constants.MediaTypeCSV, strings.NewReader("X;1\nY;2\n"))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)

	_, err = sheet.ReadFrom("robot.txt", "text/plain", bytes.NewReader(nil))
	assert.True(t, errors.IsInvalidFileType(err))
}
