// Package sheet reads uploaded stock files into raw, untyped rows.
//
// An upload is first checked against the accepted media types, then parsed
// by the workbook reader (xlsx or legacy xls, chosen by file signature).
// When that fails the bytes are parsed as semicolon-delimited text with no
// header row. Only when both readers fail is an UnreadableFileError
// returned, carrying both causes.
package sheet

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
)

// Format identifies which reader produced a RawTable.
type Format string

const (
	// FormatWorkbook is a spreadsheet workbook (xlsx or xls).
	FormatWorkbook Format = "workbook"
	// FormatDelimited is semicolon-delimited text.
	FormatDelimited Format = "delimited"
)

// AcceptedMediaTypes lists the media types an upload may declare.
var AcceptedMediaTypes = []string{
	constants.MediaTypeXLS,
	constants.MediaTypeXLSX,
	constants.MediaTypeCSV,
}

// RawTable is a parsed upload before normalization.
// Header holds the workbook header row, if the format has one.
// Rows never contains fully blank rows.
type RawTable struct {
	Name   string
	Format Format
	Header []string
	Rows   [][]string
}

// Width returns the column count of the widest data row. The header is
// not counted: workbook exports often title only the first column.
func (t *RawTable) Width() int {
	width := 0
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	return width
}

// CheckMediaType validates the declared media type of an upload.
// Parameters such as charset are ignored.
func CheckMediaType(name, mediaType string) error {
	base, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return errors.NewInvalidFileTypeError(name, mediaType, AcceptedMediaTypes)
	}
	for _, accepted := range AcceptedMediaTypes {
		if base == accepted {
			return nil
		}
	}
	return errors.NewInvalidFileTypeError(name, mediaType, AcceptedMediaTypes)
}

// MediaTypeFromName maps a file extension to the media type a browser
// would declare for it. Unknown extensions return an empty string.
func MediaTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return constants.MediaTypeXLS
	case ".xlsx":
		return constants.MediaTypeXLSX
	case ".csv", ".txt":
		return constants.MediaTypeCSV
	default:
		return ""
	}
}

// Read parses data declared as mediaType into a RawTable.
func Read(name, mediaType string, data []byte) (*RawTable, error) {
	if err := CheckMediaType(name, mediaType); err != nil {
		return nil, err
	}

	rows, workbookErr := ReadWorkbook(data)
	if workbookErr == nil {
		table := &RawTable{Name: name, Format: FormatWorkbook}
		if len(rows) > 0 {
			table.Header = rows[0]
			table.Rows = compact(rows[1:])
		}
		return table, nil
	}

	rows, delimitedErr := ReadDelimited(data)
	if delimitedErr == nil {
		return &RawTable{Name: name, Format: FormatDelimited, Rows: compact(rows)}, nil
	}

	return nil, errors.NewUnreadableFileError(name, workbookErr, delimitedErr)
}

// ReadFrom reads the whole stream and parses it with Read.
func ReadFrom(name, mediaType string, r io.Reader) (*RawTable, error) {
	if err := CheckMediaType(name, mediaType); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.NewIOError("read", name, err)
	}
	return Read(name, mediaType, buf.Bytes())
}

// compact drops rows whose cells are all blank.
func compact(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isBlank(row) {
			out = append(out, row)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
