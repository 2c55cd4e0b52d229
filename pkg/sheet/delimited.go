package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/agentstation/luga/pkg/constants"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDelimited parses semicolon-delimited UTF-8 text with no header row.
// Records may have different field counts.
func ReadDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("no data to parse")
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, errors.New("content is not UTF-8 text")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = constants.Delimiter
	r.FieldsPerRecord = -1
	// Hand-edited exports carry stray quotes inside unquoted fields.
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited text: %w", err)
	}
	return rows, nil
}
