// Package stockfile provides common file loading for CLI commands.
package stockfile

import (
	"os"

	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/sheet"
	"github.com/agentstation/luga/pkg/stock"
)

// Load reads the file at path and normalizes it as the named table.
// An empty mediaType is derived from the file extension.
func Load(path, table, mediaType string) (*stock.Table, error) {
	if mediaType == "" {
		mediaType = sheet.MediaTypeFromName(path)
	}
	if err := sheet.CheckMediaType(path, mediaType); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	raw, err := sheet.Read(path, mediaType, data)
	if err != nil {
		return nil, err
	}
	return stock.Normalize(table, raw)
}
