package stockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "total.csv", "A;10\nB;5\n")

	table, err := Load(path, constants.TotalTable, "")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, constants.TotalTable, table.Name())
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, "total.dat", "A;10\n")

	_, err := Load(path, constants.TotalTable, "")
	assert.True(t, errors.IsInvalidFileType(err))

	table, err := Load(path, constants.TotalTable, constants.MediaTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), constants.RobotTable, "")
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.False(t, errors.UserActionable(err))
}
