package reconcile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/export"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))
	return path
}

func execute(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	mock := &application.Mock{
		OutputFormatFunc: func() string { return format },
	}
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReconcileCommandJSON(t *testing.T) {
	dir := t.TempDir()
	total := writeFile(t, dir, "total.csv", "A;10\nB;5\nC;0\n")
	robot := writeFile(t, dir, "robot.csv", "A;4\nB;5\nZ;9\n")

	out, err := execute(t, "json", total, robot, "--all")
	require.NoError(t, err)

	var rep struct {
		Summary struct {
			TotalProducts   int    `json:"total_products"`
			FullyAccounted  int    `json:"fully_accounted"`
			ExposedQuantity string `json:"exposed_quantity"`
			Unmatched       int    `json:"unmatched"`
		} `json:"summary"`
		Rows []struct {
			ID string `json:"id"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Summary.TotalProducts)
	assert.Equal(t, 1, rep.Summary.FullyAccounted)
	assert.Equal(t, "6", rep.Summary.ExposedQuantity)
	assert.Equal(t, 1, rep.Summary.Unmatched)
	require.Len(t, rep.Rows, 3, "robot-only products are ignored")
}

func TestReconcileCommandExport(t *testing.T) {
	dir := t.TempDir()
	total := writeFile(t, dir, "total.csv", "A;10\nB;5\nC;0\n")
	robot := writeFile(t, dir, "robot.csv", "A;4\nB;5\n")
	exportPath := filepath.Join(dir, "out.csv")

	out, err := execute(t, "table", total, robot, "--export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "A")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "ID;Giacenze\nA;6\nB;0\nC;non_trovato\n", string(data))

	// The export reads back to the same result
	f, err := os.Open(exportPath)
	require.NoError(t, err)
	defer f.Close()
	back, err := export.ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, 3, back.Len())
}

func TestWriteExportFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "out.csv", "ID;Giacenze\nA;1\n")

	err := writeExport(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	var ioErr *errors.IOError
	assert.False(t, errors.As(err, &ioErr), "export errors are returned as is")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID;Giacenze\nA;1\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file removed")
}

func TestWriteExportMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := writeExport(path, nil)
	require.Error(t, err)

	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, path, ioErr.Path)
	var inner *errors.IOError
	assert.False(t, errors.As(ioErr.Err, &inner), "wrapped once")
}

func TestReconcileCommandErrorsNameTheFile(t *testing.T) {
	dir := t.TempDir()
	total := writeFile(t, dir, "total.csv", "A;10\n")
	robot := writeFile(t, dir, "robot.csv", "A;many\n")

	_, err := execute(t, "json", total, robot)
	require.Error(t, err)
	assert.True(t, errors.IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "robot file")

	_, err = execute(t, "json", filepath.Join(dir, "missing.xlsx"), robot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total file")
}

func TestReconcileCommandMediaTypeOverride(t *testing.T) {
	dir := t.TempDir()
	total := writeFile(t, dir, "total.txt.dat", "A;10\n")
	robot := writeFile(t, dir, "robot.csv", "A;4\n")

	_, err := execute(t, "json", total, robot)
	assert.True(t, errors.IsInvalidFileType(err))

	_, err = execute(t, "json", total, robot, "--type-total", constants.MediaTypeCSV)
	assert.NoError(t, err)
}

func TestReconcileCommandArgs(t *testing.T) {
	_, err := execute(t, "json", "only-one.csv")
	assert.Error(t, err)
}
