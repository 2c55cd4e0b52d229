package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/luga/pkg/errors"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "luga"}
	root.AddCommand(&cobra.Command{Use: "reconcile", Run: func(*cobra.Command, []string) {}})
	return root
}

func TestGenerate(t *testing.T) {
	for _, shell := range Shells {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Generate(newRoot(), shell, &buf))
			assert.Contains(t, buf.String(), "luga")
		})
	}

	err := Generate(newRoot(), "tcsh", &bytes.Buffer{})
	assert.True(t, errors.IsValidationError(err))
}

func TestPath(t *testing.T) {
	t.Setenv("HOMEBREW_PREFIX", "/opt/brew")

	path, err := Path(ShellZsh)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/brew", "share", "zsh", "site-functions", "_luga"), path)

	_, err = Path(ShellPowerShell)
	assert.Error(t, err)
}

func TestInstallUninstall(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	for _, shell := range Installable {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Install(newRoot(), shell, &out))

			target, err := Path(shell)
			require.NoError(t, err)
			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Contains(t, out.String(), "installed")

			out.Reset()
			require.NoError(t, Uninstall(shell, &out))
			assert.NoFileExists(t, target)
			assert.Contains(t, out.String(), "Removed")

			out.Reset()
			require.NoError(t, Uninstall(shell, &out))
			assert.Contains(t, out.String(), "No "+shell)
		})
	}
}
