// Package completion generates and installs shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/luga/internal/cmd/emoji"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Shells lists every shell Generate accepts.
var Shells = []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// Installable lists the shells Install and Uninstall manage.
var Installable = []string{ShellBash, ShellZsh, ShellFish}

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.NewValidationError("shell", shell, "unsupported shell")
	}
}

// location is where a shell looks for completions, relative to a Homebrew
// prefix and to the home directory.
type location struct {
	brew []string
	home []string
}

var locations = map[string]location{
	ShellBash: {
		brew: []string{"etc", "bash_completion.d", "luga"},
		home: []string{".bash_completion.d", "luga"},
	},
	ShellZsh: {
		brew: []string{"share", "zsh", "site-functions", "_luga"},
		home: []string{".zsh", "completions", "_luga"},
	},
	ShellFish: {
		brew: []string{"share", "fish", "vendor_completions.d", "luga.fish"},
		home: []string{".config", "fish", "completions", "luga.fish"},
	},
}

// Path returns where the completion file for shell is installed.
// A Homebrew prefix wins over the home directory.
func Path(shell string) (string, error) {
	loc, ok := locations[shell]
	if !ok {
		return "", errors.NewValidationError("shell", shell, "completions cannot be installed for this shell")
	}

	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(append([]string{prefix}, loc.brew...)...), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, loc.home...)...), nil
}

func brewPrefix() string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return prefix
	}
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return prefix
		}
	}
	return ""
}

// Install writes the completion script for shell to its system location
// and reports progress to out.
func Install(root *cobra.Command, shell string, out io.Writer) (err error) {
	target, err := Path(shell)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(target), err)
	}

	file, err := os.Create(target) // #nosec G304 - target comes from Path
	if err != nil {
		return errors.WrapIO("create", target, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.WrapIO("close", target, closeErr)
		}
	}()

	if err := Generate(root, shell, file); err != nil {
		return fmt.Errorf("generate %s completion: %w", shell, err)
	}

	fmt.Fprintf(out, emoji.Success+" %s completions installed to: %s\n", shell, target)
	return nil
}

// Uninstall removes the completion file for shell. A missing file is not
// an error.
func Uninstall(shell string, out io.Writer) error {
	target, err := Path(shell)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		fmt.Fprintf(out, emoji.Info+" No %s completions found at: %s\n", shell, target)
		return nil
	}
	if err := os.Remove(target); err != nil {
		return errors.WrapIO("remove", target, err)
	}
	fmt.Fprintf(out, emoji.Success+" Removed %s completions from: %s\n", shell, target)
	return nil
}
