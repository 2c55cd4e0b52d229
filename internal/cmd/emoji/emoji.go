// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants give status lines a consistent look across commands.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation or a rejected upload.
	Error = "✗"

	// Stop marks a shutdown or stop signal.
	Stop = "✗"

	// Warning marks a non-critical issue.
	Warning = "!"

	// Info marks informational messages.
	Info = "i"
)
