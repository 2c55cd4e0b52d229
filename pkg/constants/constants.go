// Package constants provides shared constants used throughout the luga codebase.
// This includes media types, export conventions, server defaults and other
// values that should be consistent across the application.
package constants

import "time"

// Media types accepted for stock uploads
const (
	// MediaTypeXLS is the legacy binary spreadsheet format (.xls)
	MediaTypeXLS = "application/vnd.ms-excel"

	// MediaTypeXLSX is the XML-based spreadsheet format (.xlsx)
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// MediaTypeCSV is semicolon-delimited text without a header row
	MediaTypeCSV = "text/csv"
)

// Export conventions
const (
	// Delimiter separates fields in delimited uploads and exports
	Delimiter = ';'

	// NotFoundToken replaces the quantity of unmatched rows in exports
	NotFoundToken = "non_trovato"

	// ExportFileName is the file name offered for the reconciliation export
	ExportFileName = "result_differences.csv"

	// ExportMediaType is the media type of the reconciliation export
	ExportMediaType = MediaTypeCSV

	// IDColumn is the canonical header of the identifier column
	IDColumn = "ID"

	// QuantityColumn is the canonical header of the quantity column
	QuantityColumn = "Giacenze"
)

// Table names used in logs and error messages
const (
	// TotalTable names the stock table holding the total counts
	TotalTable = "total"

	// RobotTable names the stock table holding the robot-managed counts
	RobotTable = "robot"
)

// Dashboard defaults
const (
	// DefaultDashboardHost is the default bind address of the dashboard
	DefaultDashboardHost = "localhost"

	// DefaultDashboardPort is the default port of the dashboard
	DefaultDashboardPort = 8502

	// DefaultResultTTL is how long a computed result stays downloadable
	DefaultResultTTL = 30 * time.Minute

	// DefaultMaxUploadMB caps the size of a single reconcile request
	DefaultMaxUploadMB = 32

	// ShutdownTimeout bounds graceful shutdown of the dashboard
	ShutdownTimeout = 30 * time.Second
)

// HTTP timeouts
const (
	// ReadTimeout is the dashboard HTTP read timeout
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the dashboard HTTP write timeout
	WriteTimeout = 30 * time.Second

	// IdleTimeout is the dashboard HTTP idle timeout
	IdleTimeout = 120 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
