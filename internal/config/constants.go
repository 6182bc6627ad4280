package config

import "time"

// Application constants for the trace report pipeline
const (
	// Application Info
	AppName    = "wprcli"
	AppVersion = "1.2.0"

	// Config file next to the executable
	ConfigFileName = "wprcli.yml"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultExportsDir = "data/exports"
	DefaultReportsDir = "data/reports"
	DefaultArchiveDir = "data/archive"
	DefaultLogsDir    = "logs"

	// Exported report files carry this extension
	ExportFileExtension = ".csv"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Rate Limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 25
)
