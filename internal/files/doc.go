// Package files provides file system operations and discovery utilities
// for the WPR report pipeline.
//
// This package contains two main components:
//
// Discovery: Provides file discovery operations such as finding delimited
// export files, Excel workbooks, and files matching specific patterns. It
// also includes utilities for filtering files by date range and finding
// the latest file.
//
// Manager: Moves exports through their lifecycle, copying, moving and
// archiving files. Relative paths resolve against the configured data
// directories to keep the layout portable.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/base")
//
//	// Find all export files awaiting processing
//	exports, err := discovery.FindExportFiles("exports")
//
//	// Create a manager instance
//	manager := files.NewManager(paths)
//
//	// Archive a processed export
//	if manager.ExportExists("cpu_trace.csv") {
//	    err = manager.ArchiveExport("cpu_trace.csv")
//	}
package files
