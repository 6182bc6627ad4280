// Package exporter provides CSV and Excel export functionality for the WPR
// report pipeline.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, normalized record output, and UTF-8 BOM for Excel
// compatibility.
//
// WorkbookWriter: Writes a full multi-table parse result into a single
// Excel workbook, one sheet per table, preserving the order the tables
// appeared in the source export.
//
// Example usage:
//
//	// Create a CSV writer
//	csvWriter := exporter.NewCSVWriter(paths)
//
//	// Write normalized records to a report file
//	err := csvWriter.WriteRecords("ppm_settings.csv", records)
//
//	// Create a workbook writer
//	wbWriter := exporter.NewWorkbookWriter(paths)
//
//	// Write all parsed tables to one workbook
//	err = wbWriter.WriteWorkbook("combined.xlsx", tables, order)
package exporter
