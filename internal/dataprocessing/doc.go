// Package dataprocessing parses the delimited text reports exported by
// performance-tracing tools and normalizes them into uniformly-shaped records.
// It is the core of the pipeline: everything around it (file discovery, the
// HTTP surface, exporters) only hands files in and consumes records back.
//
// # Architecture
//
// The package is organized into small, independently testable pieces:
//
//  1. Value formatters: hex byte-sequence decoding and trailing-identifier
//     stripping (formatter.go)
//  2. Header classification: decides whether a row is a column header
//     (header.go)
//  3. Segment scanning: a finite-state machine that partitions a multi-table
//     stream into title/header/body segments (segments.go)
//  4. Grouping: keyed deduplication with last-write-wins merge (grouper.go)
//  5. Orchestration: single-table and multi-table parsers (table.go,
//     multitable.go)
//
// # Usage
//
// Single-table parsing:
//
//	result, err := dataprocessing.ParseTableFile("processes.csv", dataprocessing.TableOptions{
//	    KeyColumns: []string{"Process"},
//	})
//
// Multi-table parsing:
//
//	result, err := dataprocessing.ParseMultiTableFile("lifetime.csv", dataprocessing.MultiTableOptions{})
//	for _, title := range result.Order {
//	    records := result.Tables[title].Records
//	    ...
//	}
//
// # Data Flow
//
//	raw bytes → line stream → segment scanner → column rename + formatters → grouper → records
//
// # Error Handling
//
// Parsing is tolerant at the row and segment level: malformed rows are skipped
// and counted, segments without a classifiable header are reported and (by
// default) skipped, and values a formatter rejects fall back to the raw text
// with a flagged-value count. Only I/O failure on the underlying stream is
// fatal.
//
// # Performance Considerations
//
// A single-table parse is a single pass over the stream; memory is bounded by
// the number of distinct group keys, not the number of rows, so inputs far
// larger than memory are fine as long as key cardinality is small.
package dataprocessing
