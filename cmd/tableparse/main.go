package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wprcli/internal/config"
	"wprcli/internal/dataprocessing"
	"wprcli/internal/exporter"
	"wprcli/internal/infrastructure"
	"wprcli/internal/validation"
)

func main() {
	in := flag.String("in", "", "exported csv file to parse (required)")
	outDir := flag.String("out", "", "output directory for normalized csv files (defaults to data/reports relative to executable)")
	single := flag.Bool("single", false, "treat the whole file as one table instead of detecting boundaries")
	keys := flag.String("keys", "", "comma-separated key columns for grouping (single-table mode)")
	hexCols := flag.String("hex", "", "comma-separated columns holding hex byte sequences (single-table mode)")
	abort := flag.Bool("abort-on-missing-header", false, "fail the parse on the first segment without a header")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: tableparse -in <export.csv> [-out dir] [-single] [-keys col,col] [-hex col,col]")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *outDir == "" {
		*outDir = paths.ReportsDir
	} else if abs, err := filepath.Abs(*outDir); err == nil {
		*outDir = abs
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "both",
				FilePath: paths.GetLogPath("tableparse.log"),
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	validator := validation.NewExportValidator(logger)
	if err := validator.ValidateExportFile(*in); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting table parse",
		slog.String("input", *in),
		slog.String("output_dir", *outDir),
		slog.Bool("single_table", *single))

	csvWriter := exporter.NewCSVWriter(paths)
	stem := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))

	if *single {
		opts := dataprocessing.TableOptions{
			KeyColumns: splitList(*keys),
		}
		if cols := splitList(*hexCols); len(cols) > 0 {
			opts.Formatters = make(map[string]dataprocessing.CellFormatter, len(cols))
			for _, col := range cols {
				opts.Formatters[col] = dataprocessing.FormatHexByteSequence
			}
		}

		result, err := dataprocessing.ParseTableFile(*in, opts)
		if err != nil {
			logger.Error("Parse failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		out := filepath.Join(*outDir, stem+config.ExportFileExtension)
		if err := csvWriter.WriteRecords(out, result.Records); err != nil {
			logger.Error("Failed to write output", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Parse complete",
			slog.String("output", out),
			slog.Int("records", len(result.Records)),
			slog.Int("malformed_rows", result.MalformedRows),
			slog.Int("flagged_values", result.FlaggedValues))
		return
	}

	opts := dataprocessing.MultiTableOptions{
		Tables: dataprocessing.DefaultProfiles(),
	}
	if *abort {
		opts.OnMissingHeader = dataprocessing.AbortParse
	}

	result, err := dataprocessing.ParseMultiTableFile(*in, opts)
	if err != nil {
		logger.Error("Parse failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, diag := range result.Diagnostics {
		logger.Warn("Segment problem", slog.String("detail", diag.Error()))
	}

	for _, title := range result.Order {
		tr := result.Tables[title]
		out := filepath.Join(*outDir, fmt.Sprintf("%s_%s%s", stem, exporter.FileFragment(title), config.ExportFileExtension))
		if err := csvWriter.WriteRecords(out, tr.Records); err != nil {
			logger.Error("Failed to write output",
				slog.String("table", title),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Table written",
			slog.String("table", title),
			slog.String("output", out),
			slog.Int("records", len(tr.Records)),
			slog.Int("malformed_rows", tr.MalformedRows),
			slog.Int("flagged_values", tr.FlaggedValues))
	}

	logger.Info("Parse complete",
		slog.Int("tables", len(result.Order)),
		slog.Int("diagnostics", len(result.Diagnostics)))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
