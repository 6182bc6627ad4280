package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"wprcli/internal/config"
	"wprcli/internal/dataprocessing"
	"wprcli/internal/exporter"
	"wprcli/internal/files"
	"wprcli/internal/infrastructure"
	"wprcli/internal/validation"
	"wprcli/pkg/contracts/domain"
)

// parsedExport carries one file's tables to the workbook writer
type parsedExport struct {
	name   string
	result *dataprocessing.MultiTableResult
}

func main() {
	inDir := flag.String("in", "", "input directory with exported csv files (defaults to data/exports relative to executable)")
	outDir := flag.String("out", "", "output directory for normalized csv files (defaults to data/reports relative to executable)")
	workers := flag.Int("workers", 0, "concurrent file parses (defaults to the configured worker count)")
	workbook := flag.Bool("workbook", true, "write a combined xlsx workbook with one sheet per table")
	archive := flag.Bool("archive", false, "move cleanly parsed exports to the archive directory")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = paths.ExportsDir
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
				FilePath: paths.GetLogPath("processor.log"),
			},
		}
		cfg.Parse.Workers = 4
	}
	if *workers <= 0 {
		*workers = cfg.Parse.Workers
	}
	if *workers <= 0 {
		*workers = 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	validator := validation.NewExportValidator(logger)
	if _, err := validator.ValidateInputDirectory(*inDir); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *workbook {
		if err := validator.ValidateWorkbookPath(paths.CombinedWorkbook); err != nil {
			logger.Error("Workbook validation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Starting batch processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.Int("workers", *workers))

	discovery := files.NewDiscovery(paths.DataDir)
	manager := files.NewManager(paths)
	csvWriter := exporter.NewCSVWriter(paths)

	exports, err := discovery.FindExportFiles(*inDir)
	if err != nil {
		logger.Error("Export discovery failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(exports) == 0 {
		logger.Info("No export files to process", slog.String("dir", *inDir))
		return
	}

	opts := dataprocessing.MultiTableOptions{
		Tables: dataprocessing.DefaultProfiles(),
	}
	if cfg.Parse.AbortOnMissingHeader {
		opts.OnMissingHeader = dataprocessing.AbortParse
	}

	var mu sync.Mutex
	var parsed []parsedExport

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)

	for _, export := range exports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := dataprocessing.ParseMultiTableFile(export.Path, opts)
			if err != nil {
				return fmt.Errorf("parse %s: %w", export.Name, err)
			}

			stem := strings.TrimSuffix(export.Name, filepath.Ext(export.Name))
			for _, title := range result.Order {
				out := filepath.Join(*outDir, fmt.Sprintf("%s_%s%s", stem, exporter.FileFragment(title), config.ExportFileExtension))
				if err := csvWriter.WriteRecords(out, result.Tables[title].Records); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
			}

			for _, diag := range result.Diagnostics {
				logger.Warn("Segment problem",
					slog.String("file", export.Name),
					slog.String("detail", diag.Error()))
			}

			if *archive && len(result.Diagnostics) == 0 {
				if !manager.ExportExists(export.Name) {
					logger.Warn("Skipping archive, file is outside the exports directory",
						slog.String("file", export.Path))
				} else if err := manager.ArchiveExport(export.Name); err != nil {
					return fmt.Errorf("archive %s: %w", export.Name, err)
				}
			}

			logger.Info("File processed",
				slog.String("file", export.Name),
				slog.Int("tables", len(result.Order)),
				slog.Int("diagnostics", len(result.Diagnostics)))

			mu.Lock()
			parsed = append(parsed, parsedExport{name: export.Name, result: result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Batch processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *workbook {
		if err := writeCombinedWorkbook(paths, exports, parsed); err != nil {
			logger.Error("Failed to write combined workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Combined workbook written", slog.String("path", paths.CombinedWorkbook))
	}

	logger.Info("Batch processing complete", slog.Int("files", len(parsed)))
}

// writeCombinedWorkbook renders every parsed table into one workbook, sheets
// ordered by input file then table position
func writeCombinedWorkbook(paths *config.Paths, exports []files.FileInfo, parsed []parsedExport) error {
	// Restore discovery order: workers finish out of order
	byName := make(map[string]*dataprocessing.MultiTableResult, len(parsed))
	for _, p := range parsed {
		byName[p.name] = p.result
	}

	tables := make(map[string][]*domain.Record)
	var order []string
	for _, export := range exports {
		result, ok := byName[export.Name]
		if !ok {
			continue
		}
		stem := strings.TrimSuffix(export.Name, filepath.Ext(export.Name))
		for _, title := range result.Order {
			sheet := fmt.Sprintf("%s %s", stem, title)
			tables[sheet] = result.Tables[title].Records
			order = append(order, sheet)
		}
	}

	if len(order) == 0 {
		return nil
	}

	wb := exporter.NewWorkbookWriter(paths)
	return wb.WriteWorkbook(paths.CombinedWorkbook, tables, order)
}
