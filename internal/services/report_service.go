package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wprcli/internal/config"
	"wprcli/internal/dataprocessing"
	apierrors "wprcli/internal/errors"
	"wprcli/internal/exporter"
	"wprcli/internal/files"
	"wprcli/internal/infrastructure"
	"wprcli/pkg/contracts/domain"
)

// ReportService orchestrates export discovery, parsing and output writing
type ReportService struct {
	cfg       *config.Config
	paths     *config.Paths
	discovery *files.Discovery
	manager   *files.Manager
	csvWriter *exporter.CSVWriter
	wbWriter  *exporter.WorkbookWriter
	metrics   *infrastructure.ParseMetrics
	logger    *slog.Logger
}

// NewReportService creates a new report service. Metrics may be nil, in which
// case parse outcomes are not recorded.
func NewReportService(cfg *config.Config, paths *config.Paths, metrics *infrastructure.ParseMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("ReportService initialized",
		slog.String("exports_dir", paths.ExportsDir),
		slog.String("reports_dir", paths.ReportsDir))

	return &ReportService{
		cfg:       cfg,
		paths:     paths,
		discovery: files.NewDiscovery(paths.DataDir),
		manager:   files.NewManager(paths),
		csvWriter: exporter.NewCSVWriter(paths),
		wbWriter:  exporter.NewWorkbookWriter(paths),
		metrics:   metrics,
		logger:    logger,
	}
}

// ExportInfo describes one discovered export file
type ExportInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// ParseRequest carries caller-supplied parse options
type ParseRequest struct {
	// SingleTable treats the whole file as one table, no boundary detection
	SingleTable bool
	// Rename maps source column names to output column names
	Rename map[string]string
	// KeyColumns group and deduplicate rows; empty means no grouping
	KeyColumns []string
	// HexColumns get the hex byte-sequence formatter applied
	HexColumns []string
	// WriteOutputs renders each parsed table as a normalized report CSV
	WriteOutputs bool
	// WriteWorkbook renders all parsed tables into the combined workbook
	WriteWorkbook bool
	// Archive moves the export to the archive directory after a clean parse
	Archive bool
}

// TableSummary describes one parsed table in a ParseResult
type TableSummary struct {
	Title         string           `json:"title"`
	Records       []*domain.Record `json:"records"`
	MalformedRows int              `json:"malformed_rows"`
	FlaggedValues int              `json:"flagged_values"`
	OutputFile    string           `json:"output_file,omitempty"`
}

// ParseResult is the full outcome of parsing one export
type ParseResult struct {
	Report      string         `json:"report"`
	Tables      []TableSummary `json:"tables"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
	Workbook    string         `json:"workbook,omitempty"`
	Archived    bool           `json:"archived"`
}

// ListExports returns the export files awaiting processing
func (s *ReportService) ListExports(ctx context.Context) ([]ExportInfo, error) {
	found, err := s.discovery.FindExportFiles(s.paths.ExportsDir)
	if err != nil {
		return nil, apierrors.FileSystemError("export discovery", err)
	}

	exports := make([]ExportInfo, 0, len(found))
	for _, f := range found {
		exports = append(exports, ExportInfo{
			Name:     f.Name,
			Size:     f.Size,
			Modified: f.ModTime,
		})
	}

	s.logger.DebugContext(ctx, "exports listed",
		slog.Int("count", len(exports)),
		slog.String("dir", s.paths.ExportsDir))

	return exports, nil
}

// ListReports returns the normalized report files already written
func (s *ReportService) ListReports(ctx context.Context) ([]ExportInfo, error) {
	found, err := s.discovery.FindExportFiles(s.paths.ReportsDir)
	if err != nil {
		return nil, apierrors.FileSystemError("report discovery", err)
	}

	reports := make([]ExportInfo, 0, len(found))
	for _, f := range found {
		reports = append(reports, ExportInfo{
			Name:     f.Name,
			Size:     f.Size,
			Modified: f.ModTime,
		})
	}

	return reports, nil
}

// ParseExport parses the named export file and optionally writes outputs
func (s *ReportService) ParseExport(ctx context.Context, name string, req ParseRequest) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolveExport(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &ParseResult{Report: filepath.Base(name)}

	if req.SingleTable {
		tr, err := dataprocessing.ParseTableFile(path, s.tableOptions(req))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, apierrors.ReportNotFoundError(name)
			}
			return nil, apierrors.UnparseableReportError(err)
		}
		result.Tables = []TableSummary{{
			Title:         strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
			Records:       tr.Records,
			MalformedRows: tr.MalformedRows,
			FlaggedValues: tr.FlaggedValues,
		}}
	} else {
		mr, err := dataprocessing.ParseMultiTableFile(path, s.multiTableOptions(req))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, apierrors.ReportNotFoundError(name)
			}
			return nil, apierrors.UnparseableReportError(err)
		}
		for _, title := range mr.Order {
			tr := mr.Tables[title]
			result.Tables = append(result.Tables, TableSummary{
				Title:         title,
				Records:       tr.Records,
				MalformedRows: tr.MalformedRows,
				FlaggedValues: tr.FlaggedValues,
			})
		}
		for _, diag := range mr.Diagnostics {
			result.Diagnostics = append(result.Diagnostics, diag.Error())
		}
	}

	s.recordMetrics(ctx, result, time.Since(start))

	if req.WriteOutputs {
		if err := s.writeOutputs(result); err != nil {
			return nil, err
		}
	}
	if req.WriteWorkbook {
		if err := s.writeWorkbook(result); err != nil {
			return nil, err
		}
	}
	if req.Archive && len(result.Diagnostics) == 0 {
		if err := s.manager.ArchiveExport(result.Report); err != nil {
			return nil, apierrors.FileSystemError("archive", err)
		}
		result.Archived = true
	}

	s.logger.InfoContext(ctx, "export parsed",
		slog.String("report", result.Report),
		slog.Int("tables", len(result.Tables)),
		slog.Int("diagnostics", len(result.Diagnostics)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// resolveExport maps a report name onto the exports directory, rejecting
// anything that escapes it
func (s *ReportService) resolveExport(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || name == "" || name == "." || name == ".." {
		return "", apierrors.InvalidRequestWithError(fmt.Errorf("invalid report name %q", name))
	}

	path := s.paths.GetExportPath(base)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", apierrors.ReportNotFoundError(name)
		}
		return "", apierrors.FileSystemError("stat", err)
	}
	return path, nil
}

// tableOptions builds single-table options from a request plus server config
func (s *ReportService) tableOptions(req ParseRequest) dataprocessing.TableOptions {
	opts := dataprocessing.TableOptions{
		Rename:     req.Rename,
		KeyColumns: req.KeyColumns,
	}
	if len(req.HexColumns) > 0 {
		opts.Formatters = make(map[string]dataprocessing.CellFormatter, len(req.HexColumns))
		for _, col := range req.HexColumns {
			opts.Formatters[col] = dataprocessing.FormatHexByteSequence
		}
	}
	if s.cfg.Parse.FailOnMalformedValue {
		opts.OnMalformedValue = dataprocessing.FailOnMalformedValue
	}
	return opts
}

// multiTableOptions layers the request on top of the shipped profiles
func (s *ReportService) multiTableOptions(req ParseRequest) dataprocessing.MultiTableOptions {
	tables := dataprocessing.DefaultProfiles()
	if s.cfg.Parse.FailOnMalformedValue {
		for title, opts := range tables {
			opts.OnMalformedValue = dataprocessing.FailOnMalformedValue
			tables[title] = opts
		}
	}

	opts := dataprocessing.MultiTableOptions{Tables: tables}
	if s.cfg.Parse.AbortOnMissingHeader {
		opts.OnMissingHeader = dataprocessing.AbortParse
	}
	return opts
}

// writeOutputs renders each table as a normalized CSV in the reports dir
func (s *ReportService) writeOutputs(result *ParseResult) error {
	stem := strings.TrimSuffix(result.Report, filepath.Ext(result.Report))
	for i := range result.Tables {
		t := &result.Tables[i]
		out := fmt.Sprintf("%s_%s%s", stem, exporter.FileFragment(t.Title), config.ExportFileExtension)
		if err := s.csvWriter.WriteRecords(out, t.Records); err != nil {
			return apierrors.FileSystemError("write report", err)
		}
		t.OutputFile = out
	}
	return nil
}

// writeWorkbook renders all tables into one Excel workbook per report
func (s *ReportService) writeWorkbook(result *ParseResult) error {
	stem := strings.TrimSuffix(result.Report, filepath.Ext(result.Report))
	name := stem + ".xlsx"

	tables := make(map[string][]*domain.Record, len(result.Tables))
	order := make([]string, 0, len(result.Tables))
	for _, t := range result.Tables {
		tables[t.Title] = t.Records
		order = append(order, t.Title)
	}

	if err := s.wbWriter.WriteWorkbook(name, tables, order); err != nil {
		return apierrors.FileSystemError("write workbook", err)
	}
	result.Workbook = name
	return nil
}

func (s *ReportService) recordMetrics(ctx context.Context, result *ParseResult, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	for _, t := range result.Tables {
		s.metrics.RecordParse(ctx, t.Title, len(t.Records), t.MalformedRows, t.FlaggedValues, elapsed)
	}
	if n := len(result.Diagnostics); n > 0 {
		s.metrics.SegmentErrors.Add(ctx, int64(n))
	}
}
