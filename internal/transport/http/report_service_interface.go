package http

import (
	"context"

	"wprcli/internal/services"
)

// ReportServiceInterface defines the interface for report operations
type ReportServiceInterface interface {
	ListExports(ctx context.Context) ([]services.ExportInfo, error)
	ListReports(ctx context.Context) ([]services.ExportInfo, error)
	ParseExport(ctx context.Context, name string, req services.ParseRequest) (*services.ParseResult, error)
}
