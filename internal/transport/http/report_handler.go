package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "wprcli/internal/errors"
	"wprcli/internal/middleware"
	"wprcli/internal/services"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "report")),
		errorHandler: errorHandler,
		validate:     v,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/exports", h.ListExports)
	r.Get("/reports", h.ListReports)

	r.Route("/exports/{name}", func(r chi.Router) {
		r.Use(h.NameCtx)
		r.Post("/parse", h.ParseExport)
	})

	return r
}

// NameCtx middleware validates the report name parameter
func (h *ReportHandler) NameCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil || name == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Report name is required"))
			return
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Report name must be a bare file name"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseExportRequest is the POST /exports/{name}/parse body
type parseExportRequest struct {
	SingleTable   bool              `json:"single_table"`
	Rename        map[string]string `json:"rename" validate:"omitempty,dive,keys,min=1,endkeys,min=1"`
	KeyColumns    []string          `json:"key_columns" validate:"omitempty,dive,min=1"`
	HexColumns    []string          `json:"hex_columns" validate:"omitempty,dive,min=1"`
	WriteOutputs  bool              `json:"write_outputs"`
	WriteWorkbook bool              `json:"write_workbook"`
	Archive       bool              `json:"archive"`
}

// ListExports handles GET /api/exports
func (h *ReportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "listing exports",
		slog.String("request_id", reqID))

	exports, err := h.service.ListExports(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   exports,
		"count":  len(exports),
	})
}

// ListReports handles GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "listing reports",
		slog.String("request_id", reqID))

	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reports,
		"count":  len(reports),
	})
}

// ParseExport handles POST /api/exports/{name}/parse
func (h *ReportHandler) ParseExport(w http.ResponseWriter, r *http.Request) {
	name, _ := url.PathUnescape(chi.URLParam(r, "name"))
	reqID := middleware.GetReqID(r.Context())

	var req parseExportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, h.validationError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "parsing export",
		slog.String("request_id", reqID),
		slog.String("report", name),
		slog.Bool("single_table", req.SingleTable))

	result, err := h.service.ParseExport(r.Context(), name, services.ParseRequest{
		SingleTable:   req.SingleTable,
		Rename:        req.Rename,
		KeyColumns:    req.KeyColumns,
		HexColumns:    req.HexColumns,
		WriteOutputs:  req.WriteOutputs,
		WriteWorkbook: req.WriteWorkbook,
		Archive:       req.Archive,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// validationError converts validator errors into the API error shape
func (h *ReportHandler) validationError(err error) *apierrors.APIError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
