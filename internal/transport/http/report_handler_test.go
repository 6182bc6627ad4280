package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "wprcli/internal/errors"
	"wprcli/internal/services"
)

// mockReportService implements ReportServiceInterface for handler tests
type mockReportService struct {
	exports     []services.ExportInfo
	reports     []services.ExportInfo
	parseResult *services.ParseResult
	parseErr    error

	lastName    string
	lastRequest services.ParseRequest
}

func (m *mockReportService) ListExports(ctx context.Context) ([]services.ExportInfo, error) {
	return m.exports, nil
}

func (m *mockReportService) ListReports(ctx context.Context) ([]services.ExportInfo, error) {
	return m.reports, nil
}

func (m *mockReportService) ParseExport(ctx context.Context, name string, req services.ParseRequest) (*services.ParseResult, error) {
	m.lastName = name
	m.lastRequest = req
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.parseResult, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(svc ReportServiceInterface) *ReportHandler {
	logger := testLogger()
	return NewReportHandler(svc, logger, apierrors.NewErrorHandler(logger))
}

func TestListExportsHandler(t *testing.T) {
	svc := &mockReportService{
		exports: []services.ExportInfo{
			{Name: "trace.csv", Size: 100},
			{Name: "second.csv", Size: 50},
		},
	}
	handler := newTestHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/exports", nil)
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string                `json:"status"`
		Data   []services.ExportInfo `json:"data"`
		Count  int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "trace.csv", body.Data[0].Name)
}

func TestParseExportHandler(t *testing.T) {
	svc := &mockReportService{
		parseResult: &services.ParseResult{
			Report: "trace.csv",
			Tables: []services.TableSummary{{Title: "PPM Settings"}},
		},
	}
	handler := newTestHandler(svc)

	body := strings.NewReader(`{"key_columns":["Setting"],"hex_columns":["Value"],"write_outputs":true}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/trace.csv/parse", body)
	req.Header.Set("Content-Type", "application/json")
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "trace.csv", svc.lastName)
	assert.Equal(t, []string{"Setting"}, svc.lastRequest.KeyColumns)
	assert.Equal(t, []string{"Value"}, svc.lastRequest.HexColumns)
	assert.True(t, svc.lastRequest.WriteOutputs)
}

func TestParseExportHandlerEmptyBody(t *testing.T) {
	svc := &mockReportService{parseResult: &services.ParseResult{Report: "trace.csv"}}
	handler := newTestHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/trace.csv/parse", nil)
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, services.ParseRequest{}, svc.lastRequest)
}

func TestParseExportHandlerInvalidJSON(t *testing.T) {
	handler := newTestHandler(&mockReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/trace.csv/parse", strings.NewReader("{not json"))
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestParseExportHandlerValidationFailure(t *testing.T) {
	handler := newTestHandler(&mockReportService{})

	// Empty key column name fails validation
	body := strings.NewReader(`{"key_columns":[""]}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/trace.csv/parse", body)
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestParseExportHandlerServiceError(t *testing.T) {
	svc := &mockReportService{parseErr: apierrors.ReportNotFoundError("trace.csv")}
	handler := newTestHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/trace.csv/parse", nil)
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REPORT_NOT_FOUND")
}

func TestNameCtxRejectsTraversal(t *testing.T) {
	handler := newTestHandler(&mockReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exports/..%2fsecrets.csv/parse", nil)
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}
