package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"wprcli/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents one dependency check
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger,
	}
}

// CheckHealth returns the overall health of the pipeline
func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Checks: map[string]CheckResult{
			"exports_dir": s.checkDirectory(s.paths.ExportsDir),
			"reports_dir": s.checkDirectory(s.paths.ReportsDir),
			"archive_dir": s.checkDirectory(s.paths.ArchiveDir),
		},
	}

	for name, check := range status.Checks {
		if check.Status != "up" {
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "health check failed",
				slog.String("check", name),
				slog.String("message", check.Message))
		}
	}

	return status
}

// Readiness reports whether the service can accept parse requests
func (s *HealthService) Readiness(ctx context.Context) *HealthStatus {
	health := s.CheckHealth(ctx)
	if health.Status == "degraded" {
		health.Status = "not_ready"
	} else {
		health.Status = "ready"
	}
	return health
}

func (s *HealthService) checkDirectory(dir string) CheckResult {
	info, err := os.Stat(dir)
	if err != nil {
		return CheckResult{Status: "down", Message: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: "down", Message: fmt.Sprintf("%s is not a directory", dir)}
	}
	return CheckResult{Status: "up"}
}

// Uptime returns how long the service has been running
func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.startTime)
}
