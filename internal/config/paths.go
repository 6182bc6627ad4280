package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string // delimited report files dropped by the tracing tools
	ReportsDir    string // normalized outputs written by the pipeline
	ArchiveDir    string // processed export files are moved here
	LogsDir       string

	// Well-known output files
	CombinedWorkbook string // Excel workbook with one sheet per parsed table
}

// GetPaths returns the application paths relative to the executable location.
// Paths are never resolved against the current working directory, so the
// binaries behave identically whether launched from a shell, a service
// manager or another process.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return pathsFrom(filepath.Dir(exe)), nil
}

// PathsWithOverrides applies non-empty PathsConfig overrides on top of the
// executable-relative defaults.
func PathsWithOverrides(overrides PathsConfig) (*Paths, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}
	if overrides.DataDir != "" {
		paths = pathsFromData(paths.ExecutableDir, overrides.DataDir)
	}
	if overrides.ExportsDir != "" {
		paths.ExportsDir = overrides.ExportsDir
	}
	if overrides.ReportsDir != "" {
		paths.ReportsDir = overrides.ReportsDir
		paths.CombinedWorkbook = filepath.Join(overrides.ReportsDir, "combined.xlsx")
	}
	if overrides.ArchiveDir != "" {
		paths.ArchiveDir = overrides.ArchiveDir
	}
	if overrides.LogsDir != "" {
		paths.LogsDir = overrides.LogsDir
	}
	return paths, nil
}

func pathsFrom(exeDir string) *Paths {
	return pathsFromData(exeDir, filepath.Join(exeDir, DefaultDataDir))
}

func pathsFromData(exeDir, dataDir string) *Paths {
	reportsDir := filepath.Join(dataDir, "reports")
	return &Paths{
		ExecutableDir:    exeDir,
		DataDir:          dataDir,
		ExportsDir:       filepath.Join(dataDir, "exports"),
		ReportsDir:       reportsDir,
		ArchiveDir:       filepath.Join(dataDir, "archive"),
		LogsDir:          filepath.Join(exeDir, DefaultLogsDir),
		CombinedWorkbook: filepath.Join(reportsDir, "combined.xlsx"),
	}
}

// EnsureDirectories creates every directory the pipeline writes to.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.ExportsDir, p.ReportsDir, p.ArchiveDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path for a named log file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetExportPath returns the path of a named export file.
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetReportPath returns the path of a named report output file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetArchivePath returns the path a processed export is moved to.
func (p *Paths) GetArchivePath(filename string) string {
	return filepath.Join(p.ArchiveDir, filename)
}
