package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wprcli/internal/config"
)

// Manager moves export files through their lifecycle within the data layout.
// Relative paths are resolved against the layout's directories; absolute
// paths are taken as given.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a manager bound to the given data layout
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// ArchiveExport moves a processed export out of the exports directory into
// the archive. Only the base name is honored, so callers cannot archive
// files outside the exports directory.
func (m *Manager) ArchiveExport(name string) error {
	base := filepath.Base(name)
	src := m.paths.GetExportPath(base)
	dst := m.paths.GetArchivePath(base)

	slog.Info("Archiving export",
		slog.String("export", base),
		slog.String("archive_path", dst))

	return m.MoveFile(src, dst)
}

// MoveFile relocates a file, preferring an atomic rename and falling back
// to copy plus delete when rename crosses filesystems
func (m *Manager) MoveFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("prepare destination for %s: %w", dst, err)
	}

	if err := os.Rename(srcPath, dstPath); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(srcPath)
}

// CopyFile duplicates a file, creating destination directories as needed.
// The destination is synced before returning so a crash cannot leave a
// half-written archive copy next to a deleted original.
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("prepare destination for %s: %w", dst, err)
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Sync()
}

// ExportExists reports whether a named export is present in the exports
// directory
func (m *Manager) ExportExists(name string) bool {
	info, err := os.Stat(m.paths.GetExportPath(filepath.Base(name)))
	return err == nil && !info.IsDir()
}

// resolvePath maps layout-relative paths onto their directories. The
// exports/, reports/, archive/ and logs/ prefixes select the matching
// directory; anything else lands under the data directory.
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	switch {
	case strings.HasPrefix(path, "exports/"):
		return m.paths.GetExportPath(strings.TrimPrefix(path, "exports/"))
	case strings.HasPrefix(path, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(path, "reports/"))
	case strings.HasPrefix(path, "archive/"):
		return m.paths.GetArchivePath(strings.TrimPrefix(path, "archive/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
