package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wprcli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir:    base,
		DataDir:          filepath.Join(base, "data"),
		ExportsDir:       filepath.Join(base, "data", "exports"),
		ReportsDir:       filepath.Join(base, "data", "reports"),
		ArchiveDir:       filepath.Join(base, "data", "archive"),
		LogsDir:          filepath.Join(base, "logs"),
		CombinedWorkbook: filepath.Join(base, "data", "reports", "combined.xlsx"),
	}
}

func TestArchiveExport(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	src := paths.GetExportPath("trace.csv")
	require.NoError(t, os.WriteFile(src, []byte("Col A,Col B\n1,2\n"), 0644))

	require.NoError(t, manager.ArchiveExport("trace.csv"))

	assert.NoFileExists(t, src)
	content, err := os.ReadFile(paths.GetArchivePath("trace.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Col A,Col B\n1,2\n", string(content))
}

func TestArchiveExportStripsDirectories(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	src := paths.GetExportPath("trace.csv")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	// A traversal-shaped name still archives the export of the same base name
	require.NoError(t, manager.ArchiveExport("../secrets/trace.csv"))
	assert.FileExists(t, paths.GetArchivePath("trace.csv"))
}

func TestArchiveExportMissing(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	assert.Error(t, manager.ArchiveExport("nope.csv"))
}

func TestMoveFileAcrossDirectories(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	require.NoError(t, os.WriteFile(paths.GetExportPath("a.csv"), []byte("data"), 0644))

	require.NoError(t, manager.MoveFile("exports/a.csv", "reports/a.csv"))

	assert.NoFileExists(t, paths.GetExportPath("a.csv"))
	assert.FileExists(t, paths.GetReportPath("a.csv"))
}

func TestCopyFileCreatesDestinationDirectories(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	require.NoError(t, os.WriteFile(paths.GetExportPath("a.csv"), []byte("payload"), 0644))

	dst := filepath.Join(paths.DataDir, "nested", "deep", "a.csv")
	require.NoError(t, manager.CopyFile("exports/a.csv", dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	// Source stays in place on copy
	assert.FileExists(t, paths.GetExportPath("a.csv"))
}

func TestExportExists(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)
	require.NoError(t, paths.EnsureDirectories())

	assert.False(t, manager.ExportExists("trace.csv"))

	require.NoError(t, os.WriteFile(paths.GetExportPath("trace.csv"), []byte("x"), 0644))
	assert.True(t, manager.ExportExists("trace.csv"))
	assert.True(t, manager.ExportExists("../evil/trace.csv"))
}

func TestResolvePath(t *testing.T) {
	paths := testPaths(t)
	manager := NewManager(paths)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "exports prefix", in: "exports/a.csv", want: paths.GetExportPath("a.csv")},
		{name: "reports prefix", in: "reports/b.csv", want: paths.GetReportPath("b.csv")},
		{name: "archive prefix", in: "archive/c.csv", want: paths.GetArchivePath("c.csv")},
		{name: "logs prefix", in: "logs/run.log", want: paths.GetLogPath("run.log")},
		{name: "bare name lands in data dir", in: "d.csv", want: filepath.Join(paths.DataDir, "d.csv")},
		{name: "absolute passes through", in: "/tmp/e.csv", want: "/tmp/e.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manager.resolvePath(tt.in))
		})
	}
}
