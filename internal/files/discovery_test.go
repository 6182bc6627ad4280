package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindExportFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedCount int
		description   string
	}{
		{
			name:          "only export files",
			files:         []string{"cpu_trace.csv", "ppm_settings.CSV", "clock.csv"},
			expectedCount: 3,
			description:   "Should find all export files regardless of case",
		},
		{
			name:          "mixed file types",
			files:         []string{"trace.csv", "report.xlsx", "notes.txt"},
			expectedCount: 1,
			description:   "Should find only export files",
		},
		{
			name:          "no export files",
			files:         []string{"report.xlsx", "readme.md"},
			expectedCount: 0,
			description:   "Should find no export files",
		},
		{
			name:          "empty directory",
			files:         []string{},
			expectedCount: 0,
			description:   "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
			}

			discovery := NewDiscovery(dir)
			found, err := discovery.FindExportFiles(dir)

			require.NoError(t, err)
			assert.Len(t, found, tt.expectedCount, tt.description)
		})
	}
}

func TestFindExportFilesSortedByModTime(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "first.csv")
	newer := filepath.Join(dir, "second.csv")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("b"), 0644))

	// Force a deterministic ordering regardless of filesystem timestamp resolution
	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	discovery := NewDiscovery(dir)
	found, err := discovery.FindExportFiles(dir)

	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "first.csv", found[0].Name)
	assert.Equal(t, "second.csv", found[1].Name)
}

func TestFindExportFilesRelativeDir(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "exports")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "trace.csv"), []byte("data"), 0644))

	discovery := NewDiscovery(base)
	found, err := discovery.FindExportFiles("exports")

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "trace.csv", found[0].Name)
}

func TestFindExportFilesMissingDirectory(t *testing.T) {
	discovery := NewDiscovery(t.TempDir())

	_, err := discovery.FindExportFiles("does-not-exist")
	assert.Error(t, err)
}

func TestFindExcelFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"combined.xlsx", "old.XLSX", "raw.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
	}

	discovery := NewDiscovery(dir)
	found, err := discovery.FindExcelFiles(dir)

	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cpu_usage.csv", "cpu_lifetime.csv", "process.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
	}

	discovery := NewDiscovery(dir)
	found, err := discovery.FindFilesByPattern(dir, "cpu_*.csv")

	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "old.csv", ModTime: now.Add(-2 * time.Hour)},
		{Name: "newest.csv", ModTime: now},
		{Name: "middle.csv", ModTime: now.Add(-time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "newest.csv", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}

func TestFilterFilesByDateRange(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "too_old.csv", ModTime: now.Add(-48 * time.Hour)},
		{Name: "in_range.csv", ModTime: now.Add(-12 * time.Hour)},
		{Name: "too_new.csv", ModTime: now.Add(time.Hour)},
	}

	filtered := FilterFilesByDateRange(files, now.Add(-24*time.Hour), now)

	require.Len(t, filtered, 1)
	assert.Equal(t, "in_range.csv", filtered[0].Name)
}
