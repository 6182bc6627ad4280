package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wprcli/internal/config"
	"wprcli/pkg/contracts/domain"
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

func makeRecord(t *testing.T, pairs ...string) *domain.Record {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	rec := domain.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("clock.csv",
		[]string{"CPU", "Count"},
		[][]string{{"0", "1200"}, {"1", "900"}})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.GetReportPath("clock.csv"))
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM")
	assert.Contains(t, content, "CPU,Count\n")
	assert.Contains(t, content, "0,1200\n")
	assert.Contains(t, content, "1,900\n")
}

func TestAppendToCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("out.csv",
		[]string{"Process", "Count"},
		[][]string{{"chrome.exe", "3"}}))
	require.NoError(t, writer.AppendToCSV("out.csv",
		[][]string{{"svchost.exe", "7"}}))

	data, err := os.ReadFile(paths.GetReportPath("out.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	assert.Equal(t, []string{"Process,Count", "chrome.exe,3", "svchost.exe,7"}, lines)
}

func TestWriteRecords(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	records := []*domain.Record{
		makeRecord(t, "Setting", "IdleDisable", "Value", "0x00000001"),
		makeRecord(t, "Setting", "MaxPerf", "Value", "0x00000064"),
	}

	require.NoError(t, writer.WriteRecords("ppm_settings.csv", records))

	data, err := os.ReadFile(paths.GetReportPath("ppm_settings.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Setting,Value", lines[0])
	assert.Equal(t, "IdleDisable,0x00000001", lines[1])
	assert.Equal(t, "MaxPerf,0x00000064", lines[2])
}

func TestTabulate(t *testing.T) {
	tests := []struct {
		name        string
		records     []*domain.Record
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "empty record set",
			records:     nil,
			wantHeaders: nil,
			wantRows:    [][]string{},
		},
		{
			name: "uniform columns keep first-seen order",
			records: []*domain.Record{
				makeRecord(t, "CPU", "0", "Count", "10"),
				makeRecord(t, "CPU", "1", "Count", "20"),
			},
			wantHeaders: []string{"CPU", "Count"},
			wantRows:    [][]string{{"0", "10"}, {"1", "20"}},
		},
		{
			name: "ragged columns fill blanks",
			records: []*domain.Record{
				makeRecord(t, "CPU", "0"),
				makeRecord(t, "CPU", "1", "Qos", "High"),
			},
			wantHeaders: []string{"CPU", "Qos"},
			wantRows:    [][]string{{"0", ""}, {"1", "High"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, rows := Tabulate(tt.records)
			assert.Equal(t, tt.wantHeaders, headers)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Process", "Count"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"chrome.exe", "1"}))
	require.NoError(t, stream.WriteRecord([]string{"code.exe", "2"}))
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(paths.GetReportPath("stream.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	assert.Equal(t, []string{"Process,Count", "chrome.exe,1", "code.exe,2"}, lines)
}

func TestResolvePathPrefixes(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	assert.Equal(t, paths.GetExportPath("raw.csv"), writer.resolvePath("exports/raw.csv"))
	assert.Equal(t, paths.GetArchivePath("done.csv"), writer.resolvePath("archive/done.csv"))
	assert.Equal(t, paths.GetReportPath("out.csv"), writer.resolvePath("out.csv"))

	abs := filepath.Join(paths.DataDir, "abs.csv")
	assert.Equal(t, abs, writer.resolvePath(abs))
}

func TestFileFragment(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "spaces to underscores", title: "PPM Settings", want: "ppm_settings"},
		{name: "punctuation dropped", title: "CPU Usage (by core)", want: "cpu_usage_by_core"},
		{name: "synthetic title", title: "Table 3", want: "table_3"},
		{name: "nothing usable", title: "???", want: "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileFragment(tt.title))
		})
	}
}
