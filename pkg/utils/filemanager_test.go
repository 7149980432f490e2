package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	tests := []struct {
		format   string
		expected string
	}{
		{"DCR_Updated_{timestamp}.xlsx", "DCR_Updated_20240115_143022.xlsx"},
		{"roster_{date}_{time}", "roster_20240115_143022.xlsx"},
		{"merged.XLSX", "merged.XLSX"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateOutputFileName(tt.format, now))
		})
	}

	name := GenerateOutputFileName("DCR_{uuid}.xlsx", now)
	assert.Regexp(t, regexp.MustCompile(`^DCR_[0-9a-f-]{36}\.xlsx$`), name)
}

func TestSaveOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	fm := NewFileManager(dir)

	path, err := fm.SaveOutput("DCR_Updated_20240115_143022.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "DCR_Updated_20240115_143022.xlsx"), path)
	assert.True(t, FileExists(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	_, err = fm.SaveOutput("DCR_Updated_20240115_143022.xlsx", []byte("other"))
	assert.Error(t, err, "existing outputs are never overwritten")
}

func TestSaveOutputStripsDirectories(t *testing.T) {
	dir := t.TempDir()

	path, err := NewFileManager(dir).SaveOutput("../../escape.xlsx", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.xlsx"), path)
}
