package archive_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/inliner/archive"
)

func TestCompressor_Plan(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "project", "report.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0755))
	require.NoError(t, os.WriteFile(source, []byte("data"), 0644))
	folder := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(folder, 0755))

	tests := []struct {
		name        string
		source      string
		destination string
		expectPath  string
		expectName  string
	}{
		{
			name:       "sibling archive",
			source:     source,
			expectPath: filepath.Join(root, "project", "report.tar.xz"),
			expectName: "report.tar.xz",
		},
		{
			name:        "existing directory",
			source:      source,
			destination: folder,
			expectPath:  filepath.Join(folder, "report.tar.xz"),
			expectName:  "report.tar.xz",
		},
		{
			name:        "literal file",
			source:      source,
			destination: filepath.Join(folder, "custom.txz"),
			expectPath:  filepath.Join(folder, "custom.txz"),
			expectName:  "custom.txz",
		},
		{
			name:       "folder without extension",
			source:     filepath.Join(root, "project"),
			expectPath: filepath.Join(root, "project.tar.xz"),
			expectName: "project.tar.xz",
		},
	}

	compressor := archive.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := compressor.Plan(tt.source, tt.destination)
			require.NoError(t, err)
			assert.Equal(t, tt.expectPath, plan.Path)
			assert.Equal(t, tt.expectName, plan.Name)
			assert.Equal(t, filepath.Dir(tt.expectPath), plan.Folder)
			assert.Equal(t, filepath.Dir(tt.source), plan.SourceFolder)
			assert.Equal(t, filepath.Base(tt.source), plan.SourceName)
		})
	}
}

func TestCompressor_Compress(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "notes")
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "a.txt"), []byte("alpha"), 0644))

	t.Run("missing tool", func(t *testing.T) {
		logs := &strings.Builder{}
		compressor := archive.New(
			archive.WithCommand("inliner-missing-archiver"),
			archive.WithLogger(log.New(logs)),
		)
		result := compressor.Compress(context.Background(), source, "")
		require.NotNil(t, result)
		assert.False(t, result.Succeeded())
		assert.Error(t, result.Err)
		assert.Equal(t, -1, result.ExitCode)
		assert.Contains(t, logs.String(), "failed to build archive")
	})

	t.Run("nil logger", func(t *testing.T) {
		compressor := archive.New(
			archive.WithCommand("inliner-missing-archiver"),
			archive.WithLogger(nil),
		)
		result := compressor.Compress(context.Background(), source, "")
		assert.Equal(t, -1, result.ExitCode)
		assert.Error(t, result.Err)
	})

	t.Run("non zero exit", func(t *testing.T) {
		if _, err := exec.LookPath("false"); err != nil {
			t.Skip("false is not available")
		}
		compressor := archive.New(archive.WithCommand("false"))
		result := compressor.Compress(context.Background(), source, "")
		assert.False(t, result.Succeeded())
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("tar", func(t *testing.T) {
		if _, err := exec.LookPath(archive.DefaultCommand); err != nil {
			t.Skip("tar is not available")
		}
		output := &bytes.Buffer{}
		compressor := archive.New(archive.WithOutput(output))
		result := compressor.Compress(context.Background(), source, root)
		if result.ExitCode != 0 {
			t.Skipf("tar without xz support: %s", output.String())
		}
		require.NoError(t, result.Err)
		assert.True(t, result.Succeeded())
		assert.Equal(t, filepath.Join(root, "notes.tar.xz"), result.Plan.Path)
		assert.FileExists(t, result.Plan.Path)
		assert.Greater(t, result.Size, uint64(0))
	})
}
