package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/report"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("MECHCHECK_CONFIG", "")
	assert.Equal(t, DefaultConfigPath, ConfigPath(""))

	t.Setenv("MECHCHECK_CONFIG", "/etc/mechcheck.toml")
	assert.Equal(t, "/etc/mechcheck.toml", ConfigPath(""))
	assert.Equal(t, "local.toml", ConfigPath("local.toml"))
}

func TestNewChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[concurrency]
versions = 3

[[versions]]
name = "v1"
database = "db"
mechanism = "kpp"
`), 0o644))
	t.Setenv("MECHCHECK_REPORT_DIR", filepath.Join(dir, "out"))
	t.Setenv("MEMGRAPH_URI", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	c, cleanup, err := NewChecker(context.Background(), cfg, Options{WriteReports: true}, nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 3, c.Concurrency)
	require.Len(t, c.Sinks, 1)
	w, ok := c.Sinks[0].(*report.Writer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "out"), w.Dir)
}
