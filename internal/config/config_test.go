package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("database-url", "", "")
	fs.String("models-dir", "app/models", "")
	fs.String("output", "db/schema.txt", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		ModelsDir:   "app/models",
		FixturesDir: "test/fixtures",
		Output:      "db/schema.txt",
		SchemaFile:  "db/schema.yml",
	}, cfg)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".schemanote.yaml"), []byte(
		"database_url: postgres://file/db\nmodels_dir: lib/models\nfixtures_dir: spec/fixtures\n"), 0o644))
	t.Setenv("SCHEMANOTE_FIXTURES_DIR", "env/fixtures")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "docs/schema.txt"}))

	cfg, err := Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "lib/models", cfg.ModelsDir, "unset flag must not shadow the file")
	assert.Equal(t, "env/fixtures", cfg.FixturesDir)
	assert.Equal(t, "docs/schema.txt", cfg.Output)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema: reporting\nverbose: true\n"), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "reporting", cfg.Schema)
	assert.True(t, cfg.Verbose)

	_, err = Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
