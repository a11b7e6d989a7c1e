//go:build integration
// +build integration

package schemanote

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemanote/internal/db"
)

func newSQLiteDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	client, err := db.NewSQLiteClient(ctx, path)
	require.NoError(t, err)
	defer client.Close()

	for _, stmt := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			login VARCHAR(40) NOT NULL,
			status VARCHAR(20) DEFAULT 'active',
			created_at DATETIME
		)`,
		`CREATE UNIQUE INDEX index_users_on_login ON users (login)`,
		`CREATE TABLE schema_migrations (version VARCHAR(255) NOT NULL)`,
		`INSERT INTO schema_migrations (version) VALUES ('3')`,
	} {
		require.NoError(t, client.Exec(ctx, stmt))
	}
	return "sqlite://" + path
}

func TestAnnotateSQLite(t *testing.T) {
	url := newSQLiteDatabase(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models", "user.go"), "package models\n")
	writeFile(t, filepath.Join(dir, "models", "ghost.go"), "package models\n")

	var out bytes.Buffer
	summary, err := Annotate(context.Background(), url, nil, &Options{
		ModelsDir:   filepath.Join(dir, "models"),
		FixturesDir: filepath.Join(dir, "fixtures"),
		Output:      filepath.Join(dir, "schema.txt"),
		Writer:      &out,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	assert.Equal(t, "Skipping Ghost\nAnnotating User\n", out.String())
	assert.Equal(t, []string{"User"}, summary.Models())

	model := readFile(t, filepath.Join(dir, "models", "user.go"))
	assert.True(t, strings.HasPrefix(model, "// Schema as of Fri Oct 16 09:30:00 +0000 2026 (schema version 3)\n//\n"))
	assert.Contains(t, model, "//  login                                   string(40)          not null\n")
	assert.Contains(t, model, "//  status                                  string(20)          default(active)\n")
	assert.Contains(t, readFile(t, filepath.Join(dir, "schema.txt")), "User\n\n#  id ")
}

func TestDumpLoadSQLite(t *testing.T) {
	ctx := context.Background()
	source := newSQLiteDatabase(t)

	var first bytes.Buffer
	require.NoError(t, DumpSchema(ctx, source, &first, nil))
	assert.Contains(t, first.String(), "version: 3")
	assert.Contains(t, first.String(), "name: login")

	target := "sqlite://" + filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, LoadSchema(ctx, target, bytes.NewReader(first.Bytes()), nil))

	var second bytes.Buffer
	require.NoError(t, DumpSchema(ctx, target, &second, nil))
	assert.Equal(t, first.String(), second.String())
}
