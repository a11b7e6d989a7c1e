package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadComments(t *testing.T) {
	require := require.New(t)

	comments, err := readComments(strings.NewReader(`
users:
  email: Login address
  status: |
    One of active, locked
    or deleted
orders:
  total: Gross amount in cents
`), false)
	require.NoError(err)
	require.Equal(map[string]map[string]string{
		"users": {
			"email":  "Login address",
			"status": "One of active, locked\nor deleted\n",
		},
		"orders": {"total": "Gross amount in cents"},
	}, comments)

	comments, err = readComments(strings.NewReader(""), false)
	require.NoError(err)
	require.Empty(comments)

	_, err = readComments(strings.NewReader("users: [email"), false)
	require.Error(err)
}

func TestReadCommentsDDL(t *testing.T) {
	require := require.New(t)

	comments, err := readComments(strings.NewReader(
		"CREATE TABLE users (id int, email varchar(255) COMMENT 'Login address');\n"+
			"ALTER TABLE orders ADD COLUMN total int COMMENT 'Gross amount in cents';\n"), true)
	require.NoError(err)
	require.Equal(map[string]map[string]string{
		"users":  {"email": "Login address"},
		"orders": {"total": "Gross amount in cents"},
	}, comments)

	_, err = readComments(strings.NewReader("users:\n  email: Login address\n"), true)
	require.Error(err)
}

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("SCHEMANOTE_DATABASE_URL", "")
	t.Chdir(t.TempDir())

	err := execRootCmd([]string{"schemanote", "dump"}, "0.0.1")
	require.ErrorContains(t, err, "--database-url")
}

func TestUnsupportedDatabase(t *testing.T) {
	t.Chdir(t.TempDir())

	err := execRootCmd([]string{"schemanote", "dump", "--database-url", "oracle://db", "-f", "-"}, "0.0.1")
	require.ErrorContains(t, err, "unsupported database")
}
