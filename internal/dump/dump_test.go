package dump

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemanote/internal/migrate"
	"github.com/tordrt/schemanote/internal/schema"
)

func strPtr(s string) *string { return &s }

type fakeSource struct {
	version int64
	tables  []*schema.Table
	err     error
}

func (f *fakeSource) Tables(context.Context) ([]string, error) {
	names := make([]string, len(f.tables))
	for i, t := range f.tables {
		names[i] = t.Name
	}
	return names, nil
}

func (f *fakeSource) ExtractTable(_ context.Context, name string) (*schema.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tables {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, errors.New("no such table " + name)
}

func (f *fakeSource) CurrentVersion(context.Context) (int64, error) {
	return f.version, nil
}

type recorder struct {
	statements []string
}

func (r *recorder) Exec(_ context.Context, query string) error {
	r.statements = append(r.statements, query)
	return nil
}

func usersTable() *schema.Table {
	return &schema.Table{
		Name:       "users",
		PrimaryKey: []string{"id"},
		Columns: []schema.Column{
			schema.NewColumn("id", "int(11)", nil, false),
			schema.NewColumn("login", "varchar(40)", nil, false, schema.WithComment("Unique handle")),
			schema.NewColumn("email", "varchar(255)", nil, true),
			schema.NewColumn("admin", "tinyint(1)", strPtr("0"), false),
			schema.NewColumn("bio", "text", nil, true, schema.WithComment("Shown on the user's profile page")),
			schema.NewColumn("created_at", "datetime", nil, true),
		},
		Indexes: []schema.Index{{Name: "index_users_on_login", Columns: []string{"login"}, IsUnique: true}},
	}
}

func sampleSource() *fakeSource {
	return &fakeSource{
		version: 42,
		tables: []*schema.Table{
			{
				Name:       "accounts",
				PrimaryKey: []string{"account_no"},
				Columns: []schema.Column{
					schema.NewColumn("account_no", "int(11)", nil, false),
					schema.NewColumn("balance", "int(8)", nil, true),
				},
			},
			{
				Name: "tags_users",
				Columns: []schema.Column{
					schema.NewColumn("tag_id", "int(11)", nil, false),
					schema.NewColumn("user_id", "int(11)", nil, false),
				},
			},
			usersTable(),
			{
				Name:    schema.MigrationsTable,
				Columns: []schema.Column{schema.NewColumn("version", "varchar(255)", nil, false)},
			},
		},
	}
}

func dumpString(t *testing.T, src Source) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(src, migrate.NewMySQL(false)).Dump(context.Background(), &buf))
	return buf.String()
}

func TestDumpDocument(t *testing.T) {
	out := dumpString(t, sampleSource())

	assert.True(t, strings.HasPrefix(out, Header+"\nversion: 42\n\ntables:\n"))
	assert.NotContains(t, out, schema.MigrationsTable)

	doc, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, int64(42), doc.Version)
	require.Len(t, doc.Tables, 3)

	accounts := doc.Tables[0]
	assert.Equal(t, "account_no", accounts.PrimaryKey)
	assert.Nil(t, accounts.ID)
	require.Len(t, accounts.Columns, 1)
	assert.Equal(t, "integer", accounts.Columns[0].Type)
	require.NotNil(t, accounts.Columns[0].Limit)
	assert.Equal(t, 8, *accounts.Columns[0].Limit)

	join := doc.Tables[1]
	require.NotNil(t, join.ID)
	assert.False(t, *join.ID)
	assert.Len(t, join.Columns, 2)

	users := doc.Tables[2]
	assert.Empty(t, users.PrimaryKey)
	assert.Nil(t, users.ID)

	names := make([]string, len(users.Columns))
	for i, c := range users.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"login", "email", "admin", "bio", "created_at"}, names)

	login := users.Columns[0]
	assert.Equal(t, "string", login.Type)
	require.NotNil(t, login.Limit)
	assert.Equal(t, 40, *login.Limit)
	require.NotNil(t, login.Nullable)
	assert.False(t, *login.Nullable)
	require.NotNil(t, login.Comment)
	assert.Equal(t, "Unique handle", *login.Comment)

	email := users.Columns[1]
	assert.Nil(t, email.Limit, "native varchar limit is not repeated")
	assert.Nil(t, email.Nullable)
	assert.Nil(t, email.Comment)

	admin := users.Columns[2]
	assert.Equal(t, "boolean", admin.Type)
	require.NotNil(t, admin.Default)
	assert.Equal(t, "0", *admin.Default)

	require.Len(t, users.Indexes, 1)
	assert.Equal(t, IndexSpec{Name: "index_users_on_login", Columns: []string{"login"}, Unique: true}, users.Indexes[0])
}

func TestDumpUnknownTypeContinues(t *testing.T) {
	src := &fakeSource{
		tables: []*schema.Table{
			{
				Name:       "places",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					schema.NewColumn("id", "int(11)", nil, false),
					schema.NewColumn("location", "geometry", nil, true),
				},
			},
			usersTable(),
		},
	}

	out := dumpString(t, src)
	assert.Contains(t, out, "# Could not dump table \"places\" because of following error\n#   unknown type 'geometry' for column 'location'\n\n")

	doc, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "users", doc.Tables[0].Name)
}

func TestDumpTypeWithoutNative(t *testing.T) {
	src := &fakeSource{
		tables: []*schema.Table{{
			Name:       "devices",
			PrimaryKey: []string{"id"},
			Columns: []schema.Column{
				schema.NewColumn("id", "int(11)", nil, false),
				schema.NewColumn("token", "uuid", nil, false),
			},
		}},
	}

	out := dumpString(t, src)
	assert.Contains(t, out, "# Could not dump table \"devices\"")

	var buf bytes.Buffer
	require.NoError(t, New(src, migrate.NewPostgres()).Dump(context.Background(), &buf))
	assert.Contains(t, buf.String(), "type: uuid")
}

func TestDumpExtractError(t *testing.T) {
	src := sampleSource()
	src.err = errors.New("connection reset")

	var buf bytes.Buffer
	err := New(src, migrate.NewMySQL(false)).Dump(context.Background(), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDumpIgnoresTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(sampleSource(), migrate.NewMySQL(false), "tags_users").Dump(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "tags_users")
}

func TestLoad(t *testing.T) {
	rec := &recorder{}
	adapter := migrate.NewAdapter(rec, nil, migrate.NewMySQL(false))

	doc, err := Load(context.Background(), strings.NewReader(dumpString(t, sampleSource())), adapter)
	require.NoError(t, err)
	assert.Len(t, doc.Tables, 3)

	all := strings.Join(rec.statements, "\n")
	assert.Contains(t, all, "DROP TABLE IF EXISTS `users`")
	assert.Contains(t, all, "`account_no` int(11) DEFAULT NULL auto_increment PRIMARY KEY")
	assert.Contains(t, all, "CREATE TABLE `tags_users` (\n  `tag_id` int(11) NOT NULL,\n  `user_id` int(11) NOT NULL\n)")
	assert.Contains(t, all, "`login` varchar(40) NOT NULL COMMENT 'Unique handle'")
	assert.Contains(t, all, "`admin` tinyint(1) DEFAULT 0 NOT NULL")
	assert.Contains(t, all, "CREATE UNIQUE INDEX `index_users_on_login` ON `users` (`login`)")
	assert.Equal(t, "INSERT INTO `schema_migrations` (`version`) VALUES ('42')", rec.statements[len(rec.statements)-1])
}

func TestLoadEmptyDocument(t *testing.T) {
	rec := &recorder{}
	adapter := migrate.NewAdapter(rec, nil, migrate.NewMySQL(false))

	doc, err := Load(context.Background(), strings.NewReader(""), adapter)
	require.NoError(t, err)
	assert.Empty(t, doc.Tables)
	assert.Empty(t, rec.statements)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	adapter := migrate.NewAdapter(&recorder{}, nil, migrate.NewMySQL(false))
	_, err := Load(context.Background(), strings.NewReader("tables: [unclosed"), adapter)
	assert.Error(t, err)
}

// sourceFromStatements rebuilds a live schema from the DDL a load issued
func sourceFromStatements(t *testing.T, doc *Document, statements []string) *fakeSource {
	t.Helper()
	src := &fakeSource{version: doc.Version}
	for _, stmt := range statements {
		if !strings.HasPrefix(stmt, "CREATE TABLE") {
			continue
		}
		parsed, err := migrate.ParseStatement(stmt)
		require.NoError(t, err)

		table := &schema.Table{Name: parsed.Table, Columns: parsed.Columns()}
		for _, spec := range doc.Tables {
			if spec.Name != parsed.Table || (spec.ID != nil && !*spec.ID) {
				continue
			}
			pk := spec.PrimaryKey
			if pk == "" {
				pk = "id"
			}
			table.PrimaryKey = []string{pk}
			for _, idx := range spec.Indexes {
				table.Indexes = append(table.Indexes, schema.Index{Name: idx.Name, Columns: idx.Columns, IsUnique: idx.Unique})
			}
		}
		src.tables = append(src.tables, table)
	}
	return src
}

func TestDumpLoadRoundTrip(t *testing.T) {
	first := dumpString(t, sampleSource())

	rec := &recorder{}
	adapter := migrate.NewAdapter(rec, nil, migrate.NewMySQL(false))
	doc, err := Load(context.Background(), strings.NewReader(first), adapter)
	require.NoError(t, err)

	second := dumpString(t, sourceFromStatements(t, doc, rec.statements))
	assert.Equal(t, first, second)
}
