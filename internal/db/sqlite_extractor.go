package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// SQLiteExtractor reads live schema metadata from SQLite. SQLite has no
// column comments, so every column comes back without one.
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Exec runs DDL on the underlying connection
func (e *SQLiteExtractor) Exec(ctx context.Context, query string) error {
	return e.client.Exec(ctx, query)
}

// Tables returns the user tables of the database
func (e *SQLiteExtractor) Tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// TableExists reports whether the database has a table with this name
func (e *SQLiteExtractor) TableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := e.client.GetDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CurrentVersion returns the highest version in schema_migrations
func (e *SQLiteExtractor) CurrentVersion(ctx context.Context) (int64, error) {
	exists, err := e.TableExists(ctx, schema.MigrationsTable)
	if err != nil || !exists {
		return 0, err
	}

	rows, err := e.client.GetDB().QueryContext(ctx,
		fmt.Sprintf("SELECT CAST(version AS TEXT) FROM %s", quoteSQLiteIdent(schema.MigrationsTable)))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		versions = append(versions, v.String)
	}

	return maxVersion(versions), rows.Err()
}

// ExtractTable extracts all information for a single table
func (e *SQLiteExtractor) ExtractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, pk, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.PrimaryKey = pk

	indexes, err := e.extractIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes
	table.Columns = columns

	return table, nil
}

// Columns extracts column information for a table
func (e *SQLiteExtractor) Columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	columns, _, err := e.tableInfo(ctx, tableName)
	return columns, err
}

// Column returns one column of table
func (e *SQLiteExtractor) Column(ctx context.Context, table, column string) (*schema.Column, error) {
	cols, _, err := e.tableInfo(ctx, table)
	return columnFromTable(cols, err, column)
}

// tableInfo reads PRAGMA table_info, returning columns and primary key columns
func (e *SQLiteExtractor) tableInfo(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var pkColumns []string

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		var def *string
		if defaultValue.Valid {
			v := unquoteSQLiteDefault(defaultValue.String)
			def = &v
		}
		columns = append(columns, schema.NewColumn(name, colType, def, notNull == 0))

		if pk > 0 {
			pkColumns = append(pkColumns, name)
		}
	}

	return columns, pkColumns, rows.Err()
}

// unquoteSQLiteDefault turns the SQL literal SQLite stores for a string
// default back into the value
func unquoteSQLiteDefault(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return v
}

// extractIndexes extracts index information
func (e *SQLiteExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLiteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	type indexEntry struct {
		name   string
		unique bool
	}
	var entries []indexEntry
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		// auto-generated indexes cannot be recreated by name
		if strings.HasPrefix(name, "sqlite_autoindex") {
			continue
		}
		entries = append(entries, indexEntry{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var indexes []schema.Index
	for _, entry := range entries {
		columns, err := e.indexColumns(ctx, entry.name)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			indexes = append(indexes, schema.Index{
				Name:     entry.name,
				IsUnique: entry.unique,
				Columns:  columns,
			})
		}
	}

	// PRAGMA index_list order is unspecified
	sort.Slice(indexes, func(i, j int) bool { return indexes[i].Name < indexes[j].Name })
	return indexes, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteSQLiteIdent(indexName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}
	return columns, rows.Err()
}
