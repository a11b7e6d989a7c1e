package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// MySQLExtractor reads live schema metadata from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// Exec runs DDL on the underlying connection
func (e *MySQLExtractor) Exec(ctx context.Context, query string) error {
	return e.client.Exec(ctx, query)
}

// Tables returns the base tables of the database
func (e *MySQLExtractor) Tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// TableExists reports whether the database has a base table with this name
func (e *MySQLExtractor) TableExists(ctx context.Context, table string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ? AND table_type = 'BASE TABLE'
	`

	var n int
	if err := e.client.GetDB().QueryRowContext(ctx, query, e.schemaName, table).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CurrentVersion returns the highest version in schema_migrations
func (e *MySQLExtractor) CurrentVersion(ctx context.Context) (int64, error) {
	exists, err := e.TableExists(ctx, schema.MigrationsTable)
	if err != nil || !exists {
		return 0, err
	}

	rows, err := e.client.GetDB().QueryContext(ctx, "SELECT CAST(version AS CHAR) FROM `"+schema.MigrationsTable+"`")
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
func (e *MySQLExtractor) ExtractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.Columns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := e.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	indexes, err := e.extractIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes

	return table, nil
}

const mysqlColumnsQuery = `
	SELECT
		c.column_name,
		c.column_type,
		c.is_nullable,
		c.column_default,
		c.column_comment
	FROM information_schema.columns c
	WHERE c.table_schema = ? AND c.table_name = ?
`

// Columns extracts column information, including comments, for a table
func (e *MySQLExtractor) Columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	return e.queryColumns(ctx, mysqlColumnsQuery+" ORDER BY c.ordinal_position",
		e.schemaName, tableName)
}

// Column returns one column of table
func (e *MySQLExtractor) Column(ctx context.Context, table, column string) (*schema.Column, error) {
	cols, err := e.queryColumns(ctx, mysqlColumnsQuery+" AND c.column_name = ?",
		e.schemaName, table, column)
	return columnFromTable(cols, err, column)
}

func (e *MySQLExtractor) queryColumns(ctx context.Context, query string, args ...any) ([]schema.Column, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			name       string
			columnType string
			nullable   string
			defaultVal sql.NullString
			comment    sql.NullString
		)

		if err := rows.Scan(&name, &columnType, &nullable, &defaultVal, &comment); err != nil {
			return nil, err
		}

		var def *string
		if defaultVal.Valid {
			def = &defaultVal.String
		}
		col := schema.NewColumn(name, columnType, def, nullable == "YES")
		if comment.Valid {
			col.Comment = blankToNil(&comment.String)
		}
		normalizeMySQLDefault(&col)

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// normalizeMySQLDefault drops the empty-string default MySQL reports for
// NOT NULL columns that never had one. Text and blob columns cannot have a
// default, so an empty one there is real.
func normalizeMySQLDefault(col *schema.Column) {
	if col.DefaultValue == nil || *col.DefaultValue != "" || col.Nullable {
		return
	}
	if col.Type == "text" || col.Type == "binary" {
		return
	}
	col.DefaultValue = nil
}

// extractPrimaryKey extracts primary key columns
func (e *MySQLExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		pk = append(pk, colName)
	}

	return pk, rows.Err()
}

// extractIndexes extracts index information
func (e *MySQLExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := `
		SELECT
			s.index_name,
			s.non_unique = 0 AS is_unique,
			GROUP_CONCAT(s.column_name ORDER BY s.seq_in_index) AS column_names
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
			AND s.index_name != 'PRIMARY'
		GROUP BY s.index_name, s.non_unique
		ORDER BY s.index_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.Index
	for rows.Next() {
		var idx schema.Index
		var isUnique int
		var columnNames string

		if err := rows.Scan(&idx.Name, &isUnique, &columnNames); err != nil {
			return nil, err
		}

		idx.IsUnique = (isUnique == 1)
		idx.Columns = strings.Split(columnNames, ",")

		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}
