package migrate

import (
	"fmt"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// Postgres sets comments with a separate COMMENT ON COLUMN statement
type Postgres struct {
	base
}

// NewPostgres creates the PostgreSQL dialect
func NewPostgres() *Postgres {
	return &Postgres{
		base: base{
			name:       "postgres",
			identQuote: `"`,
			primaryKey: "serial primary key",
			quote:      standardQuote,
			natives: map[string]NativeType{
				"string":   {Name: "varchar", Limit: intPtr(255), Sized: true},
				"text":     {Name: "text"},
				"integer":  {Name: "integer"},
				"float":    {Name: "float"},
				"decimal":  {Name: "decimal"},
				"datetime": {Name: "timestamp"},
				"time":     {Name: "time"},
				"date":     {Name: "date"},
				"binary":   {Name: "bytea"},
				"boolean":  {Name: "boolean"},
				"json":     {Name: "jsonb"},
				"uuid":     {Name: "uuid"},
			},
		},
	}
}

func (p *Postgres) CommentStatement(table, column string, comment *string) string {
	if comment == nil {
		return ""
	}
	value := "NULL"
	if strings.TrimSpace(*comment) != "" {
		value = p.QuoteString(*comment)
	}
	return fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s", p.QuoteIdent(table), p.QuoteIdent(column), value)
}

func (p *Postgres) ChangeColumnSQL(table, column, sqlType string, opts ColumnOptions) ([]string, error) {
	prefix := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s", p.QuoteIdent(table), p.QuoteIdent(column))

	stmts := []string{fmt.Sprintf("%s TYPE %s", prefix, sqlType)}
	if opts.Default != nil {
		stmts = append(stmts, fmt.Sprintf("%s SET DEFAULT %s", prefix, p.QuoteDefault(*opts.Default)))
	}
	if opts.Null != nil {
		if *opts.Null {
			stmts = append(stmts, prefix+" DROP NOT NULL")
		} else {
			stmts = append(stmts, prefix+" SET NOT NULL")
		}
	}
	return stmts, nil
}

// RenameColumnSQL relies on Postgres keeping the comment across a rename. The
// comment statement for an explicit new comment is added by the adapter.
func (p *Postgres) RenameColumnSQL(table, from, to string, _ schema.Column, _ ColumnOptions) []string {
	if from == to {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		p.QuoteIdent(table), p.QuoteIdent(from), p.QuoteIdent(to))}
}
