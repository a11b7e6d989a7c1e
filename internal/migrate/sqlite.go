package migrate

import (
	"fmt"

	"github.com/tordrt/schemanote/internal/schema"
)

// SQLite has no column comments; they are accepted and dropped
type SQLite struct {
	base
}

// NewSQLite creates the SQLite dialect
func NewSQLite() *SQLite {
	return &SQLite{
		base: base{
			name:       "sqlite",
			identQuote: `"`,
			primaryKey: "INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL",
			quote:      standardQuote,
			natives: map[string]NativeType{
				"string":   {Name: "varchar", Limit: intPtr(255), Sized: true},
				"text":     {Name: "text"},
				"integer":  {Name: "integer"},
				"float":    {Name: "float"},
				"decimal":  {Name: "decimal"},
				"datetime": {Name: "datetime"},
				"time":     {Name: "time"},
				"date":     {Name: "date"},
				"binary":   {Name: "blob"},
				"boolean":  {Name: "boolean"},
				"json":     {Name: "json"},
			},
		},
	}
}

func (s *SQLite) ChangeColumnSQL(table, column, _ string, _ ColumnOptions) ([]string, error) {
	return nil, fmt.Errorf("%w: sqlite cannot change column %s.%s", ErrUnsupported, table, column)
}

func (s *SQLite) RenameColumnSQL(table, from, to string, _ schema.Column, _ ColumnOptions) []string {
	if from == to {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		s.QuoteIdent(table), s.QuoteIdent(from), s.QuoteIdent(to))}
}
