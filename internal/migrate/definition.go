package migrate

import (
	"fmt"
	"strings"
)

// ColumnDefinition describes one column inside a table being created
type ColumnDefinition struct {
	Name string
	Type string
	ColumnOptions
}

// SQL renders the column as it appears in CREATE TABLE and ADD COLUMN
func (c *ColumnDefinition) SQL(d Dialect) (string, error) {
	typ, err := d.TypeToSQL(c.Type, c.Limit)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", c.Name, err)
	}

	var sb strings.Builder
	sb.WriteString(d.QuoteIdent(c.Name))
	sb.WriteByte(' ')
	sb.WriteString(typ)
	d.AddColumnOptions(&sb, c.ColumnOptions)
	return sb.String(), nil
}

// TableDefinition collects the columns of a table being created
type TableDefinition struct {
	Name    string
	columns []*ColumnDefinition
}

// NewTableDefinition starts an empty table definition
func NewTableDefinition(name string) *TableDefinition {
	return &TableDefinition{Name: name}
}

// Column appends a column. Calling it again with the same name replaces the
// earlier definition in place.
func (t *TableDefinition) Column(name, typ string, opts ...Option) *TableDefinition {
	col := &ColumnDefinition{Name: name, Type: typ, ColumnOptions: buildOptions(opts)}
	for i, existing := range t.columns {
		if existing.Name == name {
			t.columns[i] = col
			return t
		}
	}
	t.columns = append(t.columns, col)
	return t
}

// Get returns the named column or nil
func (t *TableDefinition) Get(name string) *ColumnDefinition {
	for _, col := range t.columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// Columns returns the columns in declaration order
func (t *TableDefinition) Columns() []*ColumnDefinition {
	return t.columns
}
