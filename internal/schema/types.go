package schema

import (
	"errors"
	"fmt"
	"strings"
)

// MigrationsTable records applied schema versions
const MigrationsTable = "schema_migrations"

var (
	// ErrUnknownType is returned when a column's SQL type has no semantic mapping
	ErrUnknownType = errors.New("unknown type")

	// ErrColumnNotFound is returned when a column lookup by table and name fails
	ErrColumnNotFound = errors.New("column not found")
)

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Indexes    []Index
	PrimaryKey []string
}

// Column describes one database column as read from the live schema.
//
// Type is the semantic label (string, integer, datetime, ...) and Limit the
// optional size that goes with it. SQLType keeps the raw database type so DDL
// and diagnostics can refer to it.
type Column struct {
	Name         string
	Type         string
	Limit        *int
	SQLType      string
	Nullable     bool
	DefaultValue *string
	Comment      *string
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// ColumnOption customizes a Column built by NewColumn
type ColumnOption func(*Column)

// WithComment attaches a free-text comment to the column
func WithComment(comment string) ColumnOption {
	return func(c *Column) {
		c.Comment = &comment
	}
}

// NewColumn builds a column from its raw SQL type. The semantic type and limit
// are derived from sqlType; the comment stays absent unless WithComment is given.
func NewColumn(name, sqlType string, defaultValue *string, nullable bool, opts ...ColumnOption) Column {
	typ, limit := SimplifyType(sqlType)
	col := Column{
		Name:         name,
		Type:         typ,
		Limit:        limit,
		SQLType:      sqlType,
		Nullable:     nullable,
		DefaultValue: defaultValue,
	}
	for _, opt := range opts {
		opt(&col)
	}
	return col
}

// Known reports whether the column's SQL type mapped to a semantic type
func (c Column) Known() bool {
	return c.Type != ""
}

// HasComment reports whether the column carries a non-blank comment
func (c Column) HasComment() bool {
	return c.Comment != nil && strings.TrimSpace(*c.Comment) != ""
}

// TypeLabel returns the semantic type with its limit, e.g. "string(255)".
// Columns with an unmapped type fall back to the raw SQL type.
func (c Column) TypeLabel() string {
	if !c.Known() {
		return c.SQLType
	}
	if c.Limit != nil {
		return fmt.Sprintf("%s(%d)", c.Type, *c.Limit)
	}
	return c.Type
}

// FindColumn returns the named column from cols
func FindColumn(cols []Column, name string) (*Column, error) {
	for i := range cols {
		if cols[i].Name == name {
			return &cols[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}
