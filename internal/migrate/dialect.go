package migrate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// ErrUnsupported is returned for DDL a dialect cannot express
var ErrUnsupported = errors.New("operation not supported by dialect")

// NativeType is the database type a semantic column type maps to
type NativeType struct {
	Name  string
	Limit *int
	// Sized types render their limit, e.g. varchar(255)
	Sized bool
}

// Dialect knows how one database spells column DDL and column comments
type Dialect interface {
	Name() string
	QuoteIdent(name string) string
	QuoteString(s string) string
	QuoteDefault(v string) string

	NativeType(typ string) (NativeType, bool)
	TypeToSQL(typ string, limit *int) (string, error)
	PrimaryKeySQL() string

	// AddColumnOptions appends the DEFAULT, NOT NULL and, where the database
	// supports it inline, COMMENT clauses to a column definition.
	AddColumnOptions(sb *strings.Builder, opts ColumnOptions)

	// CommentStatement returns the statement that sets a column comment out
	// of line, or "" when the dialect sets comments inline or not at all.
	// A blank comment clears the existing one.
	CommentStatement(table, column string, comment *string) string

	ChangeColumnSQL(table, column, sqlType string, opts ColumnOptions) ([]string, error)
	RenameColumnSQL(table, from, to string, current schema.Column, opts ColumnOptions) []string
}

func intPtr(n int) *int { return &n }

// base carries what the dialects share
type base struct {
	name       string
	identQuote string
	natives    map[string]NativeType
	primaryKey string
	quote      func(string) string
}

func (b *base) Name() string { return b.name }

func (b *base) QuoteIdent(name string) string {
	return b.identQuote + strings.ReplaceAll(name, b.identQuote, b.identQuote+b.identQuote) + b.identQuote
}

func (b *base) QuoteString(s string) string { return b.quote(s) }

var (
	functionDefault = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\(.*\)$`)
	keywordDefaults = map[string]bool{
		"CURRENT_TIMESTAMP": true,
		"CURRENT_DATE":      true,
		"CURRENT_TIME":      true,
		"NULL":              true,
		"TRUE":              true,
		"FALSE":             true,
	}
)

// QuoteDefault quotes a default value unless it is already an SQL literal,
// a number, a keyword or a function call
func (b *base) QuoteDefault(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	if keywordDefaults[strings.ToUpper(v)] || strings.HasPrefix(v, "'") || functionDefault.MatchString(v) {
		return v
	}
	return b.quote(v)
}

func (b *base) NativeType(typ string) (NativeType, bool) {
	nt, ok := b.natives[typ]
	return nt, ok
}

func (b *base) TypeToSQL(typ string, limit *int) (string, error) {
	nt, ok := b.natives[typ]
	if !ok {
		return "", fmt.Errorf("%w %q for %s", schema.ErrUnknownType, typ, b.name)
	}
	if !nt.Sized {
		return nt.Name, nil
	}
	if limit == nil {
		limit = nt.Limit
	}
	if limit == nil {
		return nt.Name, nil
	}
	return fmt.Sprintf("%s(%d)", nt.Name, *limit), nil
}

func (b *base) PrimaryKeySQL() string { return b.primaryKey }

func (b *base) AddColumnOptions(sb *strings.Builder, opts ColumnOptions) {
	if opts.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(b.QuoteDefault(*opts.Default))
	}
	if opts.NotNullable() {
		sb.WriteString(" NOT NULL")
	}
}

func (b *base) CommentStatement(string, string, *string) string { return "" }

// standardQuote doubles single quotes, as Postgres and SQLite expect
func standardQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
