package migrate

import (
	"fmt"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// MaxMySQLCommentLength is the longest column comment older MySQL servers and
// some drivers accept
const MaxMySQLCommentLength = 255

var mysqlEscapes = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

// MySQL writes comments inline with COMMENT '...'
type MySQL struct {
	base
	// TruncateComments cuts comments to MaxMySQLCommentLength runes
	TruncateComments bool
}

// NewMySQL creates the MySQL dialect
func NewMySQL(truncateComments bool) *MySQL {
	return &MySQL{
		base: base{
			name:       "mysql",
			identQuote: "`",
			primaryKey: "int(11) DEFAULT NULL auto_increment PRIMARY KEY",
			quote: func(s string) string {
				return "'" + mysqlEscapes.Replace(s) + "'"
			},
			natives: map[string]NativeType{
				"string":   {Name: "varchar", Limit: intPtr(255), Sized: true},
				"text":     {Name: "text"},
				"integer":  {Name: "int", Limit: intPtr(11), Sized: true},
				"float":    {Name: "float"},
				"decimal":  {Name: "decimal"},
				"datetime": {Name: "datetime"},
				"time":     {Name: "time"},
				"date":     {Name: "date"},
				"binary":   {Name: "blob"},
				"boolean":  {Name: "tinyint(1)"},
				"json":     {Name: "json"},
			},
		},
		TruncateComments: truncateComments,
	}
}

func (m *MySQL) AddColumnOptions(sb *strings.Builder, opts ColumnOptions) {
	m.base.AddColumnOptions(sb, opts)
	if opts.Comment == nil || strings.TrimSpace(*opts.Comment) == "" {
		return
	}
	sb.WriteString(" COMMENT ")
	sb.WriteString(m.QuoteString(m.truncate(*opts.Comment)))
}

func (m *MySQL) truncate(comment string) string {
	if !m.TruncateComments {
		return comment
	}
	runes := []rune(comment)
	if len(runes) <= MaxMySQLCommentLength {
		return comment
	}
	return string(runes[:MaxMySQLCommentLength])
}

func (m *MySQL) ChangeColumnSQL(table, column, sqlType string, opts ColumnOptions) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ALTER TABLE %s MODIFY %s %s", m.QuoteIdent(table), m.QuoteIdent(column), sqlType)
	m.AddColumnOptions(&sb, opts)
	return []string{sb.String()}, nil
}

// RenameColumnSQL uses CHANGE, which restates the whole definition. Anything
// not in opts comes from the current column so nothing is lost.
func (m *MySQL) RenameColumnSQL(table, from, to string, current schema.Column, opts ColumnOptions) []string {
	if opts.Default == nil {
		opts.Default = current.DefaultValue
	}
	if opts.Null == nil {
		nullable := current.Nullable
		opts.Null = &nullable
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ALTER TABLE %s CHANGE %s %s %s",
		m.QuoteIdent(table), m.QuoteIdent(from), m.QuoteIdent(to), current.SQLType)
	m.AddColumnOptions(&sb, opts)
	return []string{sb.String()}
}
