package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/schemanote/internal/schema"
)

// Executor runs a single DDL statement
type Executor interface {
	Exec(ctx context.Context, query string) error
}

// Introspector looks up the live definition of a column
type Introspector interface {
	Column(ctx context.Context, table, column string) (*schema.Column, error)
}

// CreateTableOptions controls CreateTable
type CreateTableOptions struct {
	// PrimaryKey names the surrogate key column, "id" when empty
	PrimaryKey string
	// NoID skips the surrogate key column entirely
	NoID bool
	// Force drops an existing table of the same name first
	Force bool
}

// Adapter runs comment-aware column DDL against one database
type Adapter struct {
	exec         Executor
	introspector Introspector
	dialect      Dialect
}

// NewAdapter creates an adapter
func NewAdapter(exec Executor, introspector Introspector, dialect Dialect) *Adapter {
	return &Adapter{
		exec:         exec,
		introspector: introspector,
		dialect:      dialect,
	}
}

func (a *Adapter) run(ctx context.Context, stmts ...string) error {
	for _, stmt := range stmts {
		if stmt == "" {
			continue
		}
		logger.Verbose("exec:", stmt)
		if err := a.exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}
	return nil
}

// CreateTable builds a table definition with fn and creates it. Column
// comments set in fn are written along with the table.
func (a *Adapter) CreateTable(ctx context.Context, name string, opts CreateTableOptions, fn func(t *TableDefinition)) error {
	t := NewTableDefinition(name)
	if fn != nil {
		fn(t)
	}

	d := a.dialect
	var defs []string
	if !opts.NoID {
		pk := opts.PrimaryKey
		if pk == "" {
			pk = "id"
		}
		defs = append(defs, d.QuoteIdent(pk)+" "+d.PrimaryKeySQL())
	}
	for _, col := range t.Columns() {
		def, err := col.SQL(d)
		if err != nil {
			return fmt.Errorf("failed to define table %s: %w", name, err)
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return fmt.Errorf("failed to define table %s: no columns", name)
	}

	var stmts []string
	if opts.Force {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+d.QuoteIdent(name))
	}
	stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", d.QuoteIdent(name), strings.Join(defs, ",\n  ")))
	for _, col := range t.Columns() {
		if col.Comment != nil && strings.TrimSpace(*col.Comment) != "" {
			stmts = append(stmts, d.CommentStatement(name, col.Name, col.Comment))
		}
	}

	return a.run(ctx, stmts...)
}

// AddColumn adds a column, with its comment when one is given
func (a *Adapter) AddColumn(ctx context.Context, table, name, typ string, opts ...Option) error {
	col := &ColumnDefinition{Name: name, Type: typ, ColumnOptions: buildOptions(opts)}
	def, err := col.SQL(a.dialect)
	if err != nil {
		return fmt.Errorf("failed to add column to %s: %w", table, err)
	}

	stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD %s", a.dialect.QuoteIdent(table), def)}
	if col.Comment != nil && strings.TrimSpace(*col.Comment) != "" {
		stmts = append(stmts, a.dialect.CommentStatement(table, name, col.Comment))
	}
	return a.run(ctx, stmts...)
}

// ChangeColumn redefines a column. Without an explicit comment the current one
// is kept.
func (a *Adapter) ChangeColumn(ctx context.Context, table, name, typ string, opts ...Option) error {
	o := buildOptions(opts)
	sqlType, err := a.dialect.TypeToSQL(typ, o.Limit)
	if err != nil {
		return fmt.Errorf("failed to change column %s.%s: %w", table, name, err)
	}

	if o.Comment == nil && a.introspector != nil {
		current, err := a.introspector.Column(ctx, table, name)
		switch {
		case err == nil:
			o.Comment = current.Comment
		case !errors.Is(err, schema.ErrColumnNotFound):
			return fmt.Errorf("failed to read column %s.%s: %w", table, name, err)
		}
	}

	stmts, err := a.dialect.ChangeColumnSQL(table, name, sqlType, o)
	if err != nil {
		return fmt.Errorf("failed to change column %s.%s: %w", table, name, err)
	}
	stmts = append(stmts, a.dialect.CommentStatement(table, name, o.Comment))
	return a.run(ctx, stmts...)
}

// RenameColumn renames a column. The existing comment survives unless opts
// supplies a new one; a blank comment clears it.
func (a *Adapter) RenameColumn(ctx context.Context, table, from, to string, opts ...Option) error {
	if a.introspector == nil {
		return fmt.Errorf("failed to rename column %s.%s: no introspector", table, from)
	}
	current, err := a.introspector.Column(ctx, table, from)
	if err != nil {
		return fmt.Errorf("failed to rename column %s.%s: %w", table, from, err)
	}

	o := buildOptions(opts)
	explicit := o.Comment
	if o.Comment == nil {
		o.Comment = current.Comment
	}

	stmts := a.dialect.RenameColumnSQL(table, from, to, *current, o)
	if explicit != nil {
		stmts = append(stmts, a.dialect.CommentStatement(table, to, explicit))
	}
	return a.run(ctx, stmts...)
}

// SetColumnComment replaces the comment of one column
func (a *Adapter) SetColumnComment(ctx context.Context, table, column, comment string) error {
	return a.RenameColumn(ctx, table, column, column, Comment(comment))
}

// ColumnComments sets many comments at once, keyed by table then column.
// Tables and columns are processed in name order.
func (a *Adapter) ColumnComments(ctx context.Context, comments map[string]map[string]string) error {
	tables := make([]string, 0, len(comments))
	for table := range comments {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		columns := make([]string, 0, len(comments[table]))
		for column := range comments[table] {
			columns = append(columns, column)
		}
		sort.Strings(columns)

		for _, column := range columns {
			if err := a.SetColumnComment(ctx, table, column, comments[table][column]); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddIndex creates an index over columns
func (a *Adapter) AddIndex(ctx context.Context, table, name string, columns []string, unique bool) error {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = a.dialect.QuoteIdent(col)
	}
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return a.run(ctx, fmt.Sprintf("CREATE %s %s ON %s (%s)",
		kind, a.dialect.QuoteIdent(name), a.dialect.QuoteIdent(table), strings.Join(quoted, ", ")))
}

// RecordVersion resets the migrations table so it holds only version
func (a *Adapter) RecordVersion(ctx context.Context, version int64) error {
	err := a.CreateTable(ctx, schema.MigrationsTable, CreateTableOptions{NoID: true, Force: true}, func(t *TableDefinition) {
		t.Column("version", "string", NotNull())
	})
	if err != nil {
		return err
	}
	return a.run(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		a.dialect.QuoteIdent(schema.MigrationsTable),
		a.dialect.QuoteIdent("version"),
		a.dialect.QuoteString(strconv.FormatInt(version, 10))))
}
