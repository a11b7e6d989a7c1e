package migrate

import (
	"errors"
	"fmt"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"

	"github.com/tordrt/schemanote/internal/schema"
)

// ErrNotColumnDDL is returned when a statement defines no columns
var ErrNotColumnDDL = errors.New("statement does not define columns")

var parser = sqlparser.NewTestParser()

// ColumnChange is one column definition found in a DDL statement. OldName is
// empty for new columns and names the replaced column for CHANGE and MODIFY.
type ColumnChange struct {
	OldName string
	Column  schema.Column
}

// Statement is the column-level content of a CREATE TABLE or ALTER TABLE
type Statement struct {
	Table   string
	Create  bool
	Changes []ColumnChange
}

// Columns returns the column definitions in statement order
func (s *Statement) Columns() []schema.Column {
	cols := make([]schema.Column, len(s.Changes))
	for i, ch := range s.Changes {
		cols[i] = ch.Column
	}
	return cols
}

// ParseStatement reads the column definitions out of MySQL DDL, including
// their comments
func ParseStatement(sql string) (*Statement, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DDL: %w", err)
	}

	var out Statement
	switch s := stmt.(type) {
	case *sqlparser.CreateTable:
		out.Table = s.Table.Name.String()
		out.Create = true
		if s.TableSpec != nil {
			for _, def := range s.TableSpec.Columns {
				out.Changes = append(out.Changes, ColumnChange{Column: columnFromDefinition(def)})
			}
		}
	case *sqlparser.AlterTable:
		out.Table = s.Table.Name.String()
		for _, opt := range s.AlterOptions {
			switch o := opt.(type) {
			case *sqlparser.AddColumns:
				for _, def := range o.Columns {
					out.Changes = append(out.Changes, ColumnChange{Column: columnFromDefinition(def)})
				}
			case *sqlparser.ChangeColumn:
				out.Changes = append(out.Changes, ColumnChange{
					OldName: o.OldColumn.Name.String(),
					Column:  columnFromDefinition(o.NewColDefinition),
				})
			case *sqlparser.ModifyColumn:
				col := columnFromDefinition(o.NewColDefinition)
				out.Changes = append(out.Changes, ColumnChange{OldName: col.Name, Column: col})
			}
		}
	default:
		return nil, ErrNotColumnDDL
	}

	if len(out.Changes) == 0 {
		return nil, ErrNotColumnDDL
	}
	return &out, nil
}

// ParseComments collects the column comments of a MySQL DDL script, keyed by
// table then column. Statements that define no columns are skipped and a
// later definition of a column wins.
func ParseComments(script string) (map[string]map[string]string, error) {
	pieces, err := parser.SplitStatementToPieces(script)
	if err != nil {
		return nil, fmt.Errorf("failed to split DDL: %w", err)
	}

	comments := map[string]map[string]string{}
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		stmt, err := ParseStatement(piece)
		if errors.Is(err, ErrNotColumnDDL) || errors.Is(err, sqlparser.ErrEmpty) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, ch := range stmt.Changes {
			if ch.Column.Comment == nil {
				continue
			}
			if comments[stmt.Table] == nil {
				comments[stmt.Table] = map[string]string{}
			}
			comments[stmt.Table][ch.Column.Name] = *ch.Column.Comment
		}
	}
	return comments, nil
}

func columnFromDefinition(def *sqlparser.ColumnDefinition) schema.Column {
	// format the bare type, without NULL, DEFAULT or COMMENT
	bare := *def.Type
	bare.Options = nil
	sqlType := sqlparser.String(&bare)

	var (
		nullable     = true
		defaultValue *string
		opts         []schema.ColumnOption
	)
	if o := def.Type.Options; o != nil {
		if o.Null != nil {
			nullable = *o.Null
		}
		defaultValue = defaultString(o.Default)
		if o.Comment != nil {
			opts = append(opts, schema.WithComment(o.Comment.Val))
		}
	}

	return schema.NewColumn(def.Name.String(), sqlType, defaultValue, nullable, opts...)
}

func defaultString(expr sqlparser.Expr) *string {
	switch e := expr.(type) {
	case nil:
		return nil
	case *sqlparser.NullVal:
		return nil
	case *sqlparser.Literal:
		v := e.Val
		return &v
	default:
		v := sqlparser.String(e)
		return &v
	}
}
