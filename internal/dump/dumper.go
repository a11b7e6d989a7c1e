package dump

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/untillpro/goutils/logger"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemanote/internal/migrate"
	"github.com/tordrt/schemanote/internal/schema"
)

// Source is the live schema a dump is read from
type Source interface {
	Tables(ctx context.Context) ([]string, error)
	ExtractTable(ctx context.Context, table string) (*schema.Table, error)
	CurrentVersion(ctx context.Context) (int64, error)
}

// Dumper writes a Source as a YAML schema document
type Dumper struct {
	source  Source
	dialect migrate.Dialect
	ignore  map[string]bool
}

// New creates a dumper. The migrations table and any table named in ignore are
// left out of the dump.
func New(source Source, dialect migrate.Dialect, ignore ...string) *Dumper {
	skip := map[string]bool{schema.MigrationsTable: true}
	for _, name := range ignore {
		skip[name] = true
	}
	return &Dumper{
		source:  source,
		dialect: dialect,
		ignore:  skip,
	}
}

// Dump writes the schema document to w. A table that cannot be described is
// replaced by a comment naming the error and the dump carries on.
func (d *Dumper) Dump(ctx context.Context, w io.Writer) error {
	version, err := d.source.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	tables, err := d.source.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	logger.Verbose("dumping", len(tables), "tables with", d.dialect.Name(), "types")

	if _, err := fmt.Fprintf(w, "%s\nversion: %d\n\ntables:\n", Header, version); err != nil {
		return err
	}

	for _, name := range tables {
		if d.ignore[name] {
			continue
		}
		table, err := d.source.ExtractTable(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to extract table %s: %w", name, err)
		}

		spec, err := d.tableSpec(table)
		if err != nil {
			logger.Warning("could not dump table", name+":", err)
			if _, err := fmt.Fprintf(w, "# Could not dump table %q because of following error\n#   %s\n\n", name, err); err != nil {
				return err
			}
			continue
		}

		out, err := encodeTable(spec)
		if err != nil {
			return fmt.Errorf("failed to encode table %s: %w", name, err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// encodeTable renders one table as a single sequence entry so tables can be
// streamed under the tables key one at a time
func encodeTable(spec *TableSpec) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode([]TableSpec{*spec}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (d *Dumper) tableSpec(table *schema.Table) (*TableSpec, error) {
	pk := "id"
	if len(table.PrimaryKey) == 1 {
		pk = table.PrimaryKey[0]
	}

	spec := &TableSpec{Name: table.Name}
	hasPK := false
	for _, col := range table.Columns {
		if col.Name == pk {
			hasPK = true
			continue
		}
		cs, err := d.columnSpec(col)
		if err != nil {
			return nil, err
		}
		spec.Columns = append(spec.Columns, cs)
	}

	switch {
	case !hasPK:
		noID := false
		spec.ID = &noID
	case pk != "id":
		spec.PrimaryKey = pk
	}

	for _, idx := range table.Indexes {
		spec.Indexes = append(spec.Indexes, IndexSpec{
			Name:    idx.Name,
			Columns: idx.Columns,
			Unique:  idx.IsUnique,
		})
	}
	return spec, nil
}

func (d *Dumper) columnSpec(col schema.Column) (ColumnSpec, error) {
	if !col.Known() {
		return ColumnSpec{}, fmt.Errorf("%w '%s' for column '%s'", schema.ErrUnknownType, col.SQLType, col.Name)
	}
	native, ok := d.dialect.NativeType(col.Type)
	if !ok {
		return ColumnSpec{}, fmt.Errorf("%w '%s' for column '%s'", schema.ErrUnknownType, col.Type, col.Name)
	}

	cs := ColumnSpec{
		Name:    col.Name,
		Type:    col.Type,
		Default: col.DefaultValue,
	}
	if native.Sized && col.Limit != nil && (native.Limit == nil || *native.Limit != *col.Limit) {
		cs.Limit = col.Limit
	}
	if !col.Nullable {
		notNull := false
		cs.Nullable = &notNull
	}
	if col.HasComment() {
		cs.Comment = col.Comment
	}
	return cs, nil
}
