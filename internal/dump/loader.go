package dump

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/untillpro/goutils/logger"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemanote/internal/migrate"
)

// Decode reads a schema document
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to decode schema document: %w", err)
	}
	return &doc, nil
}

// Load re-creates every table of the document through adapter, dropping
// tables of the same name first. Column comments are created with their
// columns. The document version is recorded when it is set.
func Load(ctx context.Context, r io.Reader, adapter *migrate.Adapter) (*Document, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}

	for _, table := range doc.Tables {
		logger.Info("loading table", table.Name)
		if err := loadTable(ctx, adapter, table); err != nil {
			return nil, err
		}
	}

	if doc.Version > 0 {
		if err := adapter.RecordVersion(ctx, doc.Version); err != nil {
			return nil, fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return doc, nil
}

func loadTable(ctx context.Context, adapter *migrate.Adapter, table TableSpec) error {
	opts := migrate.CreateTableOptions{
		PrimaryKey: table.PrimaryKey,
		NoID:       table.ID != nil && !*table.ID,
		Force:      true,
	}
	err := adapter.CreateTable(ctx, table.Name, opts, func(t *migrate.TableDefinition) {
		for _, col := range table.Columns {
			t.Column(col.Name, col.Type, migrate.With(migrate.ColumnOptions{
				Limit:   col.Limit,
				Default: col.Default,
				Null:    col.Nullable,
				Comment: col.Comment,
			}))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to load table %s: %w", table.Name, err)
	}

	for _, idx := range table.Indexes {
		if err := adapter.AddIndex(ctx, table.Name, idx.Name, idx.Columns, idx.Unique); err != nil {
			return fmt.Errorf("failed to load index %s: %w", idx.Name, err)
		}
	}
	return nil
}
