package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/tordrt/schemanote/internal/schema"
)

// Database is the live-schema surface every supported dialect provides
type Database interface {
	// Tables lists user tables in name order
	Tables(ctx context.Context) ([]string, error)
	ExtractTable(ctx context.Context, table string) (*schema.Table, error)
	// Columns returns the columns of table in ordinal order
	Columns(ctx context.Context, table string) ([]schema.Column, error)
	Column(ctx context.Context, table, column string) (*schema.Column, error)
	TableExists(ctx context.Context, table string) (bool, error)
	// CurrentVersion is the highest applied migration, 0 when none
	CurrentVersion(ctx context.Context) (int64, error)
	Exec(ctx context.Context, query string) error
}

var (
	_ Database = (*Extractor)(nil)
	_ Database = (*MySQLExtractor)(nil)
	_ Database = (*SQLiteExtractor)(nil)
)

// maxVersion returns the highest numeric version, ignoring anything that does
// not parse
func maxVersion(versions []string) int64 {
	var highest int64
	for _, v := range versions {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// columnFromTable finds one column via cols, for dialects that have no cheaper
// single-column lookup
func columnFromTable(cols []schema.Column, err error, column string) (*schema.Column, error) {
	if err != nil {
		return nil, err
	}
	return schema.FindColumn(cols, column)
}

// blankToNil treats an empty comment as no comment
func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
