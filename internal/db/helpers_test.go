//go:build integration
// +build integration

package db

import (
	"testing"

	"github.com/tordrt/schemanote/internal/schema"
)

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// findColumn fails the test when the column is missing
func findColumn(t *testing.T, cols []schema.Column, name string) *schema.Column {
	t.Helper()

	col, err := schema.FindColumn(cols, name)
	if err != nil {
		t.Fatalf("Column %s not found", name)
	}
	return col
}

// verifyComment checks the comment a column reports
func verifyComment(t *testing.T, col *schema.Column, want string) {
	t.Helper()

	if col.Comment == nil {
		t.Errorf("Expected comment %q on %s, got none", want, col.Name)
		return
	}
	if *col.Comment != want {
		t.Errorf("Expected comment %q on %s, got %q", want, col.Name, *col.Comment)
	}
}
