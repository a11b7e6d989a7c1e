// Package dump writes the live schema, column comments included, to a YAML
// document that can be loaded back into an empty database.
package dump

// Header opens every dump file
const Header = `# This file is auto-generated from the current state of the database. Instead of editing this file,
# please use the migrations feature to incrementally modify your database, and then regenerate this
# schema definition.
`

// Document is the top level of a dump file
type Document struct {
	Version int64       `yaml:"version"`
	Tables  []TableSpec `yaml:"tables"`
}

// TableSpec describes one table. ID is set to false when the table has no
// surrogate key column; PrimaryKey names a surrogate key other than "id".
type TableSpec struct {
	Name       string       `yaml:"name"`
	PrimaryKey string       `yaml:"primary_key,omitempty"`
	ID         *bool        `yaml:"id,omitempty"`
	Columns    []ColumnSpec `yaml:"columns"`
	Indexes    []IndexSpec  `yaml:"indexes,omitempty"`
}

// ColumnSpec describes one column. Limit is only written when it differs
// from the dialect's default for the type.
type ColumnSpec struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Limit    *int    `yaml:"limit,omitempty"`
	Default  *string `yaml:"default,omitempty"`
	Nullable *bool   `yaml:"nullable,omitempty"`
	Comment  *string `yaml:"comment,omitempty"`
}

// IndexSpec describes one secondary index
type IndexSpec struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns,flow"`
	Unique  bool     `yaml:"unique,omitempty"`
}
