// Package models maps model names to the table that backs them and the files
// that describe them.
package models

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm/schema"
)

var (
	// ErrInvalidName is returned for names that cannot name a Go type
	ErrInvalidName = errors.New("invalid model name")

	// ErrNotSchemaBacked is returned when the model's table does not exist
	ErrNotSchemaBacked = errors.New("model is not backed by a table")

	// ErrUnregistered is returned by Registry for unknown models
	ErrUnregistered = errors.New("model is not registered")
)

var typeName = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Handle identifies one resolved model
type Handle struct {
	// Name is the Go type name, e.g. UserProfile
	Name string
	// Table is the backing table, e.g. user_profiles
	Table string
	// File is the model file path relative to the models directory, without
	// extension, e.g. admin/user_profile
	File string
}

// Result is the outcome of resolving one name. Err says why Found is false.
type Result struct {
	Handle
	Found bool
	Err   error
}

func found(h Handle) Result { return Result{Handle: h, Found: true} }

func notFound(name string, err error) Result {
	return Result{Handle: Handle{Name: name}, Err: err}
}

// Resolver turns a model name into a Handle
type Resolver interface {
	Resolve(ctx context.Context, name string) Result
}

// TableChecker reports whether a table exists
type TableChecker interface {
	TableExists(ctx context.Context, table string) (bool, error)
}

var title = cases.Title(language.Und, cases.NoLower)

// Camelize turns a snake_case or CamelCase name into a Go type name
func Camelize(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		sb.WriteString(title.String(part))
	}
	return sb.String()
}

// NamingResolver derives tables and files from the name alone, using gorm's
// naming strategy, and checks that the table exists
type NamingResolver struct {
	checker TableChecker
	namer   schema.Namer
}

// NewNamingResolver creates a resolver. A nil namer uses gorm's default
// pluralized snake_case strategy.
func NewNamingResolver(checker TableChecker, namer schema.Namer) *NamingResolver {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	return &NamingResolver{
		checker: checker,
		namer:   namer,
	}
}

// Resolve accepts a type name such as UserProfile or a model file path such
// as admin/user_profile
func (r *NamingResolver) Resolve(ctx context.Context, name string) Result {
	dir, base := path.Split(strings.TrimSuffix(name, ".go"))
	typ := Camelize(base)
	if !typeName.MatchString(typ) {
		return notFound(name, fmt.Errorf("%w: %q", ErrInvalidName, name))
	}

	h := Handle{
		Name:  typ,
		Table: r.namer.TableName(typ),
		File:  dir + r.namer.ColumnName("", typ),
	}
	return checkTable(ctx, r.checker, h)
}

func checkTable(ctx context.Context, checker TableChecker, h Handle) Result {
	if checker == nil {
		return found(h)
	}
	exists, err := checker.TableExists(ctx, h.Table)
	if err != nil {
		return notFound(h.Name, fmt.Errorf("failed to check table %s: %w", h.Table, err))
	}
	if !exists {
		return notFound(h.Name, fmt.Errorf("%w: %s", ErrNotSchemaBacked, h.Table))
	}
	return found(h)
}
