package models

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm/schema"
)

// Registry resolves names against registered gorm model structs. Table names
// follow the struct's TableName method when it has one.
type Registry struct {
	checker TableChecker
	namer   schema.Namer
	cache   *sync.Map
	models  map[string]any
}

// NewRegistry creates an empty registry. A nil namer uses gorm's default
// naming strategy.
func NewRegistry(checker TableChecker, namer schema.Namer) *Registry {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	return &Registry{
		checker: checker,
		namer:   namer,
		cache:   &sync.Map{},
		models:  map[string]any{},
	}
}

// Register adds models, keyed by their struct name
func (r *Registry) Register(models ...any) error {
	for _, m := range models {
		t := reflect.TypeOf(m)
		for t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %T is not a struct", ErrInvalidName, m)
		}
		r.models[t.Name()] = m
	}
	return nil
}

// Names returns the registered struct names in order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Resolve(ctx context.Context, name string) Result {
	typ := Camelize(name)
	m, ok := r.models[typ]
	if !ok {
		return notFound(name, fmt.Errorf("%w: %s", ErrUnregistered, name))
	}

	s, err := schema.Parse(m, r.cache, r.namer)
	if err != nil {
		return notFound(typ, fmt.Errorf("failed to parse model %s: %w", typ, err))
	}

	return checkTable(ctx, r.checker, Handle{
		Name:  s.Name,
		Table: s.Table,
		File:  r.namer.ColumnName("", s.Name),
	})
}
