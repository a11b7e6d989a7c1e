// Package migrate issues column DDL that carries column comments through to
// the database. Every create, add, change and rename accepts an optional
// comment, and a rename never drops the comment the column already has.
package migrate

// ColumnOptions holds the optional parts of a column definition.
// A nil field means the option was not given.
type ColumnOptions struct {
	Limit   *int
	Default *string
	Null    *bool
	Comment *string
}

// Option sets one column option
type Option func(*ColumnOptions)

// Limit sets the column size, e.g. the length of a string column
func Limit(n int) Option {
	return func(o *ColumnOptions) {
		o.Limit = &n
	}
}

// Default sets the column default value
func Default(v string) Option {
	return func(o *ColumnOptions) {
		o.Default = &v
	}
}

// Null sets whether the column accepts NULL
func Null(allowed bool) Option {
	return func(o *ColumnOptions) {
		o.Null = &allowed
	}
}

// NotNull is shorthand for Null(false)
func NotNull() Option {
	return Null(false)
}

// Comment sets the column comment. A blank comment clears an existing one.
func Comment(text string) Option {
	return func(o *ColumnOptions) {
		o.Comment = &text
	}
}

// With copies every option set in opts
func With(opts ColumnOptions) Option {
	return func(o *ColumnOptions) {
		if opts.Limit != nil {
			o.Limit = opts.Limit
		}
		if opts.Default != nil {
			o.Default = opts.Default
		}
		if opts.Null != nil {
			o.Null = opts.Null
		}
		if opts.Comment != nil {
			o.Comment = opts.Comment
		}
	}
}

func buildOptions(opts []Option) ColumnOptions {
	var o ColumnOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NotNullable reports whether the options ask for NOT NULL
func (o ColumnOptions) NotNullable() bool {
	return o.Null != nil && !*o.Null
}
