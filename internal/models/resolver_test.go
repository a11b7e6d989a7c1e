package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

type tableSet map[string]bool

func (s tableSet) TableExists(_ context.Context, table string) (bool, error) {
	return s[table], nil
}

type brokenChecker struct{}

func (brokenChecker) TableExists(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestCamelize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user", "User"},
		{"user_profile", "UserProfile"},
		{"UserProfile", "UserProfile"},
		{"line_item_v2", "LineItemV2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Camelize(tt.in))
		})
	}
}

func TestNamingResolver(t *testing.T) {
	r := NewNamingResolver(tableSet{"users": true, "user_profiles": true}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		want Handle
	}{
		{"User", Handle{Name: "User", Table: "users", File: "user"}},
		{"user_profile", Handle{Name: "UserProfile", Table: "user_profiles", File: "user_profile"}},
		{"UserProfile", Handle{Name: "UserProfile", Table: "user_profiles", File: "user_profile"}},
		{"admin/user.go", Handle{Name: "User", Table: "users", File: "admin/user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(ctx, tt.name)
			require.NoError(t, res.Err)
			assert.True(t, res.Found)
			assert.Equal(t, tt.want, res.Handle)
		})
	}
}

func TestNamingResolverNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewNamingResolver(tableSet{"users": true}, nil)

	res := r.Resolve(ctx, "Invoice")
	assert.False(t, res.Found)
	assert.ErrorIs(t, res.Err, ErrNotSchemaBacked)
	assert.Equal(t, "Invoice", res.Name)

	res = r.Resolve(ctx, "not-a-model")
	assert.False(t, res.Found)
	assert.ErrorIs(t, res.Err, ErrInvalidName)

	res = NewNamingResolver(brokenChecker{}, nil).Resolve(ctx, "User")
	assert.False(t, res.Found)
	assert.Contains(t, res.Err.Error(), "connection refused")
}

func TestNamingResolverCustomStrategy(t *testing.T) {
	r := NewNamingResolver(nil, schema.NamingStrategy{TablePrefix: "app_", SingularTable: true})
	res := r.Resolve(context.Background(), "LineItem")
	require.True(t, res.Found)
	assert.Equal(t, "app_line_item", res.Table)
	assert.Equal(t, "line_item", res.File)
}
