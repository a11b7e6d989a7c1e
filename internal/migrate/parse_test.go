package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComments(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    map[string]map[string]string
		wantErr bool
	}{
		{
			name:   "empty script",
			script: "",
			want:   map[string]map[string]string{},
		},
		{
			name: "create table",
			script: "CREATE TABLE `users` (\n" +
				"  `id` bigint NOT NULL,\n" +
				"  `email` varchar(255) NOT NULL COMMENT 'Login address',\n" +
				"  `name` varchar(80)\n" +
				");\n",
			want: map[string]map[string]string{
				"users": {"email": "Login address"},
			},
		},
		{
			name: "later definitions win",
			script: "-- comments for the shop\n" +
				"CREATE TABLE orders (total int COMMENT 'Gross', note text COMMENT 'It''s free text');\n" +
				"INSERT INTO orders (total) VALUES (1);\n" +
				"ALTER TABLE orders MODIFY total int COMMENT 'Gross amount in cents';\n" +
				"ALTER TABLE orders CHANGE note remark text COMMENT 'Shown on the invoice';\n" +
				"DROP TABLE legacy;\n",
			want: map[string]map[string]string{
				"orders": {
					"total":  "Gross amount in cents",
					"note":   "It's free text",
					"remark": "Shown on the invoice",
				},
			},
		},
		{
			name:    "syntax error",
			script:  "CREATE TABLE users (id int COMMENT);",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseComments(tt.script)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatementRejectsOtherStatements(t *testing.T) {
	_, err := ParseStatement("SELECT 1")
	assert.ErrorIs(t, err, ErrNotColumnDDL)

	_, err = ParseStatement("ALTER TABLE users ADD INDEX idx_email (email)")
	assert.ErrorIs(t, err, ErrNotColumnDDL)
}
