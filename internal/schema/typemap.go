package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var limitPattern = regexp.MustCompile(`\(\s*(\d+)`)

// semanticTypes maps lower-cased base SQL type names to semantic labels
var semanticTypes = map[string]string{
	"int":                         "integer",
	"integer":                     "integer",
	"tinyint":                     "integer",
	"smallint":                    "integer",
	"mediumint":                   "integer",
	"bigint":                      "integer",
	"int2":                        "integer",
	"int4":                        "integer",
	"int8":                        "integer",
	"serial":                      "integer",
	"smallserial":                 "integer",
	"bigserial":                   "integer",
	"float":                       "float",
	"float4":                      "float",
	"float8":                      "float",
	"double":                      "float",
	"double precision":            "float",
	"real":                        "float",
	"decimal":                     "decimal",
	"numeric":                     "decimal",
	"number":                      "decimal",
	"datetime":                    "datetime",
	"timestamp":                   "datetime",
	"timestamptz":                 "datetime",
	"timestamp with time zone":    "datetime",
	"timestamp without time zone": "datetime",
	"time":                        "time",
	"timetz":                      "time",
	"time with time zone":         "time",
	"time without time zone":      "time",
	"date":                        "date",
	"text":                        "text",
	"tinytext":                    "text",
	"mediumtext":                  "text",
	"longtext":                    "text",
	"clob":                        "text",
	"blob":                        "binary",
	"tinyblob":                    "binary",
	"mediumblob":                  "binary",
	"longblob":                    "binary",
	"binary":                      "binary",
	"varbinary":                   "binary",
	"bytea":                       "binary",
	"char":                        "string",
	"character":                   "string",
	"varchar":                     "string",
	"character varying":           "string",
	"nchar":                       "string",
	"nvarchar":                    "string",
	"string":                      "string",
	"enum":                        "string",
	"bool":                        "boolean",
	"boolean":                     "boolean",
	"json":                        "json",
	"jsonb":                       "json",
	"uuid":                        "uuid",
}

// unsized semantic types never carry a limit even when the SQL type has one
var unsized = map[string]bool{
	"boolean":  true,
	"datetime": true,
	"time":     true,
	"date":     true,
	"json":     true,
	"uuid":     true,
}

// SimplifyType maps a raw SQL type such as "varchar(255)" or "int(11) unsigned"
// to a semantic type and an optional limit. An unmapped type yields "".
func SimplifyType(sqlType string) (string, *int) {
	s := strings.ToLower(strings.TrimSpace(sqlType))
	if s == "" {
		return "", nil
	}

	// MySQL stores booleans as tinyint(1)
	if strings.HasPrefix(s, "tinyint(1)") {
		return "boolean", nil
	}

	base := s
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	typ, ok := semanticTypes[base]
	if !ok {
		if i := strings.IndexByte(base, ' '); i >= 0 {
			typ, ok = semanticTypes[base[:i]]
		}
	}
	if !ok {
		return "", nil
	}
	if unsized[typ] || typ == "string" && base == "enum" {
		return typ, nil
	}

	return typ, extractLimit(s)
}

func extractLimit(sqlType string) *int {
	m := limitPattern.FindStringSubmatch(sqlType)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
