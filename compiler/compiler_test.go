package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/compiler"
	"github.com/dbschema/dbschema/dbpostgres"
)

// memLoader is an in-memory resolve.Loader, grounded on spec §6.2's
// "pluggable file loader" contract — the same shape `fmt`'s in-memory
// use case and this package's tests both need.
type memLoader struct {
	files map[string][]byte
}

func (m memLoader) Load(path string) ([]byte, bool) {
	b, ok := m.files[path]
	return b, ok
}

func (m memLoader) ListDir(dir string) ([]string, error) {
	var names []string
	prefix := dir + "/"
	for path := range m.files {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix && !hasSlashAfter(path, len(prefix)) {
			names = append(names, path[len(prefix):])
		}
	}
	return names, nil
}

func hasSlashAfter(s string, from int) bool {
	for i := from; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// TestCompile_SimpleTable implements spec §8 end-to-end scenario 1.
func TestCompile_SimpleTable(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
table "users" {
  schema = "public"
  column "id" { type = "serial" nullable = false }
  column "email" { type = "text" nullable = false }
  primary_key { columns = ["id"] }
}

index "users_email_key" {
  table   = "users"
  columns = ["email"]
  unique  = true
}
`),
	}}

	result, err := compiler.Compile(loader, "/root", compiler.Options{})
	require.NoError(t, err)
	require.Len(t, result.Collection.Tables, 1)
	require.Len(t, result.Collection.Indexes, 1)

	out, err := dbpostgres.Emit(result.Collection, dbpostgres.Options{})
	require.NoError(t, err)

	tableAt := indexOf(out, `CREATE TABLE IF NOT EXISTS "public"."users"`)
	pkAt := indexOf(out, `PRIMARY KEY ("id")`)
	idxAt := indexOf(out, `CREATE UNIQUE INDEX IF NOT EXISTS "users_email_key" ON "public"."users"`)
	require.True(t, tableAt >= 0 && pkAt > tableAt && idxAt > pkAt)
}

// TestCompile_VariableValidationFailure implements spec §8 scenario 2.
func TestCompile_VariableValidationFailure(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
variable "count" {
  type = number
  validation {
    condition     = var.count > 0
    error_message = "count must be positive"
  }
}
`),
	}}

	_, err := compiler.Compile(loader, "/root", compiler.Options{Vars: []string{"count=0"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "count must be positive")
}

// TestCompile_ForEachExpansion implements spec §8 scenario 3.
func TestCompile_ForEachExpansion(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
variable "tables" {
  default = ["users", "orders"]
}

trigger "upd" {
  for_each = var.tables
  name     = "set_${each.value}"
  table    = each.value
  function = "touch_updated_at"
}
`),
	}}

	result, err := compiler.Compile(loader, "/root", compiler.Options{})
	require.NoError(t, err)
	require.Len(t, result.Collection.Triggers, 2)

	names := map[string]string{}
	for _, tr := range result.Collection.Triggers {
		names[tr.Name] = tr.Table
	}
	require.Equal(t, "users", names["set_users"])
	require.Equal(t, "orders", names["set_orders"])
}

// TestCompile_StrictEnumEnforcement implements spec §8 scenario 5.
func TestCompile_StrictEnumEnforcement(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
table "widgets" {
  column "status" { type = "StatusType" nullable = false }
}
`),
	}}

	lenient, err := compiler.Compile(loader, "/root", compiler.Options{Strict: false})
	require.NoError(t, err)
	require.NotEmpty(t, lenient.Warnings)

	_, err = compiler.Compile(loader, "/root", compiler.Options{Strict: true})
	require.Error(t, err)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
