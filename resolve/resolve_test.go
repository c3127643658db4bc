package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/resolve"
	"github.com/dbschema/dbschema/value"
)

// memLoader is an in-memory resolve.Loader for exercising module
// resolution without touching the filesystem.
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

func TestResolve_ModuleCycleDetected(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
module "a" {
  source = "./a"
}
`),
		"/root/a/main.hcl": []byte(`
module "back" {
  source = "../"
}
`),
	}}

	_, err := resolve.Resolve(loader, "/root", nil, false)
	require.Error(t, err)

	ce, ok := err.(*cerr.Error)
	require.True(t, ok, "expected *cerr.Error, got %T", err)
	require.True(t, ce.Is(cerr.KindModuleCycle))
}

// TestResolve_ModuleOutputVisibleAfterBlock implements spec §8 scenario
// 4: a child module's `output` value is readable via module.<name>.<out>
// from a resource block declared after the module block in the parent.
func TestResolve_ModuleOutputVisibleAfterBlock(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
module "schema" {
  source = "./child"
}

table "users" {
  schema = module.schema.name
}
`),
		"/root/child/main.hcl": []byte(`
output "name" {
  value = "public"
}
`),
	}}

	result, err := resolve.Resolve(loader, "/root", nil, false)
	require.NoError(t, err)
	require.Len(t, result.ResourceBlocks, 1)

	rb := result.ResourceBlocks[0]
	expr, ok := rb.Block.Attr("schema")
	require.True(t, ok)

	v, err := eval.Eval(expr, rb.Scope)
	require.NoError(t, err)
	require.Equal(t, "public", v.Str())
}

// TestResolve_LocalReadsEarlierModuleOutput implements spec §8 scenario
// 4 literally: a `local` declared after a `module` block reads that
// module's output (`module.orders_timestamps.trigger_name`).
func TestResolve_LocalReadsEarlierModuleOutput(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
module "orders_timestamps" {
  source = "./child"
}

locals {
  trigger_name = module.orders_timestamps.trigger_name
}

table "t" {
  schema = local.trigger_name
}
`),
		"/root/child/main.hcl": []byte(`
output "trigger_name" {
  value = "set_col_on_update"
}
`),
	}}

	result, err := resolve.Resolve(loader, "/root", nil, false)
	require.NoError(t, err)
	require.Len(t, result.ResourceBlocks, 1)

	rb := result.ResourceBlocks[0]
	expr, ok := rb.Block.Attr("schema")
	require.True(t, ok)

	v, err := eval.Eval(expr, rb.Scope)
	require.NoError(t, err)
	require.Equal(t, "set_col_on_update", v.Str())
}

func TestResolve_MissingRequiredVariableFails(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
variable "name" {
  type = string
}
`),
	}}

	_, err := resolve.Resolve(loader, "/root", nil, false)
	require.Error(t, err)
}

func TestResolve_RootVarsSatisfyVariable(t *testing.T) {
	loader := memLoader{files: map[string][]byte{
		"/root/main.hcl": []byte(`
variable "name" {
  type = string
}

table "t" {
  schema = var.name
}
`),
	}}

	result, err := resolve.Resolve(loader, "/root", map[string]value.Value{"name": value.String("public")}, false)
	require.NoError(t, err)
	require.Len(t, result.ResourceBlocks, 1)
}
