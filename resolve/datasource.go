package resolve

import (
	"path/filepath"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/lang"
	"github.com/dbschema/dbschema/value"
)

// dataSourceFn evaluates one `data "<type>" "<name>" { ... }` block's
// config attrs into its exposed value (spec §6.6). The registry is static:
// new types are added here, never pluggable at runtime.
type dataSourceFn func(block *lang.Block, scope *eval.Scope, loader Loader, moduleDir string) (value.Value, error)

var dataSources = map[string]dataSourceFn{
	"prisma_schema": dataSourcePrismaSchema,
}

func resolveDataSource(dtype string, block *lang.Block, scope *eval.Scope, loader Loader, moduleDir string) (value.Value, error) {
	fn, ok := dataSources[dtype]
	if !ok {
		loc := cerr.Location{File: block.Meta.File, Line: block.Meta.Line}
		return value.Value{}, cerr.New(cerr.KindDataSourceUnsupported, loc, "unsupported data source type %q", dtype)
	}
	return fn(block, scope, loader, moduleDir)
}

// dataSourcePrismaSchema implements the one mandated data source (§6.6):
// `data "prisma_schema" "n" { file = "<path>" }`.
func dataSourcePrismaSchema(block *lang.Block, scope *eval.Scope, loader Loader, moduleDir string) (value.Value, error) {
	loc := cerr.Location{File: block.Meta.File, Line: block.Meta.Line}
	fileExpr, ok := block.Attr("file")
	if !ok {
		return value.Value{}, cerr.New(cerr.KindMissingRequiredAttr, loc, "data %q %q missing %q", "prisma_schema", block.Name(), "file")
	}
	fv, err := eval.Eval(fileExpr, scope)
	if err != nil {
		return value.Value{}, err
	}
	path, err := fv.ToString()
	if err != nil {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "data %q %q: file must be a string", "prisma_schema", block.Name())
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(moduleDir, path)
	}
	content, ok := loader.Load(path)
	if !ok {
		return value.Value{}, cerr.New(cerr.KindIO, loc, "prisma schema file not found: %s", path)
	}
	return parsePrismaSchema(string(content))
}
