package resolve

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/lang"
)

// PeekRequiredVersion scans rootDir's top-level files for an optional
// `dbschema { required_version = "..." }` block (SPEC_FULL.md's ambient
// CLI section) without running the full resolver — this check happens
// before variable/module resolution, so it gets its own minimal pass
// rather than threading a special case through moduleDef/ir.Build.
func PeekRequiredVersion(loader Loader, rootDir string) (string, bool, error) {
	dir := filepath.Clean(rootDir)
	names, err := loader.ListDir(dir)
	if err != nil {
		return "", false, cerr.New(cerr.KindIO, cerr.Location{File: dir}, "listing root directory: %v", err)
	}
	sort.Strings(names)
	for _, name := range names {
		if !strings.HasSuffix(name, ".hcl") {
			continue
		}
		path := filepath.Join(dir, name)
		content, ok := loader.Load(path)
		if !ok {
			continue
		}
		f, err := lang.ParseFile(path, content)
		if err != nil {
			return "", false, err
		}
		for _, b := range f.Blocks {
			if b.Kind != "dbschema" {
				continue
			}
			expr, ok := b.Attr("required_version")
			if !ok {
				continue
			}
			v, err := eval.Eval(expr, eval.NewRootScope())
			if err != nil {
				return "", false, err
			}
			s, err := v.ToString()
			if err != nil {
				return "", false, err
			}
			return s, true, nil
		}
	}
	return "", false, nil
}
