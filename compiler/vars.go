package compiler

import (
	"strings"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/lang"
	"github.com/dbschema/dbschema/resolve"
	"github.com/dbschema/dbschema/value"
)

// ResolveRootVars merges variable inputs in the priority order of spec
// §4.D ("variable defaults -> --var-file HCL files -> --var key=value
// pairs -> caller-provided module inputs"): this function builds
// everything up to --var, since the root module has no caller — variable
// defaults themselves are applied later, inside resolve.Resolve, for
// whichever name was not supplied here.
func ResolveRootVars(loader resolve.Loader, varFiles, varPairs []string) (map[string]value.Value, error) {
	out := make(map[string]value.Value)

	for _, path := range varFiles {
		content, ok := loader.Load(path)
		if !ok {
			return nil, cerr.New(cerr.KindIO, cerr.Location{File: path}, "--var-file not found")
		}
		attrs, err := lang.ParseAttrsFile(path, content)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(attrs))
		for n := range attrs {
			names = append(names, n)
		}
		for _, n := range names {
			v, err := eval.Eval(attrs[n], eval.NewRootScope())
			if err != nil {
				return nil, err
			}
			out[n] = v
		}
	}

	for _, pair := range varPairs {
		k, v, err := splitVarPair(pair)
		if err != nil {
			return nil, err
		}
		out[k] = value.String(v)
	}

	return out, nil
}

func splitVarPair(pair string) (string, string, error) {
	idx := strings.IndexByte(pair, '=')
	if idx < 0 {
		return "", "", cerr.New(cerr.KindParse, cerr.Location{}, "--var %q is not in key=value form", pair)
	}
	return pair[:idx], pair[idx+1:], nil
}
