package resolve

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dbschema/dbschema/coerce"
	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/lang"
	"github.com/dbschema/dbschema/value"
)

// Result is the output of resolving the whole module tree: every
// resource-kind block discovered anywhere in the tree, tagged by
// originating module, ready for the block expander (package expand).
type Result struct {
	ResourceBlocks []ResourceBlock
}

// moduleDef is the static, parse-once representation of a module
// directory (spec §3.5 "Loaded lazily, cached by absolute directory
// path"); it holds the AST, not any evaluated state, since the same
// directory can be instantiated by more than one `module` block.
type moduleDef struct {
	Dir               string
	DeclaredVariables map[string]*VarDecl
	DeclaredOutputs   map[string]*lang.Block
	// Bindings holds "locals", "data", and "module" blocks together, in
	// file order. Keeping them in one sequence (rather than one slice per
	// kind) is what lets a later local reference an earlier module's
	// outputs and vice versa — spec §8 scenario 4 reads a module output
	// back from a local declared after the module block.
	Bindings []*lang.Block
	Other    []*lang.Block // everything else, in file order
}

type resolver struct {
	loader  Loader
	strict  bool
	defs    map[string]*moduleDef
	active  []string
	nextID  int
	out     []ResourceBlock
}

// Resolve evaluates the root module at rootDir and every module it
// transitively instantiates, implementing spec §4.E end to end. rootVars
// is the set of root variable inputs the caller has already merged from
// --var-file and --var; declared defaults are applied here, during
// instantiation, for any variable rootVars does not supply.
func Resolve(loader Loader, rootDir string, rootVars map[string]value.Value, strict bool) (*Result, error) {
	r := &resolver{loader: loader, strict: strict, defs: make(map[string]*moduleDef)}
	absRoot := filepath.Clean(rootDir)
	if _, _, err := r.instantiate(absRoot, rootVars, cerr.Location{}); err != nil {
		return nil, err
	}
	return &Result{ResourceBlocks: r.out}, nil
}

func (r *resolver) loadDef(dir string) (*moduleDef, error) {
	if def, ok := r.defs[dir]; ok {
		return def, nil
	}
	names, err := r.loader.ListDir(dir)
	if err != nil {
		return nil, cerr.New(cerr.KindIO, cerr.Location{File: dir}, "listing module directory: %v", err)
	}
	var hcl []string
	for _, n := range names {
		if strings.HasSuffix(n, ".hcl") {
			hcl = append(hcl, n)
		}
	}
	sort.Strings(hcl) // determinism requirement, spec §5

	def := &moduleDef{Dir: dir, DeclaredVariables: make(map[string]*VarDecl), DeclaredOutputs: make(map[string]*lang.Block)}
	for _, name := range hcl {
		path := filepath.Join(dir, name)
		content, ok := r.loader.Load(path)
		if !ok {
			return nil, cerr.New(cerr.KindIO, cerr.Location{File: path}, "file listed but not found")
		}
		f, err := lang.ParseFile(path, content)
		if err != nil {
			return nil, err
		}
		for _, b := range f.Blocks {
			switch b.Kind {
			case "variable":
				vd, err := parseVarDecl(b)
				if err != nil {
					return nil, err
				}
				def.DeclaredVariables[vd.Name] = vd
			case "locals", "data", "module":
				def.Bindings = append(def.Bindings, b)
			case "output":
				def.DeclaredOutputs[b.Name()] = b
			case "dbschema":
				// required_version is checked by the CLI before compiling
				// (resolve.PeekRequiredVersion) — not a resource kind.
			default:
				def.Other = append(def.Other, b)
			}
		}
	}
	r.defs[dir] = def
	return def, nil
}

func parseVarDecl(b *lang.Block) (*VarDecl, error) {
	vd := &VarDecl{Name: b.Name(), Block: b}
	if typeExpr, ok := b.Attr("type"); ok {
		// Variable type expressions are written as a bareword type
		// descriptor ("list(number)"); since the grammar has no literal
		// form for that today, the type attribute's expression nodes are
		// rendered back to a type string (lang.TypeExprString) and parsed
		// rather than evaluated.
		typeStr, err := lang.TypeExprString(typeExpr)
		if err != nil {
			return nil, err
		}
		t, err := coerce.ParseType(typeStr)
		if err != nil {
			return nil, err
		}
		vd.Type = t
	}
	if defExpr, ok := b.Attr("default"); ok {
		v, err := eval.Eval(defExpr, eval.NewRootScope())
		if err != nil {
			return nil, err
		}
		vd.Default = &v
	}
	for _, vb := range b.BlocksOfKind("validation") {
		cond, ok := vb.Attr("condition")
		if !ok {
			return nil, cerr.New(cerr.KindMissingRequiredAttr, cerr.Location{File: vb.Meta.File, Line: vb.Meta.Line}, "validation block missing %q", "condition")
		}
		msg, _ := vb.Attr("error_message")
		vd.Validations = append(vd.Validations, coerce.ValidationRule{Condition: cond, ErrorMessage: msg})
	}
	return vd, nil
}

// instantiate runs one module instantiation: variable coercion, lazy
// local/data evaluation (implemented here as eager file-order evaluation,
// each bound exactly once — see DESIGN.md for why strict laziness was not
// needed), recursive child-module instantiation, and finally outputs.
func (r *resolver) instantiate(dir string, inputs map[string]value.Value, loc cerr.Location) (*eval.Scope, map[string]value.Value, error) {
	for _, a := range r.active {
		if a == dir {
			chain := append(append([]string(nil), r.active...), dir)
			return nil, nil, cerr.New(cerr.KindModuleCycle, loc, "module cycle: %s", strings.Join(chain, " -> "))
		}
	}
	def, err := r.loadDef(dir)
	if err != nil {
		return nil, nil, err
	}

	id := fmt.Sprintf("m%d", r.nextID)
	r.nextID++

	r.active = append(r.active, dir)
	defer func() { r.active = r.active[:len(r.active)-1] }()

	scope := eval.NewRootScope()
	varObj := value.NewObject()
	varNames := make([]string, 0, len(def.DeclaredVariables))
	for name := range def.DeclaredVariables {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)
	for _, name := range varNames {
		vd := def.DeclaredVariables[name]
		supplied, has := inputs[name]
		var raw value.Value
		switch {
		case has:
			raw = supplied
		case vd.Default != nil:
			raw = *vd.Default
		default:
			return nil, nil, cerr.New(cerr.KindMissingRequiredAttr, loc, "variable %q has no default and was not supplied", name).WithField("kind", "variable")
		}
		coerced := raw
		if vd.Type != nil {
			cv, warnings, err := coerce.Coerce(vd.Type, raw, "var."+name)
			if err != nil {
				return nil, nil, err
			}
			_ = warnings // non-fatal; discarded here, they do not reach the driver or the log
			coerced = cv
		}
		if err := coerce.RunValidations(vd.Validations, name, coerced, scope, loc); err != nil {
			return nil, nil, err
		}
		varObj.Set(name, coerced)
	}
	scope.Set("var", value.ObjectVal(varObj))

	// locals, data, and module blocks are bound in file order, interleaved
	// (spec §8 scenario 4): each namespace object is mutated in place, so a
	// later local can read an earlier module's outputs or an earlier
	// data source, and a later module's input expressions can read an
	// earlier local.
	localObj := value.NewObject()
	dataObj := value.NewObject()
	moduleObj := value.NewObject()
	scope.Set("local", value.ObjectVal(localObj))
	scope.Set("data", value.ObjectVal(dataObj))
	scope.Set("module", value.ObjectVal(moduleObj))

	for _, b := range def.Bindings {
		switch b.Kind {
		case "locals":
			names := make([]string, 0, len(b.Attrs))
			for name := range b.Attrs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				v, err := eval.Eval(b.Attrs[name], scope)
				if err != nil {
					return nil, nil, err
				}
				localObj.Set(name, v)
			}

		case "data":
			if len(b.Labels) < 2 {
				return nil, nil, cerr.New(cerr.KindParse, cerr.Location{File: b.Meta.File, Line: b.Meta.Line}, "data block requires a type and a name label")
			}
			dtype, dname := b.Labels[0], b.Labels[1]
			v, err := resolveDataSource(dtype, b, scope, r.loader, dir)
			if err != nil {
				return nil, nil, err
			}
			byType, _ := dataObj.Get(dtype)
			typeObj := value.NewObject()
			if byType.Kind() == value.KindObject {
				typeObj = byType.Object()
			}
			typeObj.Set(dname, v)
			dataObj.Set(dtype, value.ObjectVal(typeObj))

		case "module":
			srcExpr, ok := b.Attr("source")
			if !ok {
				return nil, nil, cerr.New(cerr.KindMissingRequiredAttr, cerr.Location{File: b.Meta.File, Line: b.Meta.Line}, "module %q missing %q", b.Name(), "source")
			}
			srcVal, err := eval.Eval(srcExpr, scope)
			if err != nil {
				return nil, nil, err
			}
			src, err := srcVal.ToString()
			if err != nil {
				return nil, nil, cerr.New(cerr.KindTypeMismatch, cerr.Location{File: b.Meta.File, Line: b.Meta.Line}, "module source must be a string")
			}
			childDir := filepath.Clean(filepath.Join(dir, src))

			childInputs := make(map[string]value.Value)
			for name, expr := range b.Attrs {
				if name == "source" {
					continue
				}
				v, err := eval.Eval(expr, scope)
				if err != nil {
					return nil, nil, err
				}
				childInputs[name] = v
			}

			_, childOutputs, err := r.instantiate(childDir, childInputs, cerr.Location{File: b.Meta.File, Line: b.Meta.Line})
			if err != nil {
				return nil, nil, err
			}
			childObj := value.NewObject()
			for k, v := range childOutputs {
				childObj.Set(k, v)
			}
			moduleObj.Set(b.Name(), value.ObjectVal(childObj))
		}
	}

	for _, b := range def.Other {
		r.out = append(r.out, ResourceBlock{ModuleID: id, Block: b, Scope: scope})
	}

	outputs := make(map[string]value.Value, len(def.DeclaredOutputs))
	names := make([]string, 0, len(def.DeclaredOutputs))
	for n := range def.DeclaredOutputs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		ob := def.DeclaredOutputs[n]
		valExpr, ok := ob.Attr("value")
		if !ok {
			return nil, nil, cerr.New(cerr.KindMissingRequiredAttr, cerr.Location{File: ob.Meta.File, Line: ob.Meta.Line}, "output %q missing %q", n, "value")
		}
		v, err := eval.Eval(valExpr, scope)
		if err != nil {
			return nil, nil, err
		}
		outputs[n] = v
	}

	return scope, outputs, nil
}
