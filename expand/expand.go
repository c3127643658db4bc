// Package expand implements the block expander of spec §4.F: applying
// for_each/count/dynamic to the untyped blocks the resolver (package
// resolve) produced, yielding a flat stream of concrete Blocks with every
// attribute fully evaluated and each.*/count.index bindings already
// resolved.
package expand

import (
	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/lang"
	"github.com/dbschema/dbschema/value"
)

// Block is one concrete, fully-evaluated block instance (spec §4.F/§4.G
// input). Name is derived per §4.F: the block's own `name` attribute if
// present, else the first label verbatim.
type Block struct {
	ModuleID string
	Kind     string
	Labels   []string
	Name     string
	Attrs    map[string]value.Value
	Blocks   []*Block
	Loc      cerr.Location
}

// Expand runs the block expander over b, which may carry for_each, count,
// or dynamic child blocks, and returns every concrete instance it
// produces.
func Expand(moduleID string, b *lang.Block, scope *eval.Scope) ([]*Block, error) {
	loc := cerr.Location{File: b.Meta.File, Line: b.Meta.Line}

	forEachExpr, hasForEach := b.Attr("for_each")
	countExpr, hasCount := b.Attr("count")
	if hasForEach && hasCount {
		return nil, cerr.New(cerr.KindTypeMismatch, loc, "%q block cannot use both for_each and count", b.Kind)
	}

	switch {
	case hasForEach:
		v, err := eval.Eval(forEachExpr, scope)
		if err != nil {
			return nil, err
		}
		return expandForEach(moduleID, b, scope, v, loc)
	case hasCount:
		v, err := eval.Eval(countExpr, scope)
		if err != nil {
			return nil, err
		}
		if v.Kind() != value.KindNumber {
			return nil, cerr.New(cerr.KindTypeMismatch, loc, "%q count must be a number, got %s", b.Kind, v.Kind())
		}
		n := v.Number().Int64()
		out := make([]*Block, 0, n)
		for i := int64(0); i < n; i++ {
			inst, err := buildInstance(moduleID, b, scope.WithCountIndex(i), loc)
			if err != nil {
				return nil, err
			}
			out = append(out, inst)
		}
		return out, nil
	default:
		inst, err := buildInstance(moduleID, b, scope, loc)
		if err != nil {
			return nil, err
		}
		return []*Block{inst}, nil
	}
}

func expandForEach(moduleID string, b *lang.Block, scope *eval.Scope, coll value.Value, loc cerr.Location) ([]*Block, error) {
	var out []*Block
	switch coll.Kind() {
	case value.KindList:
		for i, item := range coll.List() {
			child := scope.WithEach(value.IntVal(int64(i)), item)
			inst, err := buildInstance(moduleID, b, child, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, inst)
		}
	case value.KindObject:
		obj := coll.Object()
		for _, k := range obj.SortedKeys() {
			v, _ := obj.Get(k)
			child := scope.WithEach(value.String(k), v)
			inst, err := buildInstance(moduleID, b, child, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, inst)
		}
	default:
		return nil, cerr.New(cerr.KindTypeMismatch, loc, "%q for_each must be a list or object, got %s", b.Kind, coll.Kind())
	}
	return out, nil
}

// buildInstance evaluates b's own attributes and recursively expands its
// child blocks (including dynamic ones) against scope, producing one
// concrete instance.
func buildInstance(moduleID string, b *lang.Block, scope *eval.Scope, loc cerr.Location) (*Block, error) {
	attrs := make(map[string]value.Value, len(b.Attrs))
	for name, expr := range b.Attrs {
		if name == "for_each" || name == "count" {
			continue
		}
		v, err := eval.Eval(expr, scope)
		if err != nil {
			return nil, err
		}
		attrs[name] = v
	}

	name := ""
	if nv, ok := attrs["name"]; ok {
		s, err := nv.ToString()
		if err != nil {
			return nil, cerr.New(cerr.KindTypeMismatch, loc, "%q name attribute must be a string", b.Kind)
		}
		name = s
	} else if len(b.Labels) > 0 {
		name = b.Labels[0]
	}

	inst := &Block{ModuleID: moduleID, Kind: b.Kind, Labels: b.Labels, Name: name, Attrs: attrs, Loc: loc}

	for _, child := range b.Blocks {
		if child.Kind == "dynamic" {
			dynBlocks, err := expandDynamic(moduleID, child, scope)
			if err != nil {
				return nil, err
			}
			inst.Blocks = append(inst.Blocks, dynBlocks...)
			continue
		}
		childInsts, err := Expand(moduleID, child, scope)
		if err != nil {
			return nil, err
		}
		inst.Blocks = append(inst.Blocks, childInsts...)
	}

	return inst, nil
}

// expandDynamic implements `dynamic "X" { for_each = ...; labels = [...];
// content { ... } }` (spec §4.F): one child block of kind X per iteration,
// with labels from the labels expression and attributes from content.
// dynamic blocks may nest, handled by buildInstance's own recursive call
// into Expand/expandDynamic for content's children.
func expandDynamic(moduleID string, d *lang.Block, scope *eval.Scope) ([]*Block, error) {
	loc := cerr.Location{File: d.Meta.File, Line: d.Meta.Line}
	if len(d.Labels) != 1 {
		return nil, cerr.New(cerr.KindParse, loc, "dynamic block requires exactly one label (the target kind)")
	}
	targetKind := d.Labels[0]

	forEachExpr, ok := d.Attr("for_each")
	if !ok {
		return nil, cerr.New(cerr.KindMissingRequiredAttr, loc, "dynamic %q missing for_each", targetKind)
	}
	coll, err := eval.Eval(forEachExpr, scope)
	if err != nil {
		return nil, err
	}

	var contentBlock *lang.Block
	for _, cb := range d.Blocks {
		if cb.Kind == "content" {
			contentBlock = cb
			break
		}
	}
	if contentBlock == nil {
		return nil, cerr.New(cerr.KindMissingRequiredAttr, loc, "dynamic %q missing content block", targetKind)
	}

	var iterScopes []*eval.Scope
	switch coll.Kind() {
	case value.KindList:
		for i, item := range coll.List() {
			iterScopes = append(iterScopes, scope.WithEach(value.IntVal(int64(i)), item))
		}
	case value.KindObject:
		obj := coll.Object()
		for _, k := range obj.SortedKeys() {
			v, _ := obj.Get(k)
			iterScopes = append(iterScopes, scope.WithEach(value.String(k), v))
		}
	default:
		return nil, cerr.New(cerr.KindTypeMismatch, loc, "dynamic %q for_each must be a list or object, got %s", targetKind, coll.Kind())
	}

	var out []*Block
	for _, iterScope := range iterScopes {
		var labels []string
		if labelsExpr, ok := d.Attr("labels"); ok {
			lv, err := eval.Eval(labelsExpr, iterScope)
			if err != nil {
				return nil, err
			}
			if lv.Kind() != value.KindList {
				return nil, cerr.New(cerr.KindTypeMismatch, loc, "dynamic %q labels must be a list", targetKind)
			}
			for _, lvi := range lv.List() {
				s, err := lvi.ToString()
				if err != nil {
					return nil, cerr.New(cerr.KindTypeMismatch, loc, "dynamic %q labels elements must be strings", targetKind)
				}
				labels = append(labels, s)
			}
		}
		synthetic := &lang.Block{Kind: targetKind, Labels: labels, Attrs: contentBlock.Attrs, Blocks: contentBlock.Blocks, Meta: contentBlock.Meta}
		insts, err := Expand(moduleID, synthetic, iterScope)
		if err != nil {
			return nil, err
		}
		out = append(out, insts...)
	}
	return out, nil
}
