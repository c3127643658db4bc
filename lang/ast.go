// Package lang implements the lexer/parser (spec §4.A): it tokenizes the
// configuration language and builds the untyped block AST of spec §3.4.
//
// Tokenizing and raw parsing is delegated to github.com/hashicorp/hcl/v2's
// hclsyntax package, the same substrate Atlas's schemahcl package builds
// on. hclsyntax already implements every surface-syntax requirement of
// spec §6.1: identifier-labeled blocks, heredocs (<<TAG / <<-TAG with
// indent stripping), "#"/"//" line comments and "/* */" block comments,
// ${…} template interpolation, %{if}/%{else}/%{endif} and %{for}/%{endfor}
// directives, and the full expression grammar (traversals, splats,
// conditionals, for-comprehensions, function calls). What this package
// adds is the mapping from hclsyntax's native tree into dbschema's own
// Block shape, because the expression evaluator (package eval) walks
// hclsyntax.Expression nodes directly into dbschema's value.Value rather
// than through hcl.EvalContext/cty (see SPEC_FULL.md's AMBIENT STACK
// section for why).
package lang

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Meta carries source-location information for diagnostics (spec §3.4).
type Meta struct {
	File string
	Line int
}

// Block is the untyped configuration block of spec §3.4. Attribute
// expressions are kept unevaluated (as hclsyntax.Expression) until the
// evaluator (package eval) runs them against a Scope.
type Block struct {
	Kind   string
	Labels []string
	Attrs  map[string]hclsyntax.Expression
	Blocks []*Block
	Meta   Meta

	// AttrRanges preserves each attribute's source range, used for
	// diagnostics that reference an attribute rather than the whole block.
	AttrRanges map[string]Meta
}

// Attr looks up a named attribute expression.
func (b *Block) Attr(name string) (hclsyntax.Expression, bool) {
	e, ok := b.Attrs[name]
	return e, ok
}

// BlocksOfKind returns direct child blocks matching kind, in file order.
func (b *Block) BlocksOfKind(kind string) []*Block {
	var out []*Block
	for _, c := range b.Blocks {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Name returns the block's first label, or "" if unlabeled.
func (b *Block) Name() string {
	if len(b.Labels) == 0 {
		return ""
	}
	return b.Labels[0]
}

// File is a single parsed source file: a flat list of top-level blocks.
type File struct {
	Path   string
	Blocks []*Block
}
