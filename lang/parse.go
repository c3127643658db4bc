package lang

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/dbschema/dbschema/internal/cerr"
)

// ParseFile tokenizes and parses a single configuration file's contents
// into a File of untyped Blocks (spec §3.4). content is obtained through
// the injectable file loader (spec §6.2); this package never opens files
// itself (spec §5 "the compiler never opens files directly").
func ParseFile(path string, content []byte) (*File, error) {
	parser := hclparse.NewParser()
	hf, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, diagError(path, content, diags)
	}
	body, ok := hf.Body.(*hclsyntax.Body)
	if !ok {
		return nil, cerr.New(cerr.KindParse, cerr.Location{File: path}, "unexpected body type %T", hf.Body)
	}
	blocks := make([]*Block, 0, len(body.Blocks))
	for _, b := range body.Blocks {
		blocks = append(blocks, convertBlock(path, b))
	}
	return &File{Path: path, Blocks: blocks}, nil
}

// ParseAttrsFile parses a flat "key = value" file with no blocks — the
// shape of a `--var-file` (spec §6.4) — into its top-level attribute
// expressions, keyed by name.
func ParseAttrsFile(path string, content []byte) (map[string]hclsyntax.Expression, error) {
	parser := hclparse.NewParser()
	hf, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, diagError(path, content, diags)
	}
	body, ok := hf.Body.(*hclsyntax.Body)
	if !ok {
		return nil, cerr.New(cerr.KindParse, cerr.Location{File: path}, "unexpected body type %T", hf.Body)
	}
	out := make(map[string]hclsyntax.Expression, len(body.Attributes))
	for name, attr := range body.Attributes {
		out[name] = attr.Expr
	}
	return out, nil
}

func convertBlock(path string, b *hclsyntax.Block) *Block {
	blk := &Block{
		Kind:       b.Type,
		Labels:     append([]string(nil), b.Labels...),
		Attrs:      make(map[string]hclsyntax.Expression, len(b.Body.Attributes)),
		AttrRanges: make(map[string]Meta, len(b.Body.Attributes)),
		Meta:       Meta{File: path, Line: b.DefRange().Start.Line},
	}
	for name, attr := range b.Body.Attributes {
		blk.Attrs[name] = attr.Expr
		blk.AttrRanges[name] = Meta{File: path, Line: attr.SrcRange.Start.Line}
	}
	for _, child := range b.Body.Blocks {
		blk.Blocks = append(blk.Blocks, convertBlock(path, child))
	}
	return blk
}

// diagError converts HCL diagnostics into a cerr.Error carrying file,
// line, column and a single-line excerpt (spec §4.A).
func diagError(path string, content []byte, diags hcl.Diagnostics) error {
	d := diags[0]
	loc := cerr.Location{File: path}
	excerpt := ""
	if d.Subject != nil {
		loc.Line = d.Subject.Start.Line
		loc.Column = d.Subject.Start.Column
		lines := strings.Split(string(content), "\n")
		if loc.Line-1 >= 0 && loc.Line-1 < len(lines) {
			excerpt = strings.TrimRight(lines[loc.Line-1], "\r")
		}
	}
	msg := d.Summary
	if d.Detail != "" {
		msg = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
	}
	if excerpt != "" {
		msg = fmt.Sprintf("%s\n  %s", msg, excerpt)
	}
	return cerr.New(cerr.KindParse, loc, "%s", msg)
}
