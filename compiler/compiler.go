// Package compiler wires the resolver, block expander, IR builder, and
// IR validator into the single pipeline the CLI (cmd/dbschema) drives
// (spec §5 "E -> F -> G -> H", then one of the component I/J/jsonir
// emitters). It is also where the --var/--var-file priority-merging of
// spec §4.D happens, since that logic sits above resolve.Resolve rather
// than inside it (resolve.Resolve takes an already-merged root input
// map).
package compiler

import (
	"go.uber.org/zap"

	"github.com/dbschema/dbschema/expand"
	"github.com/dbschema/dbschema/internal/clog"
	"github.com/dbschema/dbschema/ir"
	"github.com/dbschema/dbschema/irvalidate"
	"github.com/dbschema/dbschema/resolve"
)

// Options captures the CLI flags of spec §6.4 that affect compilation
// (Include/Exclude are emitter-only and live on the emitter's own
// Options type instead; see cmd/dbschema).
type Options struct {
	Strict   bool
	VarFiles []string
	Vars     []string
}

// Result is everything a caller needs after a successful compile: the
// frozen IR plus every non-fatal diagnostic the builder and validator
// produced along the way.
type Result struct {
	Collection *ir.Collection
	Warnings   []string
}

// Compile runs the full A-is-already-done (blocks come in via loader)
// pipeline: resolve modules/variables/data sources, expand for_each/
// count/dynamic, build the IR, and validate it. rootDir is a directory
// (a module, per spec §3.5 — even the root configuration is "module
// zero"), not a single file, since `source`/sibling-file loading is
// directory-scoped throughout the resolver.
func Compile(loader resolve.Loader, rootDir string, opts Options) (*Result, error) {
	vars, err := ResolveRootVars(loader, opts.VarFiles, opts.Vars)
	if err != nil {
		return nil, err
	}

	clog.Debug("resolving module tree", zap.String("root", rootDir))
	resolved, err := resolve.Resolve(loader, rootDir, vars, opts.Strict)
	if err != nil {
		return nil, err
	}
	clog.Debug("resolved resource blocks", zap.Int("count", len(resolved.ResourceBlocks)))

	var expanded []*expand.Block
	for _, rb := range resolved.ResourceBlocks {
		blocks, err := expand.Expand(rb.ModuleID, rb.Block, rb.Scope)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, blocks...)
	}
	clog.Debug("expanded blocks", zap.Int("count", len(expanded)))

	coll, buildWarnings, err := ir.Build(expanded, opts.Strict)
	if err != nil {
		return nil, err
	}

	findings, err := irvalidate.Validate(coll, opts.Strict)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, w := range buildWarnings {
		warnings = append(warnings, w.Message)
		clog.Warn("build warning", zap.String("kind", w.Kind), zap.String("name", w.Name), zap.String("message", w.Message))
	}
	for _, f := range findings {
		warnings = append(warnings, f.Message)
		clog.Warn("validation finding", zap.String("message", f.Message))
	}

	return &Result{Collection: coll, Warnings: warnings}, nil
}

// Counts summarizes the IR for the `validate` subcommand's report table
// (spec §6.4 "print resource counts").
func Counts(c *ir.Collection) map[string]int {
	return map[string]int{
		"schema":                    len(c.Schemas),
		"enum":                      len(c.Enums),
		"domain":                    len(c.Domains),
		"composite_type":            len(c.CompositeTypes),
		"sequence":                  len(c.Sequences),
		"table":                     len(c.Tables),
		"index":                     len(c.Indexes),
		"view":                      len(c.Views),
		"materialized_view":         len(c.MaterializedViews),
		"function":                  len(c.Functions),
		"procedure":                 len(c.Procedures),
		"aggregate":                 len(c.Aggregates),
		"operator":                  len(c.Operators),
		"trigger":                   len(c.Triggers),
		"event_trigger":             len(c.EventTriggers),
		"rule":                      len(c.Rules),
		"policy":                    len(c.Policies),
		"role":                      len(c.Roles),
		"grant":                     len(c.Grants),
		"publication":               len(c.Publications),
		"subscription":              len(c.Subscriptions),
		"foreign_data_wrapper":      len(c.ForeignDataWrappers),
		"foreign_server":            len(c.ForeignServers),
		"foreign_table":             len(c.ForeignTables),
		"text_search_parser":        len(c.TextSearchParsers),
		"text_search_dictionary":    len(c.TextSearchDicts),
		"text_search_template":      len(c.TextSearchTemplates),
		"text_search_configuration": len(c.TextSearchConfigs),
		"statistics":                len(c.Statistics),
		"extension":                 len(c.Extensions),
		"collation":                 len(c.Collations),
	}
}
