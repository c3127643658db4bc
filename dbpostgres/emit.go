package dbpostgres

import (
	"github.com/dbschema/dbschema/ir"
)

// Options controls the include/exclude filtering of spec §4.I's
// "Filtering" rule: when a kind is excluded, cross-kind references are not
// rewritten — the caller is responsible for pairing include sets that form
// a closed subgraph.
type Options struct {
	Include map[string]bool
	Exclude map[string]bool
}

func (o Options) allows(kind string) bool {
	if len(o.Include) > 0 && !o.Include[kind] {
		return false
	}
	if o.Exclude[kind] {
		return false
	}
	return true
}

// Emit renders c into one SQL text buffer in the fixed topological order
// of spec §4.I: extensions, schemas, collations, domains, composite
// types, sequences, enums, tables, indexes, views, materialized views,
// functions, procedures, aggregates, operators, triggers, event triggers,
// rules, policies, roles, grants, publications, subscriptions, foreign
// wrappers/servers/tables, text-search objects, statistics.
func Emit(c *ir.Collection, opts Options) (string, error) {
	b := newBuilder()

	emitSection(b, opts, "extension", c.Extensions, emitExtension)
	emitSection(b, opts, "schema", c.Schemas, emitSchema)
	emitSection(b, opts, "collation", c.Collations, emitGeneric)
	emitSection(b, opts, "domain", c.Domains, emitDomain)
	emitSection(b, opts, "composite_type", c.CompositeTypes, emitCompositeType)
	emitSection(b, opts, "sequence", c.Sequences, emitSequence)
	emitSection(b, opts, "enum", c.Enums, emitEnum)
	emitSection(b, opts, "table", c.Tables, emitTable)
	emitSection(b, opts, "index", c.Indexes, emitIndex)
	emitSection(b, opts, "view", c.Views, emitView)
	emitSection(b, opts, "materialized_view", c.MaterializedViews, emitMaterializedView)
	emitSection(b, opts, "function", c.Functions, emitFunction)
	emitSection(b, opts, "procedure", c.Procedures, emitProcedure)
	emitSection(b, opts, "aggregate", c.Aggregates, emitGeneric)
	emitSection(b, opts, "operator", c.Operators, emitGeneric)
	emitSection(b, opts, "trigger", c.Triggers, emitTrigger)
	emitSection(b, opts, "event_trigger", c.EventTriggers, emitGeneric)
	emitSection(b, opts, "rule", c.Rules, emitGeneric)
	emitSection(b, opts, "policy", c.Policies, emitPolicy)
	emitSection(b, opts, "role", c.Roles, emitGeneric)
	emitSection(b, opts, "grant", c.Grants, emitGeneric)
	emitSection(b, opts, "publication", c.Publications, emitGeneric)
	emitSection(b, opts, "subscription", c.Subscriptions, emitGeneric)
	emitSection(b, opts, "foreign_data_wrapper", c.ForeignDataWrappers, emitGeneric)
	emitSection(b, opts, "foreign_server", c.ForeignServers, emitGeneric)
	emitSection(b, opts, "foreign_table", c.ForeignTables, emitGeneric)
	emitSection(b, opts, "text_search_parser", c.TextSearchParsers, emitGeneric)
	emitSection(b, opts, "text_search_dictionary", c.TextSearchDicts, emitGeneric)
	emitSection(b, opts, "text_search_template", c.TextSearchTemplates, emitGeneric)
	emitSection(b, opts, "text_search_configuration", c.TextSearchConfigs, emitGeneric)
	emitSection(b, opts, "statistics", c.Statistics, emitGeneric)

	return b.String(), nil
}

// emitSection renders every record of one kind, skipping the whole kind
// if filtered out by opts.
func emitSection[T any](b *builder, opts Options, kind string, records []T, emitOne func(*builder, T)) {
	if !opts.allows(kind) {
		return
	}
	for _, r := range records {
		emitOne(b, r)
	}
}
