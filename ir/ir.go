// Package ir implements the Intermediate Representation of spec §3.6: a
// flat, name-referenced (never pointer-based) collection of resource
// records, plus the builder (§4.G) that maps expander output into it.
//
// Atlas's own schema model (sql/schema.Realm/Schema/Table) is a pointer
// graph built for live-database diffing; this IR is deliberately the
// opposite shape because nothing here diffs against a live connection
// (§1 non-goal) and because a flat collection keyed by qualified name is
// what makes direct, idempotent emission and trivial JSON serialization
// possible (§3.6, §6.3) — see DESIGN.md for the full reasoning.
package ir

import "github.com/dbschema/dbschema/internal/cerr"

// Meta is the common header every IR record carries (spec §3.6: "logical
// name, schema, lint_ignore set, source location").
type Meta struct {
	Name       string
	Schema     string
	LintIgnore map[string]bool
	Loc        cerr.Location
	ModuleID   string
}

// Collection is the single flat accumulator every resource record is
// added to (spec §3.8 "IR records accumulate into a single flat
// collection ... frozen before emission"). Slices, not maps, preserve the
// insertion order the builder produced them in, which the Postgres
// emitter's deterministic topological pass depends on within each kind.
type Collection struct {
	Schemas              []*Schema
	Enums                []*Enum
	Domains              []*Domain
	CompositeTypes       []*CompositeType
	Sequences            []*Sequence
	Tables               []*Table
	Indexes              []*Index
	Views                []*View
	MaterializedViews    []*MaterializedView
	Functions            []*Function
	Procedures           []*Procedure
	Aggregates           []*Generic
	Operators            []*Generic
	Triggers             []*Trigger
	EventTriggers        []*Generic
	Rules                []*Generic
	Policies             []*Generic
	Roles                []*Generic
	Grants               []*Generic
	Publications         []*Generic
	Subscriptions        []*Generic
	ForeignDataWrappers  []*Generic
	ForeignServers       []*Generic
	ForeignTables        []*Generic
	TextSearchParsers    []*Generic
	TextSearchDicts      []*Generic
	TextSearchTemplates  []*Generic
	TextSearchConfigs    []*Generic
	Statistics           []*Generic
	Extensions           []*Extension
	Collations           []*Generic
	Tests                []*Generic
	Invariants           []*Generic
	Scenarios            []*Generic
}
