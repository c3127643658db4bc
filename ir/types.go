package ir

import "github.com/dbschema/dbschema/value"

// Schema is a `schema "name" { ... }` block. (Every record's own schema
// defaults to "public", applied by the builder when the block has no
// `schema` attribute.)
type Schema struct {
	Meta
	IfNotExists bool
}

// Enum is a Postgres enum type.
type Enum struct {
	Meta
	Values []string
}

// Domain is a `CREATE DOMAIN`.
type Domain struct {
	Meta
	BaseType    string
	NotNull     bool
	Default     string
	CheckExpr   string
}

// CompositeType is a `CREATE TYPE ... AS (...)`.
type CompositeType struct {
	Meta
	Fields []CompositeField
}

type CompositeField struct {
	Name string
	Type string
}

// Sequence is a standalone `CREATE SEQUENCE`.
type Sequence struct {
	Meta
	IncrementBy int64
	MinValue    *int64
	MaxValue    *int64
	StartWith   *int64
	Cache       *int64
	Cycle       bool
}

// Column is one table column (spec §3.6).
type Column struct {
	Name        string
	Type        string
	Nullable    bool
	Default     string
	HasDefault  bool
	Collation   string
	Loc         Meta
}

// PrimaryKey is a table's inline primary key.
type PrimaryKey struct {
	Columns []string
}

// ForeignKey is an inline or standalone foreign key.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefSchema  string
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

// Check is a table-level CHECK constraint.
type Check struct {
	Name string
	Expr string
}

// Table is the central resource kind; its defaults (schema="public",
// if_not_exists=true) are applied by the builder (§4.G).
type Table struct {
	Meta
	Columns     []Column
	PrimaryKey  *PrimaryKey
	ForeignKeys []ForeignKey
	Checks      []Check
	IfNotExists bool
}

// Index is a standalone `index` block (emitted by the Postgres emitter as
// CREATE [UNIQUE] INDEX). The builder does not derive Index records from
// blocks nested inside a table; a table has no inline unique constraint.
type Index struct {
	Meta
	Table       string
	Columns     []string
	Unique      bool
	Method      string // "btree" default
	Where       string
	IfNotExists bool
}

// View is a `CREATE [OR REPLACE] VIEW`.
type View struct {
	Meta
	Query   string
	Replace bool
}

// MaterializedView is a `CREATE MATERIALIZED VIEW ... IF NOT EXISTS`.
type MaterializedView struct {
	Meta
	Query       string
	IfNotExists bool
}

// Function is a `CREATE [OR REPLACE] FUNCTION`.
type Function struct {
	Meta
	Args       []FunctionArg
	Returns    string
	Language   string
	Body       string
	Volatility string
	Replace    bool
}

type FunctionArg struct {
	Name string
	Type string
}

// Procedure is a `CREATE [OR REPLACE] PROCEDURE`.
type Procedure struct {
	Meta
	Args     []FunctionArg
	Language string
	Body     string
	Replace  bool
}

// Trigger is guarded at emission time by a pg_trigger existence check
// (spec §4.I); Timing defaults to "BEFORE" (§4.G).
type Trigger struct {
	Meta
	Table    string
	Timing   string // BEFORE | AFTER | INSTEAD OF
	Events   []string
	Level    string // ROW | STATEMENT
	Function string
	When     string
}

// Extension is a `CREATE EXTENSION IF NOT EXISTS`.
type Extension struct {
	Meta
	Version     string
	IfNotExists bool
}

// Generic covers the long-tail resource kinds of spec §3.6 (Aggregate,
// Operator, EventTrigger, Rule, Collation, Policy, Role, Grant,
// Publication, Subscription, ForeignDataWrapper/Server/Table, the four
// TextSearch kinds, Statistics, Test, Invariant, Scenario): each keeps its
// raw evaluated attributes rather than a bespoke Go struct per kind, since
// the Postgres emitter's budget (§2 "20%") is weighted toward the
// table/index/function/trigger core this spec's end-to-end scenarios (§8)
// actually exercise. The Postgres emitter renders Policy as a CREATE POLICY
// statement; for the other kinds it writes only a SQL comment line naming
// the record, with no DDL. Test/Invariant/Scenario specifically
// carry no SQL emission at all — they exist in the IR only so the
// out-of-scope live-DB test driver and ASP scenario generator (§1) have a
// stable record shape to consume; see dbpostgres's emitter for the exact
// kinds skipped.
type Generic struct {
	Meta
	Kind  string
	Attrs *value.Object
}
