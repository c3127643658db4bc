package dbpostgres_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/dbpostgres"
	"github.com/dbschema/dbschema/ir"
)

func TestEmit_TableOrdering(t *testing.T) {
	c := &ir.Collection{
		Tables: []*ir.Table{
			{
				Meta:        ir.Meta{Name: "users", Schema: "public"},
				IfNotExists: true,
				Columns: []ir.Column{
					{Name: "id", Type: "uuid", Nullable: false},
					{Name: "email", Type: "text", Nullable: false},
				},
				PrimaryKey: &ir.PrimaryKey{Columns: []string{"id"}},
			},
		},
		Indexes: []*ir.Index{
			{Meta: ir.Meta{Name: "users_email_idx", Schema: "public"}, Table: "users", Columns: []string{"email"}, Unique: true, IfNotExists: true},
		},
	}

	out, err := dbpostgres.Emit(c, dbpostgres.Options{})
	require.NoError(t, err)

	tableIdx := strings.Index(out, `CREATE TABLE IF NOT EXISTS "public"."users"`)
	indexIdx := strings.Index(out, `CREATE UNIQUE INDEX IF NOT EXISTS "users_email_idx"`)
	require.GreaterOrEqual(t, tableIdx, 0)
	require.GreaterOrEqual(t, indexIdx, 0)
	require.Less(t, tableIdx, indexIdx, "tables must be emitted before indexes")
	require.Contains(t, out, `PRIMARY KEY ("id")`)
}

func TestEmit_EnumGuard(t *testing.T) {
	c := &ir.Collection{
		Enums: []*ir.Enum{
			{Meta: ir.Meta{Name: "status", Schema: "public"}, Values: []string{"active", "inactive"}},
		},
	}
	out, err := dbpostgres.Emit(c, dbpostgres.Options{})
	require.NoError(t, err)
	require.Contains(t, out, `SELECT 1 FROM pg_type WHERE typname = 'status'`)
	require.Contains(t, out, `CREATE TYPE "public"."status" AS ENUM ('active', 'inactive')`)
}

// TestEmit_DefaultBtreeIndexOmitsUsingClause implements spec §8 scenario
// 1's literal MUST-contain string: a default-method unique index renders
// without "USING btree" so `... ON "public"."users" ("email")` stays a
// contiguous substring.
func TestEmit_DefaultBtreeIndexOmitsUsingClause(t *testing.T) {
	c := &ir.Collection{
		Indexes: []*ir.Index{
			{Meta: ir.Meta{Name: "users_email_key", Schema: "public"}, Table: "users", Columns: []string{"email"}, Unique: true, IfNotExists: true},
		},
	}
	out, err := dbpostgres.Emit(c, dbpostgres.Options{})
	require.NoError(t, err)
	require.Contains(t, out, `CREATE UNIQUE INDEX IF NOT EXISTS "users_email_key" ON "public"."users" ("email")`)
	require.NotContains(t, out, "USING btree")
}

func TestEmit_NonDefaultIndexMethodStillRendersUsingClause(t *testing.T) {
	c := &ir.Collection{
		Indexes: []*ir.Index{
			{Meta: ir.Meta{Name: "users_data_idx", Schema: "public"}, Table: "users", Columns: []string{"data"}, Method: "gin", IfNotExists: true},
		},
	}
	out, err := dbpostgres.Emit(c, dbpostgres.Options{})
	require.NoError(t, err)
	require.Contains(t, out, `USING gin ("data")`)
}

func TestEmit_TriggerGuard(t *testing.T) {
	c := &ir.Collection{
		Triggers: []*ir.Trigger{
			{
				Meta:     ir.Meta{Name: "set_updated_at", Schema: "public"},
				Table:    "users",
				Timing:   "BEFORE",
				Events:   []string{"UPDATE"},
				Level:    "ROW",
				Function: "touch_updated_at",
			},
		},
	}
	out, err := dbpostgres.Emit(c, dbpostgres.Options{})
	require.NoError(t, err)
	require.Contains(t, out, "FROM pg_trigger t")
	require.Contains(t, out, `CREATE TRIGGER "set_updated_at" BEFORE UPDATE ON "public"."users"`)
}

func TestEmit_Filtering(t *testing.T) {
	c := &ir.Collection{
		Schemas: []*ir.Schema{{Meta: ir.Meta{Name: "app"}, IfNotExists: true}},
		Tables:  []*ir.Table{{Meta: ir.Meta{Name: "users", Schema: "public"}, IfNotExists: true}},
	}

	out, err := dbpostgres.Emit(c, dbpostgres.Options{Exclude: map[string]bool{"table": true}})
	require.NoError(t, err)
	require.Contains(t, out, `CREATE SCHEMA IF NOT EXISTS "app"`)
	require.NotContains(t, out, "CREATE TABLE")
}
