package dbpostgres

import "github.com/dbschema/dbschema/ir"

func emitView(b *builder, v *ir.View) {
	b.P("CREATE")
	if v.Replace {
		b.P(" OR REPLACE")
	}
	b.P(" VIEW %s AS", QualifiedIdent(v.Schema, v.Name)).NL()
	b.P("  %s", v.Query).NL()
	b.P(";").NL()
}

// emitMaterializedView guards with IF NOT EXISTS: materialized views have
// no OR REPLACE form in Postgres (spec §4.I).
func emitMaterializedView(b *builder, v *ir.MaterializedView) {
	b.P("CREATE MATERIALIZED VIEW")
	if v.IfNotExists {
		b.P(" IF NOT EXISTS")
	}
	b.P(" %s AS", QualifiedIdent(v.Schema, v.Name)).NL()
	b.P("  %s", v.Query).NL()
	b.P(";").NL()
}
