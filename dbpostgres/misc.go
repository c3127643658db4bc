package dbpostgres

import "github.com/dbschema/dbschema/ir"

func emitExtension(b *builder, e *ir.Extension) {
	b.P("CREATE EXTENSION")
	if e.IfNotExists {
		b.P(" IF NOT EXISTS")
	}
	b.P(" %s", Ident(e.Name))
	if e.Version != "" {
		b.P(" VERSION %s", quoteLiteral(e.Version))
	}
	b.P(";").NL()
}

func emitSchema(b *builder, s *ir.Schema) {
	b.P("CREATE SCHEMA")
	if s.IfNotExists {
		b.P(" IF NOT EXISTS")
	}
	b.P(" %s", Ident(s.Name))
	b.P(";").NL()
}

func emitDomain(b *builder, d *ir.Domain) {
	b.P("DO $$ BEGIN").NL()
	b.P("  CREATE DOMAIN %s AS %s", QualifiedIdent(d.Schema, d.Name), d.BaseType)
	if d.NotNull {
		b.P(" NOT NULL")
	}
	if d.Default != "" {
		b.P(" DEFAULT %s", d.Default)
	}
	if d.CheckExpr != "" {
		b.P(" CHECK (%s)", d.CheckExpr)
	}
	b.P(";").NL()
	b.P("EXCEPTION WHEN duplicate_object THEN null; END $$;").NL()
}

func emitCompositeType(b *builder, t *ir.CompositeType) {
	b.P("DO $$ BEGIN").NL()
	b.P("  CREATE TYPE %s AS (%s)", QualifiedIdent(t.Schema, t.Name), MapComma(t.Fields, func(f ir.CompositeField) string {
		return Ident(f.Name) + " " + f.Type
	}))
	b.P(";").NL()
	b.P("EXCEPTION WHEN duplicate_object THEN null; END $$;").NL()
}

func emitSequence(b *builder, s *ir.Sequence) {
	b.P("CREATE SEQUENCE IF NOT EXISTS %s", QualifiedIdent(s.Schema, s.Name))
	if s.IncrementBy != 0 {
		b.P(" INCREMENT BY %d", s.IncrementBy)
	}
	if s.MinValue != nil {
		b.P(" MINVALUE %d", *s.MinValue)
	}
	if s.MaxValue != nil {
		b.P(" MAXVALUE %d", *s.MaxValue)
	}
	if s.StartWith != nil {
		b.P(" START WITH %d", *s.StartWith)
	}
	if s.Cache != nil {
		b.P(" CACHE %d", *s.Cache)
	}
	if s.Cycle {
		b.P(" CYCLE")
	}
	b.P(";").NL()
}

// emitEnum guards creation with a pg_type existence check (spec §4.I
// "Enums use a similar guard on pg_type").
func emitEnum(b *builder, e *ir.Enum) {
	b.P("DO $$ BEGIN").NL()
	b.P("  IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = %s) THEN", quoteLiteral(e.Name)).NL()
	b.P("    CREATE TYPE %s AS ENUM (%s);", QualifiedIdent(e.Schema, e.Name), MapComma(e.Values, quoteLiteral)).NL()
	b.P("  END IF;").NL()
	b.P("END $$;").NL()
}

// emitGeneric handles the long-tail kinds (spec §3.6's tail) that have no
// dedicated renderer: it writes one SQL comment line naming the record and
// emits no DDL for it; its attributes appear only in the IR JSON output.
// Test/Invariant/Scenario records produce no output at all.
func emitGeneric(b *builder, g *ir.Generic) {
	switch g.Kind {
	case "test", "invariant", "scenario":
		return
	}
	b.P("-- %s %q is out of this emitter's rendering scope; see IR JSON output.", g.Kind, g.Name).NL()
}

func quoteLiteral(s string) string {
	return "'" + replaceAll(s, "'", "''") + "'"
}

func replaceAll(s, old, new string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == old[0] {
			out = append(out, new...)
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
