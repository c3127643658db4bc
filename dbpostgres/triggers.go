package dbpostgres

import (
	"strings"

	"github.com/dbschema/dbschema/ir"
	"github.com/dbschema/dbschema/value"
)

// emitTrigger guards creation with a pg_trigger existence check keyed on
// (schema, table, name) per spec §4.I, since CREATE TRIGGER has no native
// IF NOT EXISTS form.
func emitTrigger(b *builder, tr *ir.Trigger) {
	b.P("DO $$ BEGIN").NL()
	b.P("  IF NOT EXISTS (").NL()
	b.P("    SELECT 1 FROM pg_trigger t").NL()
	b.P("    JOIN pg_class c ON c.oid = t.tgrelid").NL()
	b.P("    JOIN pg_namespace n ON n.oid = c.relnamespace").NL()
	b.P("    WHERE t.tgname = %s AND c.relname = %s AND n.nspname = %s", quoteLiteral(tr.Name), quoteLiteral(tr.Table), quoteLiteral(tr.Schema)).NL()
	b.P("  ) THEN").NL()
	b.P("    CREATE TRIGGER %s %s %s ON %s", Ident(tr.Name), tr.Timing, strings.Join(tr.Events, " OR "), QualifiedIdent(tr.Schema, tr.Table)).NL()
	b.P("    FOR EACH %s", tr.Level)
	if tr.When != "" {
		b.P(" WHEN (%s)", tr.When)
	}
	b.P(" EXECUTE FUNCTION %s();", tr.Function).NL()
	b.P("  END IF;").NL()
	b.P("END $$;").NL()
}

// emitPolicy enables row level security on the target table before
// creating the policy (spec §4.I "policies need an ALTER TABLE ... ENABLE
// ROW LEVEL SECURITY statement emitted before the policy itself").
func emitPolicy(b *builder, g *ir.Generic) {
	table := genericAttrString(g, "table", "")
	if table == "" {
		b.P("-- policy %q is missing a table attribute; skipped", g.Name).NL()
		return
	}
	b.P("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", QualifiedIdent(g.Schema, table)).NL()
	b.P("DO $$ BEGIN").NL()
	b.P("  CREATE POLICY %s ON %s", Ident(g.Name), QualifiedIdent(g.Schema, table))
	if cmd := genericAttrString(g, "command", ""); cmd != "" {
		b.P(" FOR %s", strings.ToUpper(cmd))
	}
	if roles := genericAttrStringList(g, "roles"); len(roles) > 0 {
		b.P(" TO %s", Comma(roles))
	}
	if using := genericAttrString(g, "using", ""); using != "" {
		b.P(" USING (%s)", using)
	}
	if check := genericAttrString(g, "check", ""); check != "" {
		b.P(" WITH CHECK (%s)", check)
	}
	b.P(";").NL()
	b.P("EXCEPTION WHEN duplicate_object THEN null; END $$;").NL()
}

func genericAttrString(g *ir.Generic, key, def string) string {
	v, ok := g.Attrs.Get(key)
	if !ok {
		return def
	}
	s, err := v.ToString()
	if err != nil {
		return def
	}
	return s
}

func genericAttrStringList(g *ir.Generic, key string) []string {
	v, ok := g.Attrs.Get(key)
	if !ok || v.Kind() != value.KindList {
		return nil
	}
	var out []string
	for _, item := range v.List() {
		s, err := item.ToString()
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
