package dbpostgres

import "github.com/dbschema/dbschema/ir"

func emitFunction(b *builder, fn *ir.Function) {
	b.P("CREATE")
	if fn.Replace {
		b.P(" OR REPLACE")
	}
	b.P(" FUNCTION %s(%s)", QualifiedIdent(fn.Schema, fn.Name), MapComma(fn.Args, funcArgDDL)).NL()
	b.P("  RETURNS %s", fn.Returns).NL()
	volatility := fn.Volatility
	if volatility == "" {
		volatility = "VOLATILE"
	}
	b.P("  LANGUAGE %s %s AS $dbschema$", fn.Language, volatility).NL()
	b.P("%s", fn.Body).NL()
	b.P("$dbschema$;").NL()
}

func emitProcedure(b *builder, p *ir.Procedure) {
	b.P("CREATE")
	if p.Replace {
		b.P(" OR REPLACE")
	}
	b.P(" PROCEDURE %s(%s)", QualifiedIdent(p.Schema, p.Name), MapComma(p.Args, funcArgDDL)).NL()
	b.P("  LANGUAGE %s AS $dbschema$", p.Language).NL()
	b.P("%s", p.Body).NL()
	b.P("$dbschema$;").NL()
}

func funcArgDDL(a ir.FunctionArg) string {
	if a.Name == "" {
		return a.Type
	}
	return a.Name + " " + a.Type
}
