package dbpostgres

import "github.com/dbschema/dbschema/ir"

func emitTable(b *builder, t *ir.Table) {
	b.P("CREATE TABLE")
	if t.IfNotExists {
		b.P(" IF NOT EXISTS")
	}
	b.P(" %s (", QualifiedIdent(t.Schema, t.Name)).NL()

	lines := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys)+len(t.Checks))
	for _, col := range t.Columns {
		lines = append(lines, "  "+columnDDL(col))
	}
	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 0 {
		lines = append(lines, "  PRIMARY KEY ("+IdentList(t.PrimaryKey.Columns)+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, "  "+foreignKeyDDL(fk))
	}
	for _, ck := range t.Checks {
		lines = append(lines, "  "+checkDDL(ck))
	}

	for i, line := range lines {
		b.P("%s", line)
		if i < len(lines)-1 {
			b.P(",")
		}
		b.NL()
	}
	b.P(");").NL()
}

func columnDDL(col ir.Column) string {
	s := Ident(col.Name) + " " + col.Type
	if !col.Nullable {
		s += " NOT NULL"
	}
	if col.HasDefault {
		s += " DEFAULT " + col.Default
	}
	if col.Collation != "" {
		s += ` COLLATE "` + col.Collation + `"`
	}
	return s
}

func foreignKeyDDL(fk ir.ForeignKey) string {
	s := ""
	if fk.Name != "" {
		s += "CONSTRAINT " + Ident(fk.Name) + " "
	}
	s += "FOREIGN KEY (" + IdentList(fk.Columns) + ")"
	refSchema := fk.RefSchema
	if refSchema == "" {
		refSchema = "public"
	}
	s += " REFERENCES " + QualifiedIdent(refSchema, fk.RefTable) + " (" + IdentList(fk.RefColumns) + ")"
	if fk.OnDelete != "" {
		s += " ON DELETE " + fk.OnDelete
	}
	if fk.OnUpdate != "" {
		s += " ON UPDATE " + fk.OnUpdate
	}
	return s
}

func checkDDL(ck ir.Check) string {
	s := ""
	if ck.Name != "" {
		s += "CONSTRAINT " + Ident(ck.Name) + " "
	}
	s += "CHECK (" + ck.Expr + ")"
	return s
}

func emitIndex(b *builder, idx *ir.Index) {
	b.P("CREATE")
	if idx.Unique {
		b.P(" UNIQUE")
	}
	b.P(" INDEX")
	if idx.IfNotExists {
		b.P(" IF NOT EXISTS")
	}
	b.P(" %s ON %s", Ident(idx.Name), QualifiedIdent(idx.Schema, idx.Table))
	// btree is Postgres's own default access method; omitting "USING
	// btree" keeps the common case terse and matches what a hand-written
	// migration would say.
	if idx.Method != "" && idx.Method != "btree" {
		b.P(" USING %s", idx.Method)
	}
	b.P(" (%s)", IdentList(idx.Columns))
	if idx.Where != "" {
		b.P(" WHERE %s", idx.Where)
	}
	b.P(";").NL()
}
