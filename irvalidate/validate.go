// Package irvalidate implements the IR validator of spec §4.H: invariant
// checks that run after the builder and before emission.
package irvalidate

import (
	"fmt"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/ir"
)

// Finding is a non-fatal validator result (errors are returned directly as
// the pipeline-aborting cerr.Error spec §7 mandates).
type Finding struct {
	Message string
}

// builtinTypes is the recognized Postgres scalar type vocabulary used by
// the strict-mode "column type must resolve to a built-in, enum, domain,
// or composite type" rule (§3.7).
var builtinTypes = map[string]bool{
	"smallint": true, "integer": true, "int": true, "bigint": true,
	"serial": true, "bigserial": true, "smallserial": true,
	"numeric": true, "decimal": true, "real": true, "double precision": true,
	"money": true,
	"varchar": true, "character varying": true, "char": true, "character": true,
	"text": true, "bytea": true,
	"timestamp": true, "timestamptz": true, "date": true, "time": true, "timetz": true, "interval": true,
	"bool": true, "boolean": true,
	"uuid": true, "json": true, "jsonb": true, "xml": true,
	"cidr": true, "inet": true, "macaddr": true, "macaddr8": true,
	"point": true, "line": true, "lseg": true, "box": true, "path": true, "polygon": true, "circle": true,
	"tsvector": true, "tsquery": true,
}

// Validate runs every invariant of spec §3.7/§4.H against c, returning
// accumulated warnings plus the first fatal error encountered (if any).
func Validate(c *ir.Collection, strict bool) ([]Finding, error) {
	var findings []Finding

	knownTypeNames := make(map[string]bool)
	for _, e := range c.Enums {
		knownTypeNames[e.Name] = true
	}
	for _, d := range c.Domains {
		knownTypeNames[d.Name] = true
	}
	for _, ct := range c.CompositeTypes {
		knownTypeNames[ct.Name] = true
	}

	declaredSchemas := map[string]bool{"public": true}
	for _, s := range c.Schemas {
		declaredSchemas[s.Name] = true
	}

	checkSchema := func(kind, name, schema string) {
		if !declaredSchemas[schema] {
			findings = append(findings, Finding{Message: fmt.Sprintf("%s %q references undeclared schema %q", kind, name, schema)})
		}
	}
	checkIdentLen := func(kind, name string) {
		if len(name) > 63 {
			findings = append(findings, Finding{Message: fmt.Sprintf("%s identifier %q exceeds 63 characters", kind, name)})
		}
	}

	tablesByQualifiedName := make(map[string]*ir.Table)
	for _, t := range c.Tables {
		tablesByQualifiedName[t.Schema+"."+t.Name] = t
		checkSchema("table", t.Name, t.Schema)
		checkIdentLen("table", t.Name)

		colSet := make(map[string]*ir.Column, len(t.Columns))
		for i := range t.Columns {
			col := &t.Columns[i]
			colSet[col.Name] = col
			checkIdentLen("column", col.Name)
			if !builtinTypes[col.Type] && !knownTypeNames[col.Type] {
				msg := fmt.Sprintf("table %q column %q has unrecognized type %q", t.Name, col.Name, col.Type)
				if strict {
					// Spec §8 scenario 5 names TypeMismatch specifically for
					// this check, not UnknownAttribute (which is reserved
					// for unrecognized block attributes, §7).
					return nil, cerr.New(cerr.KindTypeMismatch, t.Loc, "%s", msg)
				}
				findings = append(findings, Finding{Message: msg})
			}
		}
		if t.PrimaryKey != nil {
			for _, pkCol := range t.PrimaryKey.Columns {
				col, ok := colSet[pkCol]
				if !ok {
					return nil, cerr.New(cerr.KindMissingRequiredAttr, t.Loc, "table %q primary key references unknown column %q", t.Name, pkCol)
				}
				if col.Nullable {
					return nil, cerr.New(cerr.KindTypeMismatch, t.Loc, "table %q primary key column %q must be nullable=false", t.Name, pkCol)
				}
			}
		}
		for _, fk := range t.ForeignKeys {
			if len(fk.Columns) != len(fk.RefColumns) {
				return nil, cerr.New(cerr.KindTypeMismatch, t.Loc, "table %q foreign key %q: %d columns vs %d reference columns", t.Name, fk.Name, len(fk.Columns), len(fk.RefColumns))
			}
		}
	}

	for _, idx := range c.Indexes {
		checkIdentLen("index", idx.Name)
		if _, ok := tablesByQualifiedName[idx.Meta.Schema+"."+idx.Table]; !ok {
			findings = append(findings, Finding{Message: fmt.Sprintf("index %q references unknown table %q", idx.Name, idx.Table)})
		}
	}

	for _, tr := range c.Triggers {
		checkIdentLen("trigger", tr.Name)
		found := false
		for _, t := range c.Tables {
			if t.Name == tr.Table {
				found = true
				break
			}
		}
		if !found {
			findings = append(findings, Finding{Message: fmt.Sprintf("trigger %q references unknown table %q (no external=true annotation exists today)", tr.Name, tr.Table)})
		}
	}

	for _, e := range c.Enums {
		checkIdentLen("enum", e.Name)
	}
	for _, fn := range c.Functions {
		checkIdentLen("function", fn.Name)
	}

	return findings, nil
}
