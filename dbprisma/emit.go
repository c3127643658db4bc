// Package dbprisma implements the Prisma schema emitter of spec §4.J:
// rendering exactly the enum and table subset of the IR, with no
// functions, triggers, or extensions.
package dbprisma

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/dbschema/dbschema/ir"
)

// typeMap is the fixed Postgres-to-Prisma scalar mapping spec §4.J names
// explicitly (serial/text/timestamptz/uuid); the rest follow the same
// built-in vocabulary irvalidate recognizes.
var typeMap = map[string]string{
	"serial": "Int", "bigserial": "BigInt", "smallserial": "Int",
	"smallint": "Int", "integer": "Int", "int": "Int", "bigint": "BigInt",
	"numeric": "Decimal", "decimal": "Decimal", "real": "Float", "double precision": "Float",
	"varchar": "String", "character varying": "String", "char": "String", "character": "String", "text": "String",
	"bytea": "Bytes",
	"timestamp": "DateTime", "timestamptz": "DateTime", "date": "DateTime", "time": "DateTime", "timetz": "DateTime",
	"bool": "Boolean", "boolean": "Boolean",
	"uuid": "String", "json": "Json", "jsonb": "Json",
}

// Emit renders c's enums and tables as a Prisma schema (spec §4.J). Any
// other kind present in c is silently excluded, not erroring — the
// emitter's whole contract is "the subset", per the spec's end-to-end
// scenario 6.
func Emit(c *ir.Collection) (string, error) {
	var b strings.Builder

	enumNames := make(map[string]bool, len(c.Enums))
	for _, e := range c.Enums {
		enumNames[e.Name] = true
	}

	for _, e := range c.Enums {
		fmt.Fprintf(&b, "enum %s {\n", modelName(e.Name))
		for _, v := range e.Values {
			fmt.Fprintf(&b, "  %s\n", v)
		}
		b.WriteString("}\n\n")
	}

	for _, t := range c.Tables {
		fmt.Fprintf(&b, "model %s {\n", modelName(t.Name))
		pk := map[string]bool{}
		if t.PrimaryKey != nil {
			for _, col := range t.PrimaryKey.Columns {
				pk[col] = true
			}
		}
		for _, col := range t.Columns {
			b.WriteString("  ")
			b.WriteString(fieldDDL(col, pk[col.Name], enumNames))
			b.WriteString("\n")
		}
		for _, fk := range t.ForeignKeys {
			b.WriteString("  ")
			b.WriteString(relationDDL(fk))
			b.WriteString("\n")
		}
		b.WriteString("}\n\n")
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// modelName follows Prisma's PascalCase model-naming convention,
// singularizing plural table names (spec leaves the exact casing
// unspecified; this mirrors Prisma's own generator defaults).
func modelName(tableName string) string {
	singular := inflect.Singularize(tableName)
	return inflect.Camelize(singular)
}

func fieldDDL(col ir.Column, isPK bool, enumNames map[string]bool) string {
	prismaType, ok := typeMap[col.Type]
	if !ok {
		if enumNames[col.Type] {
			prismaType = modelName(col.Type)
		} else {
			prismaType = "String"
		}
	}
	s := col.Name + " " + prismaType
	if col.Nullable {
		s += "?"
	}
	var attrs []string
	if isPK {
		attrs = append(attrs, "@id")
	}
	if col.Type == "serial" || col.Type == "bigserial" || col.Type == "smallserial" {
		attrs = append(attrs, "@default(autoincrement())")
	} else if col.HasDefault {
		attrs = append(attrs, fmt.Sprintf("@default(%s)", col.Default))
	}
	if col.Type == "uuid" {
		attrs = append(attrs, "@db.Uuid")
	}
	if len(attrs) > 0 {
		s += " " + strings.Join(attrs, " ")
	}
	return s
}

// relationDDL renders a foreign key as a Prisma relation field, deriving
// its name from the referenced table via inflect's singularize +
// camelize-down-first, matching Prisma's own relation-field convention
// (lowerCamel singular of the target model).
func relationDDL(fk ir.ForeignKey) string {
	fieldName := inflect.CamelizeDownFirst(inflect.Singularize(fk.RefTable))
	modelType := modelName(fk.RefTable)
	fields := strings.Join(fk.Columns, ", ")
	refs := strings.Join(fk.RefColumns, ", ")
	return fmt.Sprintf("%s %s @relation(fields: [%s], references: [%s])", fieldName, modelType, fields, refs)
}
