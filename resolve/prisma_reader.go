package resolve

import (
	"strings"

	"github.com/dbschema/dbschema/value"
)

// parsePrismaSchema is a minimal reader for the subset of Prisma schema
// syntax the `prisma_schema` data source needs to expose (spec §4.E/§6.6):
// model and enum block names, model field names/attributes, and enum
// values/block-level attributes. No example repo in the pack parses
// Prisma schemas (it is a narrow, single-direction format specific to
// this spec's data-source contract), so this is a small hand-rolled
// line-oriented reader rather than a pulled-in dependency — the emitter
// side (dbprisma) only ever writes this format, never reads it, so a
// full grammar-based parser has no other caller to justify its cost.
func parsePrismaSchema(content string) (value.Value, error) {
	models := value.NewObject()
	enums := value.NewObject()

	lines := strings.Split(content, "\n")
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(stripLineComment(lines[i]))
		i++
		switch {
		case strings.HasPrefix(line, "model "):
			name, body, next := readPrismaBlock(lines, i, line, "model ")
			models.Set(name, modelObject(name, body))
			i = next
		case strings.HasPrefix(line, "enum "):
			name, body, next := readPrismaBlock(lines, i, line, "enum ")
			enums.Set(name, enumObject(name, body))
			i = next
		}
	}

	root := value.NewObject()
	root.Set("models", value.ObjectVal(models))
	root.Set("enums", value.ObjectVal(enums))
	return value.ObjectVal(root), nil
}

func stripLineComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// readPrismaBlock reads a "kind Name {" ... "}" block starting at lines[i-1]
// (already consumed as headerLine) and returns the block name, its raw
// body lines, and the index just past the closing brace.
func readPrismaBlock(lines []string, i int, headerLine, prefix string) (name string, body []string, next int) {
	rest := strings.TrimPrefix(headerLine, prefix)
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "{")
	name = strings.TrimSpace(rest)
	for i < len(lines) {
		l := strings.TrimSpace(stripLineComment(lines[i]))
		i++
		if l == "}" {
			break
		}
		if l == "" {
			continue
		}
		body = append(body, l)
	}
	return name, body, i
}

func modelObject(name string, body []string) value.Value {
	fields := make([]value.Value, 0, len(body))
	var attrs []value.Value
	for _, l := range body {
		if strings.HasPrefix(l, "@@") {
			attrs = append(attrs, value.String(l))
			continue
		}
		parts := strings.Fields(l)
		if len(parts) == 0 {
			continue
		}
		fieldObj := value.NewObject()
		fieldObj.Set("name", value.String(parts[0]))
		if len(parts) > 1 {
			fieldObj.Set("type", value.String(parts[1]))
		}
		var fieldAttrs []value.Value
		for _, p := range parts[2:] {
			if strings.HasPrefix(p, "@") {
				fieldAttrs = append(fieldAttrs, value.String(p))
			}
		}
		fieldObj.Set("attributes", value.List(fieldAttrs...))
		fields = append(fields, value.ObjectVal(fieldObj))
	}
	obj := value.NewObject()
	obj.Set("name", value.String(name))
	obj.Set("fields", value.List(fields...))
	obj.Set("attributes", value.List(attrs...))
	return value.ObjectVal(obj)
}

func enumObject(name string, body []string) value.Value {
	var values []value.Value
	var attrs []value.Value
	for _, l := range body {
		if strings.HasPrefix(l, "@@") {
			attrs = append(attrs, value.String(l))
			continue
		}
		parts := strings.Fields(l)
		if len(parts) == 0 {
			continue
		}
		values = append(values, value.String(parts[0]))
	}
	obj := value.NewObject()
	obj.Set("name", value.String(name))
	obj.Set("values", value.List(values...))
	obj.Set("attributes", value.List(attrs...))
	return value.ObjectVal(obj)
}
