package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbschema/dbschema/expand"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// Warning is a non-fatal builder finding (spec §4.G "unknown attributes ...
// produce a non-fatal warning that lists them, unless strict mode").
type Warning struct {
	Kind    string
	Name    string
	Message string
}

// genericKinds lists every long-tail resource kind emitted via ir.Generic
// (spec §3.6's tail past the core table/view/function/trigger set).
var genericKinds = map[string]func(*Collection, *Generic){
	"aggregate":                func(c *Collection, g *Generic) { c.Aggregates = append(c.Aggregates, g) },
	"operator":                 func(c *Collection, g *Generic) { c.Operators = append(c.Operators, g) },
	"event_trigger":            func(c *Collection, g *Generic) { c.EventTriggers = append(c.EventTriggers, g) },
	"rule":                     func(c *Collection, g *Generic) { c.Rules = append(c.Rules, g) },
	"collation":                func(c *Collection, g *Generic) { c.Collations = append(c.Collations, g) },
	"policy":                   func(c *Collection, g *Generic) { c.Policies = append(c.Policies, g) },
	"role":                     func(c *Collection, g *Generic) { c.Roles = append(c.Roles, g) },
	"grant":                    func(c *Collection, g *Generic) { c.Grants = append(c.Grants, g) },
	"publication":              func(c *Collection, g *Generic) { c.Publications = append(c.Publications, g) },
	"subscription":             func(c *Collection, g *Generic) { c.Subscriptions = append(c.Subscriptions, g) },
	"foreign_data_wrapper":     func(c *Collection, g *Generic) { c.ForeignDataWrappers = append(c.ForeignDataWrappers, g) },
	"foreign_server":           func(c *Collection, g *Generic) { c.ForeignServers = append(c.ForeignServers, g) },
	"foreign_table":            func(c *Collection, g *Generic) { c.ForeignTables = append(c.ForeignTables, g) },
	"text_search_parser":       func(c *Collection, g *Generic) { c.TextSearchParsers = append(c.TextSearchParsers, g) },
	"text_search_dictionary":   func(c *Collection, g *Generic) { c.TextSearchDicts = append(c.TextSearchDicts, g) },
	"text_search_template":     func(c *Collection, g *Generic) { c.TextSearchTemplates = append(c.TextSearchTemplates, g) },
	"text_search_configuration": func(c *Collection, g *Generic) { c.TextSearchConfigs = append(c.TextSearchConfigs, g) },
	"statistics":               func(c *Collection, g *Generic) { c.Statistics = append(c.Statistics, g) },
	"test":                     func(c *Collection, g *Generic) { c.Tests = append(c.Tests, g) },
	"invariant":                func(c *Collection, g *Generic) { c.Invariants = append(c.Invariants, g) },
	"scenario":                 func(c *Collection, g *Generic) { c.Scenarios = append(c.Scenarios, g) },
}

// commonAttrs are accepted on every known top-level block kind regardless
// of which struct fields it maps to (spec §4.G's meta attributes, handled
// by newMeta rather than a per-kind case).
var commonAttrs = map[string]bool{"name": true, "schema": true, "lint_ignore": true}

// knownAttrsByKind lists the top-level attributes buildOne's switch
// actually reads for each recognized block kind. Anything else is an
// unknown attribute (spec §4.G/§7: warn in default mode, error in
// --strict). Kinds routed through genericKinds or the unknown-block-kind
// branch have no entry here and are exempt — their attributes all flow
// into ir.Generic.Attrs verbatim.
var knownAttrsByKind = map[string]map[string]bool{
	"schema":            {"if_not_exists": true},
	"enum":              {"values": true},
	"domain":            {"type": true, "not_null": true, "default": true, "check": true},
	"composite_type":    {},
	"sequence":          {"increment_by": true, "min_value": true, "max_value": true, "start_with": true, "cache": true, "cycle": true},
	"table":             {"if_not_exists": true},
	"index":             {"table": true, "columns": true, "unique": true, "method": true, "where": true, "if_not_exists": true},
	"view":              {"query": true, "replace": true},
	"materialized_view": {"query": true, "if_not_exists": true},
	"function":          {"args": true, "returns": true, "language": true, "body": true, "volatility": true, "replace": true},
	"procedure":         {"args": true, "language": true, "body": true, "replace": true},
	"trigger":           {"table": true, "timing": true, "events": true, "level": true, "function": true, "when": true},
	"extension":         {"version": true, "if_not_exists": true},
}

// checkUnknownAttrs reports any key of attrs not in known or commonAttrs.
func checkUnknownAttrs(kind, name string, attrs map[string]value.Value, known map[string]bool, loc cerr.Location, strict bool) ([]Warning, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []Warning
	for _, k := range keys {
		if commonAttrs[k] || known[k] {
			continue
		}
		msg := fmt.Sprintf("%s %q has unknown attribute %q", kind, name, k)
		if strict {
			return nil, cerr.New(cerr.KindUnknownAttribute, loc, "%s", msg)
		}
		warnings = append(warnings, Warning{Kind: kind, Name: name, Message: msg})
	}
	return warnings, nil
}

// Build maps expanded blocks into IR records (spec §4.G), applying
// defaults (schema="public", if_not_exists=true for tables, replace=true
// for functions/views, timing="BEFORE" for triggers).
func Build(blocks []*expand.Block, strict bool) (*Collection, []Warning, error) {
	c := &Collection{}
	var warnings []Warning
	for _, b := range blocks {
		w, err := buildOne(c, b, strict)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}
	return c, warnings, nil
}

func buildOne(c *Collection, b *expand.Block, strict bool) ([]Warning, error) {
	meta := newMeta(b)
	var warnings []Warning

	if known, ok := knownAttrsByKind[b.Kind]; ok {
		w, err := checkUnknownAttrs(b.Kind, b.Name, b.Attrs, known, b.Loc, strict)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	switch b.Kind {
	case "schema":
		c.Schemas = append(c.Schemas, &Schema{Meta: meta, IfNotExists: attrBool(b.Attrs, "if_not_exists", true)})
	case "enum":
		c.Enums = append(c.Enums, &Enum{Meta: meta, Values: attrStringList(b.Attrs["values"])})
	case "domain":
		c.Domains = append(c.Domains, &Domain{
			Meta:      meta,
			BaseType:  attrString(b.Attrs, "type", ""),
			NotNull:   attrBool(b.Attrs, "not_null", false),
			Default:   attrString(b.Attrs, "default", ""),
			CheckExpr: attrString(b.Attrs, "check", ""),
		})
	case "composite_type":
		var fields []CompositeField
		for _, fb := range b.Blocks {
			if fb.Kind == "field" {
				fields = append(fields, CompositeField{Name: fb.Name, Type: attrString(fb.Attrs, "type", "")})
			}
		}
		c.CompositeTypes = append(c.CompositeTypes, &CompositeType{Meta: meta, Fields: fields})
	case "sequence":
		c.Sequences = append(c.Sequences, &Sequence{
			Meta:        meta,
			IncrementBy: attrInt(b.Attrs, "increment_by", 1),
			MinValue:    attrOptInt(b.Attrs, "min_value"),
			MaxValue:    attrOptInt(b.Attrs, "max_value"),
			StartWith:   attrOptInt(b.Attrs, "start_with"),
			Cache:       attrOptInt(b.Attrs, "cache"),
			Cycle:       attrBool(b.Attrs, "cycle", false),
		})
	case "table":
		t, w, err := buildTable(b, meta, strict)
		if err != nil {
			return nil, err
		}
		c.Tables = append(c.Tables, t)
		warnings = append(warnings, w...)
	case "index":
		c.Indexes = append(c.Indexes, &Index{
			Meta:        meta,
			Table:       attrString(b.Attrs, "table", ""),
			Columns:     attrStringList(b.Attrs["columns"]),
			Unique:      attrBool(b.Attrs, "unique", false),
			Method:      attrString(b.Attrs, "method", "btree"),
			Where:       attrString(b.Attrs, "where", ""),
			IfNotExists: attrBool(b.Attrs, "if_not_exists", true),
		})
	case "view":
		c.Views = append(c.Views, &View{
			Meta:    meta,
			Query:   attrString(b.Attrs, "query", ""),
			Replace: attrBool(b.Attrs, "replace", true),
		})
	case "materialized_view":
		c.MaterializedViews = append(c.MaterializedViews, &MaterializedView{
			Meta:        meta,
			Query:       attrString(b.Attrs, "query", ""),
			IfNotExists: attrBool(b.Attrs, "if_not_exists", true),
		})
	case "function":
		c.Functions = append(c.Functions, &Function{
			Meta:       meta,
			Args:       buildArgs(b.Attrs["args"]),
			Returns:    attrString(b.Attrs, "returns", "void"),
			Language:   attrString(b.Attrs, "language", "plpgsql"),
			Body:       attrString(b.Attrs, "body", ""),
			Volatility: attrString(b.Attrs, "volatility", "volatile"),
			Replace:    attrBool(b.Attrs, "replace", true),
		})
	case "procedure":
		c.Procedures = append(c.Procedures, &Procedure{
			Meta:     meta,
			Args:     buildArgs(b.Attrs["args"]),
			Language: attrString(b.Attrs, "language", "plpgsql"),
			Body:     attrString(b.Attrs, "body", ""),
			Replace:  attrBool(b.Attrs, "replace", true),
		})
	case "trigger":
		c.Triggers = append(c.Triggers, &Trigger{
			Meta:     meta,
			Table:    attrString(b.Attrs, "table", ""),
			Timing:   strings.ToUpper(attrString(b.Attrs, "timing", "BEFORE")),
			Events:   upperAll(attrStringList(b.Attrs["events"])),
			Level:    strings.ToUpper(attrString(b.Attrs, "level", "ROW")),
			Function: attrString(b.Attrs, "function", ""),
			When:     attrString(b.Attrs, "when", ""),
		})
	case "extension":
		c.Extensions = append(c.Extensions, &Extension{
			Meta:        meta,
			Version:     attrString(b.Attrs, "version", ""),
			IfNotExists: attrBool(b.Attrs, "if_not_exists", true),
		})
	default:
		if add, ok := genericKinds[b.Kind]; ok {
			obj := value.NewObject()
			for k, v := range b.Attrs {
				obj.Set(k, v)
			}
			add(c, &Generic{Meta: meta, Kind: b.Kind, Attrs: obj})
			return warnings, nil
		}
		if strict {
			return nil, cerr.New(cerr.KindUnknownAttribute, b.Loc, "unknown block kind %q", b.Kind)
		}
		warnings = append(warnings, Warning{Kind: b.Kind, Name: b.Name, Message: fmt.Sprintf("unknown block kind %q ignored", b.Kind)})
	}
	return warnings, nil
}

// nestedKnownAttrsByKind mirrors knownAttrsByKind for table's child block
// kinds (spec §4.G applies the same unknown-attribute rule one level down).
var nestedKnownAttrsByKind = map[string]map[string]bool{
	"column":      {"type": true, "nullable": true, "default": true, "collation": true},
	"primary_key": {"columns": true},
	"foreign_key": {"columns": true, "ref_table": true, "ref_schema": true, "ref_columns": true, "on_delete": true, "on_update": true},
	"check":       {"expr": true},
}

func buildTable(b *expand.Block, meta Meta, strict bool) (*Table, []Warning, error) {
	var warnings []Warning
	t := &Table{Meta: meta, IfNotExists: attrBool(b.Attrs, "if_not_exists", true)}
	for _, cb := range b.Blocks {
		if known, ok := nestedKnownAttrsByKind[cb.Kind]; ok {
			w, err := checkUnknownAttrs(cb.Kind, cb.Name, cb.Attrs, known, cb.Loc, strict)
			if err != nil {
				return nil, nil, err
			}
			warnings = append(warnings, w...)
		}
		switch cb.Kind {
		case "column":
			_, hasDefault := cb.Attrs["default"]
			t.Columns = append(t.Columns, Column{
				Name:       cb.Name,
				Type:       attrString(cb.Attrs, "type", ""),
				Nullable:   attrBool(cb.Attrs, "nullable", true),
				Default:    attrString(cb.Attrs, "default", ""),
				HasDefault: hasDefault,
				Collation:  attrString(cb.Attrs, "collation", ""),
			})
		case "primary_key":
			t.PrimaryKey = &PrimaryKey{Columns: attrStringList(cb.Attrs["columns"])}
		case "foreign_key":
			t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
				Name:       cb.Name,
				Columns:    attrStringList(cb.Attrs["columns"]),
				RefTable:   attrString(cb.Attrs, "ref_table", ""),
				RefSchema:  attrString(cb.Attrs, "ref_schema", meta.Schema),
				RefColumns: attrStringList(cb.Attrs["ref_columns"]),
				OnDelete:   strings.ToUpper(attrString(cb.Attrs, "on_delete", "")),
				OnUpdate:   strings.ToUpper(attrString(cb.Attrs, "on_update", "")),
			})
		case "check":
			t.Checks = append(t.Checks, Check{Name: cb.Name, Expr: attrString(cb.Attrs, "expr", "")})
		default:
			if strict {
				warnings = append(warnings, Warning{Kind: "table", Name: t.Name, Message: fmt.Sprintf("unknown nested block %q", cb.Kind)})
			}
		}
	}
	return t, warnings, nil
}

func newMeta(b *expand.Block) Meta {
	schema := attrString(b.Attrs, "schema", "public")
	lintIgnore := make(map[string]bool)
	for _, l := range attrStringList(b.Attrs["lint_ignore"]) {
		lintIgnore[l] = true
	}
	return Meta{Name: b.Name, Schema: schema, LintIgnore: lintIgnore, Loc: b.Loc, ModuleID: b.ModuleID}
}

func buildArgs(v value.Value) []FunctionArg {
	if v.Kind() != value.KindList {
		return nil
	}
	var out []FunctionArg
	for _, item := range v.List() {
		if item.Kind() != value.KindObject {
			continue
		}
		obj := item.Object()
		name, _ := obj.Get("name")
		typ, _ := obj.Get("type")
		out = append(out, FunctionArg{Name: safeStr(name), Type: safeStr(typ)})
	}
	return out
}

func safeStr(v value.Value) string {
	s, err := v.ToString()
	if err != nil {
		return ""
	}
	return s
}

func attrString(attrs map[string]value.Value, key, def string) string {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	s, err := v.ToString()
	if err != nil {
		return def
	}
	return s
}

func attrBool(attrs map[string]value.Value, key string, def bool) bool {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	b, err := v.ToBool()
	if err != nil {
		return def
	}
	return b
}

func attrInt(attrs map[string]value.Value, key string, def int64) int64 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	n, err := v.ToNumber()
	if err != nil {
		return def
	}
	return n.Int64()
}

func attrOptInt(attrs map[string]value.Value, key string) *int64 {
	v, ok := attrs[key]
	if !ok || v.IsNull() {
		return nil
	}
	n, err := v.ToNumber()
	if err != nil {
		return nil
	}
	i := n.Int64()
	return &i
}

func attrStringList(v value.Value) []string {
	if v.Kind() != value.KindList {
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

func upperAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}
