package resolve

import (
	"github.com/dbschema/dbschema/coerce"
	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/lang"
	"github.com/dbschema/dbschema/value"
)

// VarDecl is a parsed `variable "name" { type=... default=... validation
// {...} }` block (spec §3.5 declared_variables).
type VarDecl struct {
	Name        string
	Type        *value.Type
	Default     *value.Value
	Validations []coerce.ValidationRule
	Block       *lang.Block
}

// ResourceBlock is a non-variable/locals/data/module/output block, tagged
// with the id of the module it was declared in (spec §3.8 "IR records
// accumulate ... tagged by originating module id").
type ResourceBlock struct {
	ModuleID string
	Block    *lang.Block
	Scope    *eval.Scope
}

// Module is the in-memory record of spec §3.5, minus source_ast (folded
// into the resolver's working state rather than kept standalone).
type Module struct {
	ID                string
	Dir               string
	DeclaredVariables map[string]*VarDecl
	DeclaredOutputs   map[string]*lang.Block
	InputsFromCaller  map[string]value.Value
	ComputedOutputs   map[string]value.Value
}
