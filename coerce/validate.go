package coerce

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// ValidationRule is one `validation { condition = ... error_message = ... }`
// block attached to a `variable` declaration (spec §4.D).
type ValidationRule struct {
	Condition    hclsyntax.Expression
	ErrorMessage hclsyntax.Expression
}

// RunValidations evaluates each rule's condition with varName bound to
// value in scope, failing with VariableValidation on the first rule whose
// condition is false (spec §4.D / §8 scenario 2).
func RunValidations(rules []ValidationRule, varName string, val value.Value, scope *eval.Scope, loc cerr.Location) error {
	for _, r := range rules {
		child := scope.Child()
		varObj := value.NewObject()
		varObj.Set(varName, val)
		child.Set("var", value.ObjectVal(varObj))
		cond, err := eval.Eval(r.Condition, child)
		if err != nil {
			return err
		}
		if cond.Kind() != value.KindBool {
			return cerr.New(cerr.KindTypeMismatch, loc, "validation condition for %q must be a bool, got %s", varName, cond.Kind())
		}
		if cond.Bool() {
			continue
		}
		msg := "validation failed"
		if r.ErrorMessage != nil {
			mv, err := eval.Eval(r.ErrorMessage, child)
			if err != nil {
				return err
			}
			if s, err := mv.ToString(); err == nil {
				msg = s
			}
		}
		return cerr.New(cerr.KindVariableValidation, loc, "%s", msg).WithField("var", varName)
	}
	return nil
}
