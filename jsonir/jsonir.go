// Package jsonir serializes an ir.Collection to the JSON IR format of
// spec §6.3: a stable, machine-readable dump of the compiled schema for
// the out-of-scope live-DB test driver and ASP scenario generator to
// consume.
package jsonir

import (
	"encoding/json"

	"github.com/dbschema/dbschema/ir"
)

// Marshal renders c as indented JSON. Field order follows the struct
// definitions in package ir, which is stable across runs since
// encoding/json always emits struct fields in declaration order.
func Marshal(c *ir.Collection) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
