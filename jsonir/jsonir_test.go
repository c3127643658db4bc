package jsonir_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/ir"
	"github.com/dbschema/dbschema/jsonir"
	"github.com/dbschema/dbschema/value"
)

func TestMarshal_RoundTripsThroughStandardJSON(t *testing.T) {
	attrs := value.NewObject()
	attrs.Set("schedule", value.String("0 * * * *"))
	attrs.Set("retries", value.IntVal(3))

	c := &ir.Collection{
		Tables: []*ir.Table{
			{
				Meta: ir.Meta{Name: "users", Schema: "public"},
				Columns: []ir.Column{
					{Name: "id", Type: "uuid", Nullable: false},
				},
			},
		},
		Publications: []*ir.Generic{
			{Meta: ir.Meta{Name: "nightly_job"}, Kind: "publication", Attrs: attrs},
		},
	}

	out, err := jsonir.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	tables, ok := decoded["Tables"].([]any)
	require.True(t, ok)
	require.Len(t, tables, 1)

	pubs, ok := decoded["Publications"].([]any)
	require.True(t, ok)
	require.Len(t, pubs, 1)
	pub := pubs[0].(map[string]any)
	attrsOut := pub["Attrs"].(map[string]any)
	require.Equal(t, "0 * * * *", attrsOut["schedule"])
	require.Equal(t, float64(3), attrsOut["retries"])
}
