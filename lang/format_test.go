package lang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/lang"
)

// TestFormat_Idempotent implements spec §8's fmt(fmt(text)) == fmt(text).
func TestFormat_Idempotent(t *testing.T) {
	src := []byte(`table   "users"   {
  schema="public"
    column "id" { type = "serial"
    nullable=false }
}
`)

	once, err := lang.Format(src)
	require.NoError(t, err)

	twice, err := lang.Format(once)
	require.NoError(t, err)

	require.Equal(t, string(once), string(twice))
}

func TestFormat_PreservesSemanticContent(t *testing.T) {
	src := []byte(`table "users" { schema = "public" }`)
	out, err := lang.Format(src)
	require.NoError(t, err)
	require.Contains(t, string(out), `table "users"`)
	require.Contains(t, string(out), `schema = "public"`)
}
