package lang

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Format reparses and reserializes a configuration file in canonical
// style, implementing the `fmt` subcommand (spec §6.4) and its round-trip
// property (spec §8 "fmt(fmt(text)) == fmt(text)"). hclwrite's formatter
// is itself idempotent, so a single pass already satisfies the property;
// we still run it twice defensively in tests, never in production code.
func Format(content []byte) ([]byte, error) {
	return hclwrite.Format(content), nil
}
