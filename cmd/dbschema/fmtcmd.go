package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/lang"
)

// newFmtCmd implements spec §6.4 "fmt [paths...] -- reparse and
// reserialize configuration files in-place", and spec §7's carve-out:
// "the fmt subcommand, which only needs A, reports errors per-file and
// continues processing the remaining files" (unlike every other
// subcommand, a single file's parse failure does not abort the run).
func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Reformat configuration files in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if err := formatFile(path); err != nil {
					failed = true
					color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", path, err)
					continue
				}
			}
			if failed {
				return fmt.Errorf("fmt encountered errors")
			}
			return nil
		},
	}
}

func formatFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := lang.Format(content)
	if err != nil {
		return err
	}
	if string(formatted) == string(content) {
		return nil
	}
	return os.WriteFile(path, formatted, 0o644)
}
