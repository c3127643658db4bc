package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/dbschema/dbschema/compiler"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/ir"
)

// newValidateCmd implements spec §6.4 "validate -- run A-H, print
// resource counts, exit 0 on success / 1 on error."
func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Compile the configuration and report resource counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir, err := homedir.Expand(flags.input)
			if err != nil {
				return cerr.New(cerr.KindIO, cerr.Location{File: flags.input}, "expanding --input path: %v", err)
			}

			result, err := compiler.Compile(fsLoader{}, rootDir, compiler.Options{
				Strict:   flags.strict,
				VarFiles: flags.varFiles,
				Vars:     flags.vars,
			})
			if err != nil {
				printErrorChain(err)
				return err
			}

			for _, w := range result.Warnings {
				color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s\n", w)
			}

			printCounts(result.Collection)
			color.New(color.FgGreen).Fprintln(os.Stdout, "configuration is valid")
			return nil
		},
	}
}

func printCounts(c *ir.Collection) {
	counts := compiler.Counts(c)
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Count"})
	for _, k := range names {
		if counts[k] == 0 {
			continue
		}
		table.Append([]string{k, fmt.Sprint(counts[k])})
	}
	table.Render()
}

func printErrorChain(err error) {
	for _, line := range errorChain(err) {
		color.New(color.FgRed).Fprintf(os.Stderr, "  - %s\n", line)
	}
}
