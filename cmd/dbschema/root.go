package main

import (
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/internal/clog"
	"github.com/dbschema/dbschema/resolve"
)

// buildVersion is overridden at link time (-ldflags "-X main.buildVersion=...");
// it is compared against an optional `dbschema { required_version = "..." }`
// root block via golang.org/x/mod/semver, the same library cmd/atlas uses
// for its own update-check comparisons.
var buildVersion = "v0.0.0-dev"

type globalFlags struct {
	input    string
	strict   bool
	vars     []string
	varFiles []string
	include  []string
	exclude  []string
	jsonLog  bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "dbschema",
		Short:         "Compile a declarative database configuration into DDL, Prisma schema, or JSON IR",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if flags.strict {
				level = "debug"
			}
			_ = clog.Init(clog.Config{Level: level, JSON: flags.jsonLog})
			return checkRequiredVersion(flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.input, "input", ".", "root module directory (a file path is not accepted)")
	root.PersistentFlags().BoolVar(&flags.strict, "strict", false, "fail on unknown attributes, block kinds and column types instead of warning")
	root.PersistentFlags().StringArrayVar(&flags.vars, "var", nil, "variable override k=v (repeatable)")
	root.PersistentFlags().StringArrayVar(&flags.varFiles, "var-file", nil, "HCL file of variable overrides (repeatable)")
	root.PersistentFlags().StringArrayVar(&flags.include, "include", nil, "only emit these resource kinds (repeatable)")
	root.PersistentFlags().StringArrayVar(&flags.exclude, "exclude", nil, "never emit these resource kinds (repeatable)")
	root.PersistentFlags().BoolVar(&flags.jsonLog, "json-log", false, "emit logs as JSON lines instead of console text")

	root.AddCommand(newValidateCmd(flags))
	root.AddCommand(newCreateMigrationCmd(flags))
	root.AddCommand(newFmtCmd())

	return root
}

// checkRequiredVersion expands --var-file's sibling tilde paths (and the
// root module's) via go-homedir, then compares an optional root
// `dbschema { required_version = "..." }` against buildVersion.
func checkRequiredVersion(flags *globalFlags) error {
	for i, p := range flags.varFiles {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return cerr.New(cerr.KindIO, cerr.Location{File: p}, "expanding --var-file path: %v", err)
		}
		flags.varFiles[i] = expanded
	}

	rootDir, err := homedir.Expand(flags.input)
	if err != nil {
		return cerr.New(cerr.KindIO, cerr.Location{File: flags.input}, "expanding --input path: %v", err)
	}

	required, ok, err := resolve.PeekRequiredVersion(fsLoader{}, rootDir)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if len(required) > 0 && required[0] != 'v' {
		required = "v" + required
	}
	if !semver.IsValid(required) {
		return cerr.New(cerr.KindParse, cerr.Location{}, "required_version %q is not a valid semver constraint", required)
	}
	if semver.Compare(buildVersion, required) < 0 {
		return fmt.Errorf("dbschema %s does not satisfy required_version %s", buildVersion, required)
	}
	return nil
}

func exitCodeOf(err error) int {
	return cerr.ExitCode(err)
}
