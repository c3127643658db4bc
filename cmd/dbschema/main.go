// Command dbschema is the CLI surface of spec §6.4: validate, create-
// migration, and fmt, wired on top of the compiler package. The file-
// loader/CLI-arg-parsing/dbschema.toml config-layering logic itself is a
// thin shell per spec §1 ("deliberately out of scope ... thin shells
// around the compiler") — this package supplies only the minimal
// concrete os.ReadFile-backed loader the compiler's injectable Loader
// interface requires to run end to end from a real filesystem.
package main

import (
	"fmt"
	"os"

	"github.com/dbschema/dbschema/internal/clog"
)

func main() {
	defer clog.Sync()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeOf(err))
	}
}
