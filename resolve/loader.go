// Package resolve implements the module/data-source resolver of spec
// §4.E: loading the root file and every reachable module in a
// deterministic order, threading variable/local/data bindings through a
// Scope, detecting module cycles, and producing the flat stream of
// resource-kind blocks the block expander (package expand) and IR
// builder (package ir) consume next.
package resolve

// Loader is the injectable file-access contract of spec §6.2/§5: "the
// compiler never opens files directly". Load returns (content, false) for
// a path that does not exist, never an error, matching the spec's
// `load(path) -> string | NotFound` contract. ListDir returns the names
// of configuration files directly inside dir, which the resolver sorts
// lexicographically itself (determinism requirement, §5) before parsing.
type Loader interface {
	Load(path string) ([]byte, bool)
	ListDir(dir string) ([]string, error)
}
