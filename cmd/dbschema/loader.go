package main

import (
	"os"
)

// fsLoader is the minimal concrete resolve.Loader the CLI needs to run
// the compiler against a real filesystem (spec §6.2's injectable
// `load(path) -> string | NotFound` contract, implemented here with
// os.ReadFile/os.ReadDir rather than a network or in-memory backend).
type fsLoader struct{}

func (fsLoader) Load(path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (fsLoader) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
