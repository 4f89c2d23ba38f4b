// Package ident turns source-level names into the stable 64-bit identifiers
// the VM uses to key variable bindings and namespace path segments.
package ident

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hash lowercases name (ASCII case-fold, matching the source language's
// case-insensitive variable and path lookup) and hashes it with a fixed,
// deterministic 64-bit function. The result is stable across runs and
// processes, which is required for ahead-of-time compiled programs to
// reference variables and namespace entries by identifier.
func Hash(name string) uint64 {
	return xxhash.Sum64String(strings.ToLower(name))
}

// Path hashes a full namespace path (e.g. ["echo", "console", "quit"]) the
// same way a single name is hashed, joining segments with a separator that
// cannot appear in a lowercased identifier. Used to key the function cache.
func Path(path []string) uint64 {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(strings.ToLower(seg))
	}
	return xxhash.Sum64String(b.String())
}
