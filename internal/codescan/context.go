package codescan

import (
	"path/filepath"
	"strings"
)

// FileContext classifies a source file for the pattern rules.
type FileContext uint8

const (
	// ContextLibrary marks publishable/reusable code, subject to the
	// stricter stylistic rules.
	ContextLibrary FileContext = iota
	// ContextApplication marks entry points, binaries and build scripts,
	// exempt from the library-only rules.
	ContextApplication
)

// Classify decides the context of path within projectRoot. It is a pure
// function of the two paths; no I/O.
//
// Library context means: under src/, but not src/lib.rs (the library root
// is always exempt), not a main.rs entry point, not inside a bin/
// subdirectory, and not a build.rs build script. Everything else,
// including files under tests/, examples/ and benches/, is application
// context.
func Classify(path, projectRoot string) FileContext {
	srcDir := filepath.Join(projectRoot, "src")
	rel, err := filepath.Rel(srcDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ContextApplication
	}
	if rel == "lib.rs" {
		return ContextApplication
	}
	base := filepath.Base(path)
	if base == "main.rs" || base == "build.rs" {
		return ContextApplication
	}
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if seg == "bin" {
			return ContextApplication
		}
	}
	return ContextLibrary
}
