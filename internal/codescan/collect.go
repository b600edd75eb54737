// Package codescan enumerates Rust source files and applies line-level
// pattern rules, project structure checks and lint-directive checks.
// Checks operate on raw text lines, never on a parsed syntax tree.
package codescan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// sourceRoots are the recognized subdirectories searched for source files.
var sourceRoots = []string{"src", "tests", "examples", "benches"}

// CollectSourceFiles returns a deduplicated, sorted list of *.rs files
// under the recognized subdirectories of projectRoot. Directories that do
// not exist are skipped; traversal errors on individual entries are
// swallowed, enumeration is best effort and never fatal.
func CollectSourceFiles(projectRoot string) []string {
	seen := make(map[string]struct{})

	for _, root := range sourceRoots {
		dir := filepath.Join(projectRoot, root)
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ".rs") {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			seen[path] = struct{}{}
			return nil
		})
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}
