package codescan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"dokita/internal/diag"
)

var denyLintRe = regexp.MustCompile(`#!\[deny\(([^)]+)\)\]`)

// recommendedDenials are the lints a top-level `#![deny(...)]` is expected
// to cover.
var recommendedDenials = []string{"warnings"}

// CheckDeniedLints scans the library root and the program entry point for
// a top-level deny directive covering the recommended lints. Files that do
// not exist or cannot be read are skipped.
func CheckDeniedLints(projectRoot string) []diag.Finding {
	var findings []diag.Finding
	candidates := []string{
		filepath.Join(projectRoot, "src", "lib.rs"),
		filepath.Join(projectRoot, "src", "main.rs"),
	}

	for _, path := range candidates {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		found := make(map[string]struct{})
		for _, m := range denyLintRe.FindAllStringSubmatch(string(content), -1) {
			for _, lint := range strings.Split(m[1], ",") {
				found[strings.TrimSpace(lint)] = struct{}{}
			}
		}

		for _, want := range recommendedDenials {
			if _, ok := found[want]; !ok {
				findings = append(findings, diag.New(
					diag.LintMissingDeny,
					fmt.Sprintf("Consider adding `#![deny(%s)]` to the top of %q for stricter linting.", want, filepath.Base(path)),
					diag.SevNote,
					path,
				))
			}
		}
	}
	return findings
}
