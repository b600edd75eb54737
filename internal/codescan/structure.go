package codescan

import (
	"os"
	"path/filepath"
	"strings"

	"dokita/internal/diag"
	"dokita/internal/manifest"
)

var licenseFileNames = []string{
	"LICENSE", "LICENSE.txt", "LICENSE-MIT", "LICENSE-APACHE", "COPYING", "UNLICENSE",
}

// CheckProjectStructure examines the filesystem for the files a published
// package is expected to carry. All of these are structural-existence
// findings: they are never config-gated.
func CheckProjectStructure(projectRoot string, m *manifest.Manifest) []diag.Finding {
	var findings []diag.Finding
	if m == nil || m.Package == nil {
		return findings
	}

	hasLibRS := isFile(filepath.Join(projectRoot, "src", "lib.rs"))
	hasMainRS := isFile(filepath.Join(projectRoot, "src", "main.rs"))
	hasBinDir := isDir(filepath.Join(projectRoot, "src", "bin"))

	// Heuristic: a src/<crate_name>.rs or src/lib.rs root means the crate
	// is intended as a library even without explicit [lib] configuration.
	defaultLibName := strings.ReplaceAll(m.Package.Name, "-", "_")
	isLikelyLibrary := hasLibRS || isFile(filepath.Join(projectRoot, "src", defaultLibName+".rs"))

	if !isLikelyLibrary && !hasMainRS && !hasBinDir {
		findings = append(findings, diag.New(
			diag.StructMissingSources,
			"Project has neither src/lib.rs, src/main.rs, nor src/bin/ directory. Is it a virtual workspace or missing source files?",
			diag.SevWarning,
			manifest.FileName,
		))
	}

	if !isFile(filepath.Join(projectRoot, "README.md")) && !isFile(filepath.Join(projectRoot, "README.rst")) {
		if !readmeHandledByManifest(projectRoot, m) {
			findings = append(findings, diag.New(
				diag.StructMissingReadme,
				"Missing README.md file in project root. Consider adding one.",
				diag.SevNote,
				filepath.Join(projectRoot, "README.md"),
			))
		}
	}

	if !hasLicenseFile(projectRoot) && m.Package.License == "" {
		findings = append(findings, diag.New(
			diag.StructMissingLicense,
			"Missing LICENSE file in project root. Consider adding one (e.g., LICENSE-MIT or LICENSE-APACHE).",
			diag.SevWarning,
			projectRoot,
		))
	}

	return findings
}

// readmeHandledByManifest reports whether the manifest either disables the
// readme explicitly (`readme = false`) or points at a file that exists.
func readmeHandledByManifest(projectRoot string, m *manifest.Manifest) bool {
	readme := m.Package.Readme
	if !readme.IsSet() {
		return false
	}
	if b, ok := readme.Bool(); ok {
		return !b
	}
	if s, ok := readme.Str(); ok {
		return isFile(filepath.Join(projectRoot, s))
	}
	return false
}

func hasLicenseFile(projectRoot string) bool {
	for _, name := range licenseFileNames {
		for _, variant := range []string{name, strings.ToUpper(name), strings.ToLower(name)} {
			if isFile(filepath.Join(projectRoot, variant)) {
				return true
			}
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
