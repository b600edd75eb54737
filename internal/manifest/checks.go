package manifest

import (
	"fmt"
	"sort"

	"dokita/internal/diag"
)

// LatestStableEdition is the newest stable Rust edition.
// Update as new editions are released.
const LatestStableEdition = "2024"

// CheckMetadata validates presence and shape of the [package] metadata
// fields. A manifest without a [package] section yields one MD005 Error
// and skips the field checks.
func CheckMetadata(m *Manifest) []diag.Finding {
	var findings []diag.Finding

	pkg := m.Package
	if pkg == nil {
		findings = append(findings, diag.New(
			diag.MDMissingPackage,
			"Missing section [package]",
			diag.SevError,
			FileName,
		))
		return findings
	}

	if pkg.Description == "" {
		findings = append(findings, diag.New(
			diag.MDMissingDescription,
			"Missing 'description' in [package] section of Cargo.toml.",
			diag.SevWarning,
			FileName,
		))
	}
	if pkg.License == "" {
		findings = append(findings, diag.New(
			diag.MDMissingLicense,
			"Missing 'license' (or 'license-file') in [package] section of Cargo.toml.",
			diag.SevWarning,
			FileName,
		))
	}
	if pkg.Repository == "" {
		findings = append(findings, diag.New(
			diag.MDMissingRepository,
			"Missing 'repository' in [package] section of Cargo.toml.",
			diag.SevNote,
			FileName,
		))
	}

	switch {
	case !pkg.Readme.IsSet():
		findings = append(findings, diag.New(
			diag.MDReadme,
			"Missing 'readme' field in [package] section of Cargo.toml. Consider adding `readme = \"README.md\"` or `readme = false`.",
			diag.SevNote,
			FileName,
		))
	default:
		_, isStr := pkg.Readme.Str()
		b, isBool := pkg.Readme.Bool()
		if !isStr && !(isBool && !b) {
			findings = append(findings, diag.New(
				diag.MDReadme,
				"The 'readme' field in Cargo.toml has an unexpected value. Expected a file path string (e.g., \"README.md\") or `false`.",
				diag.SevWarning,
				FileName,
			))
		}
	}

	return findings
}

// CheckDependencyVersions flags wildcard "*" version requirements in each
// of the three dependency maps. Local path dependencies are exempt.
func CheckDependencyVersions(m *Manifest) []diag.Finding {
	var findings []diag.Finding
	checkDeps := func(deps map[string]Dependency, role string) {
		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dep := deps[name]
			if dep.IsLocal() {
				continue
			}
			if dep.Version == "*" {
				findings = append(findings, diag.New(
					diag.DPWildcardVersion,
					fmt.Sprintf("Wildcard version \"*\" used for %s dependency '%s'. Specify a version range.", role, name),
					diag.SevWarning,
					FileName,
				))
			}
		}
	}

	checkDeps(m.Dependencies, "runtime")
	checkDeps(m.DevDependencies, "dev")
	checkDeps(m.BuildDependencies, "build")
	return findings
}

// CheckEdition compares the declared edition with the latest stable one.
// Editions before 2018 were implicit, so a missing field means 2015.
func CheckEdition(m *Manifest) []diag.Finding {
	var findings []diag.Finding
	pkg := m.Package
	if pkg == nil {
		return findings
	}
	switch {
	case pkg.Edition == "":
		findings = append(findings, diag.New(
			diag.EDMissingEdition,
			fmt.Sprintf("Project does not specify a Rust edition (implicitly 2015), consider specifying and updating to '%s'.", LatestStableEdition),
			diag.SevNote,
			FileName,
		))
	case pkg.Edition != LatestStableEdition:
		findings = append(findings, diag.New(
			diag.EDOutdatedEdition,
			fmt.Sprintf("Project uses Rust edition '%s', consider updating to '%s'.", pkg.Edition, LatestStableEdition),
			diag.SevNote,
			FileName,
		))
	}
	return findings
}
