// Package audit shells out to `cargo audit` and translates its JSON report
// into findings. The tool being absent or broken is itself a reportable
// condition, never a fatal error.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dokita/internal/diag"
	"dokita/internal/execx"
)

// LockFileName is the pinned dependency file `cargo audit` inspects.
const LockFileName = "Cargo.lock"

type auditReport struct {
	Vulnerabilities struct {
		Count int `json:"count"`
		List  []struct {
			Advisory struct {
				ID      string `json:"id"`
				Package string `json:"package"`
				Title   string `json:"title"`
			} `json:"advisory"`
			Package struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"package"`
			Versions struct {
				Patched []string `json:"patched"`
			} `json:"versions"`
		} `json:"list"`
	} `json:"vulnerabilities"`
}

// CheckVulnerabilities runs `cargo audit --json` in the project root and
// reports each known vulnerability. Tool failures degrade to warnings so a
// machine without cargo-audit installed still produces a useful report.
func CheckVulnerabilities(ctx context.Context, runner execx.Runner, projectRoot string) []diag.Finding {
	res, err := runner.Run(ctx, projectRoot, "cargo", "audit", "--json", "--quiet")
	if err != nil {
		return []diag.Finding{diag.New(
			diag.AuditUnavailable,
			fmt.Sprintf("Could not run cargo-audit: %v. Install it with `cargo install cargo-audit` to enable vulnerability scanning.", err),
			diag.SevWarning,
			LockFileName,
		)}
	}

	// cargo audit exits non-zero both for real failures and for "found
	// vulnerabilities". Only an empty stdout marks a tool failure; with
	// output present the report decides.
	if len(res.Stdout) == 0 {
		if res.ExitCode != 0 {
			return []diag.Finding{diag.New(
				diag.AuditToolError,
				fmt.Sprintf("cargo audit failed (exit code %d): %s", res.ExitCode, firstLine(res.Stderr)),
				diag.SevWarning,
				LockFileName,
			)}
		}
		return nil
	}

	var report auditReport
	if err := json.Unmarshal(res.Stdout, &report); err != nil {
		if res.ExitCode != 0 {
			return []diag.Finding{diag.New(
				diag.AuditParseError,
				fmt.Sprintf("cargo audit produced unreadable output (exit code %d): %v", res.ExitCode, err),
				diag.SevWarning,
				LockFileName,
			)}
		}
		return []diag.Finding{diag.New(
			diag.AuditParseError,
			fmt.Sprintf("cargo audit produced unreadable output: %v", err),
			diag.SevWarning,
			LockFileName,
		)}
	}

	if len(report.Vulnerabilities.List) == 0 {
		if res.ExitCode != 0 {
			// Non-zero exit but a clean report: cargo audit also fails
			// on yanked crates and unsound advisories we do not model.
			return []diag.Finding{diag.New(
				diag.AuditAmbiguous,
				fmt.Sprintf("cargo audit exited with code %d but reported no vulnerabilities. Run `cargo audit` directly for details.", res.ExitCode),
				diag.SevWarning,
				LockFileName,
			)}
		}
		return nil
	}

	findings := make([]diag.Finding, 0, len(report.Vulnerabilities.List))
	for _, v := range report.Vulnerabilities.List {
		patched := "none"
		if len(v.Versions.Patched) > 0 {
			patched = strings.Join(v.Versions.Patched, ", ")
		}
		findings = append(findings, diag.New(
			diag.SecVulnerability,
			fmt.Sprintf("Vulnerability found in '%s': %s (ID: %s). Patched in: %s.",
				v.Package.Name, v.Advisory.Title, v.Advisory.ID, patched),
			diag.SevError,
			LockFileName,
		))
	}
	return findings
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
