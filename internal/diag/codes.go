package diag

// Code is a stable short identifier grouping a family of findings.
// Codes never change across runs for the same input: configuration
// filtering and tests key on them.
type Code string

const (
	// Code pattern checks
	CodeUnwrapInLibrary Code = "CODE001"
	CodeExpectInLibrary Code = "CODE002"
	CodeDebugOutput     Code = "CODE003"
	CodePendingWork     Code = "CODE004"

	// I/O during scanning
	IOFileRead Code = "IO001"

	// Manifest metadata
	MDMissingDescription Code = "MD001"
	MDMissingLicense     Code = "MD002"
	MDMissingRepository  Code = "MD003"
	MDReadme             Code = "MD004"
	MDMissingPackage     Code = "MD005"

	// Dependency checks
	DPWildcardVersion Code = "DP001"
	DPOutdated        Code = "DP002"
	APIFetchFailed    Code = "API001"

	// Edition checks
	EDOutdatedEdition Code = "ED001"
	EDMissingEdition  Code = "ED002"

	// Project structure
	StructMissingSources Code = "STRUCT001"
	StructMissingReadme  Code = "STRUCT002"
	StructMissingLicense Code = "STRUCT003"

	// Lint configuration
	LintMissingDeny Code = "LINT001"

	// Audit subprocess
	SecVulnerability Code = "SEC001"
	AuditToolError   Code = "AUD001"
	AuditAmbiguous   Code = "AUD002"
	AuditParseError  Code = "AUD003"
	AuditUnavailable Code = "AUD004"
)

// Gated reports whether a code participates in configuration filtering.
// Structural-existence findings are always reported.
func (c Code) Gated() bool {
	switch c {
	case StructMissingSources, StructMissingReadme, StructMissingLicense:
		return false
	}
	return true
}
