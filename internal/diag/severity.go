package diag

// Severity defines the importance of a finding.
type Severity uint8

const (
	// SevNote is for informational findings and best-practice suggestions.
	SevNote Severity = iota
	// SevWarning is for findings that should be fixed.
	SevWarning
	// SevError is for findings that must be fixed.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Blocking reports whether findings of this severity fail the run.
// Notes are informational only.
func (s Severity) Blocking() bool {
	return s >= SevWarning
}
