package diag

// Finding is one reported issue: a stable code, a severity, a human
// message and an optional file location. Findings are immutable after
// construction except for attaching a line number.
type Finding struct {
	Code     Code
	Message  string
	Severity Severity
	FilePath string // optional; project-relative or absolute
	Line     int    // 1-indexed; 0 means no line information
}

// New constructs a finding. filePath may be empty.
func New(code Code, msg string, sev Severity, filePath string) Finding {
	return Finding{
		Code:     code,
		Message:  msg,
		Severity: sev,
		FilePath: filePath,
	}
}

// WithLine returns a copy of the finding with a 1-indexed line attached.
func (f Finding) WithLine(line int) Finding {
	f.Line = line
	return f
}
