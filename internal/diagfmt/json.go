// Package diagfmt renders a sorted finding set for people and for tools.
package diagfmt

import (
	"encoding/json"
	"io"

	"dokita/internal/diag"
)

// FindingJSON is one finding in JSON output form.
type FindingJSON struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	FilePath   string `json:"file_path,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
}

// jsonSeverity maps severities to the mixed-case names tooling consumers
// match on.
func jsonSeverity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "Error"
	case diag.SevWarning:
		return "Warning"
	default:
		return "Note"
	}
}

// JSON writes the bag as a pretty-printed array. An empty bag writes an
// empty array, never null.
func JSON(w io.Writer, bag *diag.Bag) error {
	items := bag.Items()
	out := make([]FindingJSON, len(items))
	for i, f := range items {
		out[i] = FindingJSON{
			Code:       string(f.Code),
			Message:    f.Message,
			Severity:   jsonSeverity(f.Severity),
			FilePath:   f.FilePath,
			LineNumber: f.Line,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
