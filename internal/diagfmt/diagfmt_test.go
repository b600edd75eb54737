package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"dokita/internal/diag"
)

func testBag(t *testing.T) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SecVulnerability, "Vulnerability found in 'time'", diag.SevError, "Cargo.lock"))
	bag.Add(diag.New(diag.CodeUnwrapInLibrary, "Found .unwrap() in library code", diag.SevWarning, "src/lib.rs").WithLine(42))
	bag.Add(diag.New(diag.MDMissingRepository, "Missing repository field", diag.SevNote, "Cargo.toml"))
	bag.Sort()
	return bag
}

func TestJSONOutput(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, testBag(t)); err != nil {
		t.Fatal(err)
	}

	var parsed []FindingJSON
	if err := json.Unmarshal([]byte(buf.String()), &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 3 {
		t.Fatalf("parsed = %+v, want 3 findings", parsed)
	}

	for _, f := range parsed {
		if f.Code == "CODE001" {
			if f.Severity != "Warning" || f.FilePath != "src/lib.rs" || f.LineNumber != 42 {
				t.Fatalf("CODE001 entry = %+v", f)
			}
		}
	}
	// Findings without a line must omit the field entirely.
	if strings.Contains(buf.String(), `"line_number": 0`) {
		t.Fatalf("zero line numbers must be omitted:\n%s", buf.String())
	}
}

func TestJSONEmptyBagIsArray(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, diag.NewBag(0)); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Fatalf("empty bag output = %q, want []", got)
	}
}

func TestHumanOutput(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf strings.Builder
	Human(&buf, testBag(t))
	out := buf.String()

	if !strings.Contains(out, "Found 3 issues:") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] (SEC001): Vulnerability found in 'time' [Cargo.lock]") {
		t.Fatalf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "[WARNING] (CODE001): Found .unwrap() in library code [src/lib.rs:42]") {
		t.Fatalf("missing warning line with line number:\n%s", out)
	}
	if !strings.Contains(out, "[NOTE] (MD003)") {
		t.Fatalf("missing note line:\n%s", out)
	}
}

func TestHumanEmptyBag(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf strings.Builder
	Human(&buf, diag.NewBag(0))
	if !strings.Contains(buf.String(), "No issues found") {
		t.Fatalf("output = %q", buf.String())
	}
}
