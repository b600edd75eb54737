package codescan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dokita/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func codesOf(bag *diag.Bag) map[diag.Code]int {
	counts := make(map[diag.Code]int)
	for _, f := range bag.Items() {
		counts[f.Code]++
	}
	return counts
}

const libraryContent = `fn helper() {
    let result = some_operation().unwrap();
    let other = another_op().expect("failed");
    println!("debug output");
    // TODO: fix this later
}
`

func TestScanPatternsLibraryContext(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "module.rs")
	writeFile(t, path, libraryContent)

	bag := ScanPatterns(context.Background(), []string{path}, root, 100, 1)

	counts := codesOf(bag)
	for _, code := range []diag.Code{
		diag.CodeUnwrapInLibrary,
		diag.CodeExpectInLibrary,
		diag.CodeDebugOutput,
		diag.CodePendingWork,
	} {
		if counts[code] != 1 {
			t.Fatalf("count[%s] = %d, want 1 (all: %+v)", code, counts[code], counts)
		}
	}

	wantLines := map[diag.Code]int{
		diag.CodeUnwrapInLibrary: 2,
		diag.CodeExpectInLibrary: 3,
		diag.CodeDebugOutput:     4,
		diag.CodePendingWork:     5,
	}
	wantSevs := map[diag.Code]diag.Severity{
		diag.CodeUnwrapInLibrary: diag.SevWarning,
		diag.CodeExpectInLibrary: diag.SevNote,
		diag.CodeDebugOutput:     diag.SevNote,
		diag.CodePendingWork:     diag.SevNote,
	}
	for _, f := range bag.Items() {
		if f.Line != wantLines[f.Code] {
			t.Errorf("%s at line %d, want %d", f.Code, f.Line, wantLines[f.Code])
		}
		if f.Severity != wantSevs[f.Code] {
			t.Errorf("%s severity %s, want %s", f.Code, f.Severity, wantSevs[f.Code])
		}
	}
}

func TestScanPatternsApplicationContext(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		filepath.Join("src", "main.rs"),
		filepath.Join("src", "bin", "tool.rs"),
		filepath.Join("src", "lib.rs"),
	} {
		path := filepath.Join(root, rel)
		writeFile(t, path, libraryContent)

		bag := ScanPatterns(context.Background(), []string{path}, root, 100, 1)
		counts := codesOf(bag)

		if counts[diag.CodeUnwrapInLibrary] != 0 || counts[diag.CodeExpectInLibrary] != 0 || counts[diag.CodeDebugOutput] != 0 {
			t.Fatalf("%s: context-restricted rules fired: %+v", rel, counts)
		}
		if counts[diag.CodePendingWork] != 1 {
			t.Fatalf("%s: pending-work rule must fire everywhere: %+v", rel, counts)
		}
	}
}

func TestScanPatternsBuildScript(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "build.rs")
	writeFile(t, path, libraryContent)

	bag := ScanPatterns(context.Background(), []string{path}, root, 100, 1)
	counts := codesOf(bag)
	if counts[diag.CodeUnwrapInLibrary] != 0 || counts[diag.CodeDebugOutput] != 0 {
		t.Fatalf("build script must be exempt from library rules: %+v", counts)
	}
	if counts[diag.CodePendingWork] != 1 {
		t.Fatalf("pending-work must fire in build script: %+v", counts)
	}
}

func TestScanPatternsReadFailure(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "src", "nope.rs")

	bag := ScanPatterns(context.Background(), []string{missing}, root, 100, 1)
	if bag.Len() != 1 {
		t.Fatalf("findings = %+v, want exactly one", bag.Items())
	}
	f := bag.Items()[0]
	if f.Code != diag.IOFileRead || f.Severity != diag.SevWarning || f.FilePath != missing {
		t.Fatalf("finding = %+v", f)
	}
}

func TestScanPatternsParallel(t *testing.T) {
	root := t.TempDir()
	var files []string
	for i := 0; i < 10; i++ {
		path := filepath.Join(root, "src", fmt.Sprintf("module_%d.rs", i))
		writeFile(t, path, "// TODO: implement\nfn f() { x().unwrap(); }\n")
		files = append(files, path)
	}

	bag := ScanPatterns(context.Background(), files, root, 1000, 4)
	counts := codesOf(bag)
	if counts[diag.CodeUnwrapInLibrary] != 10 || counts[diag.CodePendingWork] != 10 {
		t.Fatalf("counts = %+v, want 10 of each", counts)
	}

	// Within one file, findings must stay in ascending line order.
	lastLine := make(map[string]int)
	for _, f := range bag.Items() {
		if f.Line < lastLine[f.FilePath] {
			t.Fatalf("line order regressed in %s: %d after %d", f.FilePath, f.Line, lastLine[f.FilePath])
		}
		lastLine[f.FilePath] = f.Line
	}
}

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "lib.rs"), "// lib")
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}")
	writeFile(t, filepath.Join(root, "tests", "it.rs"), "// test")
	writeFile(t, filepath.Join(root, "examples", "demo.rs"), "fn main() {}")
	writeFile(t, filepath.Join(root, "src", "config.toml"), "[package]")
	writeFile(t, filepath.Join(root, "build.rs"), "fn main() {}")

	files := CollectSourceFiles(root)
	if len(files) != 4 {
		t.Fatalf("files = %v, want 4", files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".rs" {
			t.Fatalf("non-source file collected: %s", f)
		}
		if filepath.Base(f) == "build.rs" {
			t.Fatalf("root build.rs must not be collected: %v", files)
		}
	}
}

func TestCollectSourceFilesMissingDirs(t *testing.T) {
	if files := CollectSourceFiles(t.TempDir()); len(files) != 0 {
		t.Fatalf("files = %v, want none", files)
	}
}
