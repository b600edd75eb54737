package codescan

import (
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	root := filepath.Join("home", "proj")
	tests := []struct {
		name string
		path string
		want FileContext
	}{
		{"module in src", filepath.Join(root, "src", "module.rs"), ContextLibrary},
		{"nested module", filepath.Join(root, "src", "net", "client.rs"), ContextLibrary},
		{"library root exempt", filepath.Join(root, "src", "lib.rs"), ContextApplication},
		{"entry point", filepath.Join(root, "src", "main.rs"), ContextApplication},
		{"nested main.rs", filepath.Join(root, "src", "app", "main.rs"), ContextApplication},
		{"binaries dir", filepath.Join(root, "src", "bin", "tool.rs"), ContextApplication},
		{"build script", filepath.Join(root, "build.rs"), ContextApplication},
		{"integration test", filepath.Join(root, "tests", "it.rs"), ContextApplication},
		{"example", filepath.Join(root, "examples", "demo.rs"), ContextApplication},
		{"bench", filepath.Join(root, "benches", "bench.rs"), ContextApplication},
		{"outside project", filepath.Join("elsewhere", "x.rs"), ContextApplication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.path, root); got != tt.want {
				t.Fatalf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
