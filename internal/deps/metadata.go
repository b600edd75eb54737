// Package deps resolves the project's dependency graph via `cargo metadata`
// and checks direct registry dependencies for freshness.
package deps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"dokita/internal/execx"
)

// cratesIOSource is the source identifier cargo assigns to crates.io
// packages. Dependencies from git or local paths carry other sources and
// are not candidates for registry lookups.
const cratesIOSource = "registry+https://github.com/rust-lang/crates.io-index"

// ResolvedDep is one direct dependency of the workspace, pinned to the
// concrete version cargo selected.
type ResolvedDep struct {
	Name    string
	Version string
}

type cargoMetadata struct {
	Packages []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"packages"`
	WorkspaceMembers []string `json:"workspace_members"`
	Resolve          *struct {
		Nodes []struct {
			ID   string `json:"id"`
			Deps []struct {
				Name string `json:"name"`
				Pkg  string `json:"pkg"`
			} `json:"deps"`
		} `json:"nodes"`
	} `json:"resolve"`
}

// ResolveDirect runs `cargo metadata` and returns the workspace's direct
// crates.io dependencies with their resolved versions, sorted by name.
func ResolveDirect(ctx context.Context, runner execx.Runner, projectRoot string) ([]ResolvedDep, error) {
	res, err := runner.Run(ctx, projectRoot, "cargo", "metadata", "--format-version", "1", "--quiet")
	if err != nil {
		return nil, fmt.Errorf("run cargo metadata: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("cargo metadata exited with code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}

	var meta cargoMetadata
	if err := json.Unmarshal(res.Stdout, &meta); err != nil {
		return nil, fmt.Errorf("parse cargo metadata output: %w", err)
	}
	if meta.Resolve == nil {
		return nil, fmt.Errorf("cargo metadata output carries no resolve graph")
	}

	pkgByID := make(map[string]int, len(meta.Packages))
	for i, p := range meta.Packages {
		pkgByID[p.ID] = i
	}
	members := make(map[string]struct{}, len(meta.WorkspaceMembers))
	for _, id := range meta.WorkspaceMembers {
		members[id] = struct{}{}
	}

	seen := make(map[string]ResolvedDep)
	for _, node := range meta.Resolve.Nodes {
		if _, ok := members[node.ID]; !ok {
			continue
		}
		for _, d := range node.Deps {
			i, ok := pkgByID[d.Pkg]
			if !ok {
				continue
			}
			pkg := meta.Packages[i]
			if pkg.Source != cratesIOSource {
				continue
			}
			seen[pkg.Name] = ResolvedDep{Name: pkg.Name, Version: pkg.Version}
		}
	}

	out := make([]ResolvedDep, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
