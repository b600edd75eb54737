// Package analyze orchestrates every check into one pipeline: manifest
// inspection, source scanning, dependency freshness and the vulnerability
// audit run concurrently, then merge into a single ordered finding set.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dokita/internal/audit"
	"dokita/internal/codescan"
	"dokita/internal/config"
	"dokita/internal/deps"
	"dokita/internal/diag"
	"dokita/internal/execx"
	"dokita/internal/manifest"
	"dokita/internal/observ"
)

// ErrProjectPathUnresolvable marks a path argument that does not name a
// usable directory.
var ErrProjectPathUnresolvable = errors.New("project path is not a directory")

// ErrNotCargoProject marks a path that resolves fine but holds no manifest.
var ErrNotCargoProject = errors.New("no Cargo.toml found in project root")

// Options configures one analysis run.
type Options struct {
	// ProjectRoot is the directory to analyze. Resolved to an absolute
	// path before use.
	ProjectRoot string

	// MaxFindings caps the merged finding set. Zero means no limit.
	MaxFindings int

	// Jobs bounds scanner parallelism. Zero means GOMAXPROCS.
	Jobs int

	// SkipNetwork disables registry freshness lookups.
	SkipNetwork bool

	// SkipAudit disables the vulnerability scan subprocess.
	SkipAudit bool

	// Runner executes external tools. Nil means run on the host.
	Runner execx.Runner

	// Versions answers registry lookups. Nil disables freshness checks
	// like SkipNetwork does.
	Versions deps.VersionSource

	// Progress receives stage events. Nil means no reporting.
	Progress ProgressSink

	// Timer collects per-stage durations when non-nil.
	Timer *observ.Timer

	Log zerolog.Logger
}

// Result is the outcome of a full analysis run.
type Result struct {
	// Bag holds the merged, sorted, config-filtered findings.
	Bag *diag.Bag

	// Suppressed counts findings dropped by configuration.
	Suppressed int

	// Manifest is the parsed project manifest.
	Manifest *manifest.Manifest
}

// Run executes every enabled check against the project and returns the
// merged finding set. An error return means analysis could not run at all;
// individual check failures degrade to findings instead.
func Run(ctx context.Context, opts Options) (*Result, error) {
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project path %q: %w", opts.ProjectRoot, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectPathUnresolvable, opts.ProjectRoot)
	}
	if _, err := os.Stat(filepath.Join(root, manifest.FileName)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCargoProject, root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		// A broken config file must not hide analysis results; fall back
		// to defaults and say so.
		opts.Log.Warn().Err(err).Msg("ignoring unusable config file")
		cfg = config.Config{}
	} else if _, statErr := os.Stat(filepath.Join(root, config.FileName)); statErr == nil {
		opts.Log.Debug().Str("file", config.FileName).Msg("using project configuration")
	}

	m, err := manifest.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifest.FileName, err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = execx.Local{}
	}

	bags := make([]*diag.Bag, 4)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(stage(opts, StageManifest, &bags[0], func() (*diag.Bag, error) {
		bag := diag.NewBag(opts.MaxFindings)
		for _, f := range manifest.CheckMetadata(m) {
			bag.Add(f)
		}
		for _, f := range manifest.CheckDependencyVersions(m) {
			bag.Add(f)
		}
		for _, f := range manifest.CheckEdition(m) {
			bag.Add(f)
		}
		return bag, nil
	}))

	g.Go(stage(opts, StageCode, &bags[1], func() (*diag.Bag, error) {
		files := codescan.CollectSourceFiles(root)
		bag := codescan.ScanPatterns(gctx, files, root, opts.MaxFindings, opts.Jobs)
		for _, f := range codescan.CheckProjectStructure(root, m) {
			bag.Add(f)
		}
		for _, f := range codescan.CheckDeniedLints(root) {
			bag.Add(f)
		}
		return bag, nil
	}))

	g.Go(stage(opts, StageDeps, &bags[2], func() (*diag.Bag, error) {
		bag := diag.NewBag(opts.MaxFindings)
		if opts.SkipNetwork || opts.Versions == nil {
			return bag, nil
		}
		resolved, err := deps.ResolveDirect(gctx, runner, root)
		if err != nil {
			// Without a resolved graph there is nothing to compare;
			// report why and move on.
			opts.Log.Warn().Err(err).Msg("skipping dependency freshness checks")
			return bag, nil
		}
		for _, f := range deps.CheckOutdated(gctx, opts.Log, opts.Versions, resolved) {
			bag.Add(f)
		}
		return bag, nil
	}))

	g.Go(stage(opts, StageAudit, &bags[3], func() (*diag.Bag, error) {
		bag := diag.NewBag(opts.MaxFindings)
		if opts.SkipAudit {
			return bag, nil
		}
		for _, f := range audit.CheckVulnerabilities(gctx, runner, root) {
			bag.Add(f)
		}
		return bag, nil
	}))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := diag.NewBag(opts.MaxFindings)
	for _, bag := range bags {
		merged.Merge(bag)
	}
	suppressed := merged.Filter(cfg.IsCheckEnabled)
	merged.Sort()

	return &Result{Bag: merged, Suppressed: suppressed, Manifest: m}, nil
}

// stage wraps one check branch with progress and timing bookkeeping.
func stage(opts Options, s Stage, slot **diag.Bag, fn func() (*diag.Bag, error)) func() error {
	return func() error {
		emit(opts.Progress, Event{Stage: s, Status: StatusWorking})
		idx := -1
		if opts.Timer != nil {
			idx = opts.Timer.Begin(string(s))
		}
		start := time.Now()

		bag, err := fn()

		elapsed := time.Since(start)
		if opts.Timer != nil {
			note := ""
			if bag != nil {
				note = fmt.Sprintf("%d findings", bag.Len())
			}
			opts.Timer.End(idx, note)
		}
		if err != nil {
			emit(opts.Progress, Event{Stage: s, Status: StatusError, Err: err, Elapsed: elapsed})
			return fmt.Errorf("%s stage: %w", s, err)
		}

		*slot = bag
		emit(opts.Progress, Event{Stage: s, Status: StatusDone, Elapsed: elapsed, Findings: bag.Len()})
		return nil
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
