package codescan

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"dokita/internal/diag"
)

var (
	unwrapRe      = regexp.MustCompile(`\.unwrap\(\)`)
	expectRe      = regexp.MustCompile(`\.expect\s*\(`)
	debugOutputRe = regexp.MustCompile(`(println!|dbg!)\s*\(`)
	pendingWorkRe = regexp.MustCompile(`//\s*(TODO|FIXME|XXX)`)
)

// ScanPatterns applies the line-level rules to every file, in parallel.
// Files are independent: each goroutine fills its own result slot and the
// slots are merged in input order, so findings within one file stay in
// ascending line order while cross-file order follows the input list.
func ScanPatterns(ctx context.Context, files []string, projectRoot string, maxFindings, jobs int) *diag.Bag {
	merged := diag.NewBag(maxFindings)
	if len(files) == 0 {
		return merged
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([][]diag.Finding, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = scanFile(path, projectRoot)
			return nil
		})
	}

	// The workers only return an error on cancellation; partial results
	// are still merged so the caller sees whatever completed.
	_ = g.Wait()

	for _, findings := range results {
		for _, f := range findings {
			merged.Add(f)
		}
	}
	return merged
}

// scanFile reads one file and applies every rule to every line.
// On read failure one IO001 finding is emitted and the file is skipped,
// with no partial line scanning.
func scanFile(path, projectRoot string) []diag.Finding {
	var findings []diag.Finding

	libContext := Classify(path, projectRoot) == ContextLibrary

	content, err := os.ReadFile(path)
	if err != nil {
		return append(findings, diag.New(
			diag.IOFileRead,
			fmt.Sprintf("Failed to read file %q: %v", path, err),
			diag.SevWarning,
			path,
		))
	}

	lines := strings.Split(string(content), "\n")
	for idx, line := range lines {
		lineNo := idx + 1

		if libContext && unwrapRe.MatchString(line) {
			findings = append(findings, diag.New(
				diag.CodeUnwrapInLibrary,
				"'.unwrap()' used in library context. Consider using '?' or pattern matching.",
				diag.SevWarning,
				path,
			).WithLine(lineNo))
		}

		if libContext && expectRe.MatchString(line) {
			findings = append(findings, diag.New(
				diag.CodeExpectInLibrary,
				"'.expect()' used in library context. While better than unwrap, prefer '?' or specific error handling.",
				diag.SevNote,
				path,
			).WithLine(lineNo))
		}

		if libContext && debugOutputRe.MatchString(line) {
			findings = append(findings, diag.New(
				diag.CodeDebugOutput,
				"Diagnostic macro (println! or dbg!) found in library context. Remove before release.",
				diag.SevNote,
				path,
			).WithLine(lineNo))
		}

		// Pending-work comments fire in every file regardless of context.
		if m := pendingWorkRe.FindStringSubmatch(line); m != nil {
			findings = append(findings, diag.New(
				diag.CodePendingWork,
				fmt.Sprintf("Found '%s' comment. Address or create an issue for it.", m[1]),
				diag.SevNote,
				path,
			).WithLine(lineNo))
		}
	}

	return findings
}
