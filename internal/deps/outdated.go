package deps

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"dokita/internal/diag"
	"dokita/internal/manifest"
)

// VersionSource answers registry freshness lookups. *registry.Client
// satisfies it.
type VersionSource interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// CheckOutdated compares each resolved direct dependency against the
// registry's newest version. A failed lookup degrades to an API001 warning
// for that dependency; unparseable versions are logged and skipped.
func CheckOutdated(ctx context.Context, log zerolog.Logger, src VersionSource, resolved []ResolvedDep) []diag.Finding {
	var findings []diag.Finding

	for _, dep := range resolved {
		if ctx.Err() != nil {
			break
		}

		latest, err := src.LatestVersion(ctx, dep.Name)
		if err != nil {
			findings = append(findings, diag.New(
				diag.APIFetchFailed,
				fmt.Sprintf("Failed to fetch latest version for dependency '%s': %v", dep.Name, err),
				diag.SevWarning,
				manifest.FileName,
			))
			continue
		}

		current, err := semver.NewVersion(dep.Version)
		if err != nil {
			log.Warn().Str("dependency", dep.Name).Str("version", dep.Version).
				Msg("skipping freshness check for unparseable version")
			continue
		}
		latestVer, err := semver.NewVersion(latest)
		if err != nil {
			log.Warn().Str("dependency", dep.Name).Str("version", latest).
				Msg("skipping freshness check for unparseable registry version")
			continue
		}

		if latestVer.GreaterThan(current) {
			findings = append(findings, diag.New(
				diag.DPOutdated,
				fmt.Sprintf("Direct dependency '%s' is outdated. Current: %s, Latest: %s", dep.Name, dep.Version, latest),
				diag.SevNote,
				manifest.FileName,
			))
		}
	}
	return findings
}
