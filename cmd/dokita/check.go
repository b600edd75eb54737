package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"dokita/internal/analyze"
	"dokita/internal/diagfmt"
	"dokita/internal/logging"
	"dokita/internal/observ"
	"dokita/internal/registry"
)

var (
	checkFormat   string
	checkJobs     int
	checkNoCache  bool
	checkOffline  bool
	checkNoAudit  bool
	checkProgress string
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "output format (human|json)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", runtime.GOMAXPROCS(0), "number of concurrent file scanners")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "bypass the registry response cache")
	checkCmd.Flags().BoolVar(&checkOffline, "offline", false, "skip checks that need network access")
	checkCmd.Flags().BoolVar(&checkNoAudit, "no-audit", false, "skip the cargo-audit vulnerability scan")
	checkCmd.Flags().StringVar(&checkProgress, "progress", "auto", "live progress display (auto|on|off)")
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze a Cargo project and report findings",
	Long: `Check runs every analyzer against the project at the given path
(default: the current directory) and prints the merged findings.

The process exits non-zero when any finding of Warning severity or above
remains after configuration filtering.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot := "."
		if len(args) == 1 {
			projectRoot = args[0]
		}

		flags := cmd.Root().PersistentFlags()
		colorMode, _ := flags.GetString("color")
		quiet, _ := flags.GetBool("quiet")
		verbose, _ := flags.GetBool("verbose")
		showTimings, _ := flags.GetBool("timings")
		maxFindings, _ := flags.GetInt("max-findings")

		configureColor(colorMode)
		log := logging.New(quiet, verbose)

		format := strings.ToLower(checkFormat)
		if format != "human" && format != "json" {
			return fmt.Errorf("invalid --format value %q (expected human|json)", checkFormat)
		}

		opts := analyze.Options{
			ProjectRoot: projectRoot,
			MaxFindings: maxFindings,
			Jobs:        checkJobs,
			SkipNetwork: checkOffline,
			SkipAudit:   checkNoAudit,
			Log:         log,
		}
		if !checkOffline {
			var cache *registry.DiskCache
			if !checkNoCache {
				var err error
				cache, err = registry.OpenDiskCache("dokita", registry.DefaultCacheTTL)
				if err != nil {
					log.Warn().Err(err).Msg("registry cache unavailable")
				}
			}
			opts.Versions = registry.NewClient(log, registry.WithCache(cache))
		}
		if showTimings {
			opts.Timer = observ.NewTimer()
		}

		useProgress, err := progressEnabled(checkProgress, format)
		if err != nil {
			return err
		}

		var res *analyze.Result
		if useProgress {
			res, err = runWithProgress(cmd.Context(), opts)
		} else {
			res, err = analyze.Run(cmd.Context(), opts)
		}
		if err != nil {
			return err
		}

		switch format {
		case "json":
			if err := diagfmt.JSON(os.Stdout, res.Bag); err != nil {
				return err
			}
		default:
			diagfmt.Human(os.Stdout, res.Bag)
			if res.Suppressed > 0 && !quiet {
				fmt.Fprintf(os.Stdout, "(%d findings suppressed by %s)\n", res.Suppressed, "configuration")
			}
		}

		if opts.Timer != nil {
			fmt.Fprint(os.Stderr, opts.Timer.Summary())
		}

		if res.Bag.HasBlocking() {
			os.Exit(1)
		}
		return nil
	},
}

func progressEnabled(mode, format string) (bool, error) {
	if format == "json" {
		// Progress frames would corrupt machine-readable output.
		return false, nil
	}
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --progress value %q (expected auto|on|off)", mode)
	}
}

type analyzeOutcome struct {
	res *analyze.Result
	err error
}

// runWithProgress drives the analysis behind a live terminal view.
func runWithProgress(ctx context.Context, opts analyze.Options) (*analyze.Result, error) {
	events := make(chan analyze.Event, 64)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = analyze.ChannelSink{Ch: events}
		res, err := analyze.Run(ctx, optsCopy)
		outcomeCh <- analyzeOutcome{res: res, err: err}
		close(events)
	}()

	uiErr := runProgressUI(events)
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.res, uiErr
	}
	return outcome.res, outcome.err
}
