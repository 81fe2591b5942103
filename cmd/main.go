package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/okian/scoreboard/internal/adapters/feed"
	"github.com/okian/scoreboard/internal/adapters/mq/queue"
	app "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/testevents"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
	"github.com/spf13/cobra"
)

const (
	drainTimeout = 30 * time.Second
	retryBackoff = time.Millisecond
)

// Build information injected via ldflags.
var version = "dev"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scoreboard",
		Short:         "Live match scoreboard",
		Long:          `Tracks matches between registered teams and ranks the ones in progress by total score.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newReplayCmd(), newGenerateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scoreboard %s\n", version)
		},
	}
}

type replayOptions struct {
	configPath    string
	dumpMetrics   bool
	expectOrdered bool
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Apply a YAML match feed and print the scoreboard",
		Long: `Decode a match feed, apply every event in order through the feed queue,
then print the ranked summary and the run statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: $SCOREBOARD_CONFIG)")
	cmd.Flags().BoolVar(&opts.dumpMetrics, "metrics", false,
		"print Prometheus metrics after the summary")
	cmd.Flags().BoolVar(&opts.expectOrdered, "expect-ordered", false,
		"fail unless the final summary is ranked by total score")
	return cmd
}

func runReplay(ctx context.Context, out, errOut io.Writer, path string, opts replayOptions) error {
	if err := logger.InitWithWriter(errOut); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(ctx, opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Get().With(logger.String("run_id", uuid.NewString()))
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Configure(metricsOptions(cfg)...)

	events, err := feed.DecodeFile(path)
	if err != nil {
		return err
	}
	log.Info(ctx, "replaying feed", logger.String("path", path), logger.Int("events", len(events)))

	svc := app.New(
		app.WithLogger(log),
		app.WithQueueSize(cfg.FeedQueueSize),
		app.WithDedupeSize(cfg.FeedDedupeSize),
		app.WithTeamNameMaxLength(cfg.TeamNameMaxLength),
		app.WithStrictLifecycle(cfg.StrictLifecycle),
	)
	if err := replayEvents(ctx, svc, events); err != nil {
		return err
	}

	printReport(out, svc.Summary(), svc.Stats())
	if opts.expectOrdered {
		if err := testevents.VerifyOrdered(svc.Summary()); err != nil {
			return err
		}
	}
	if opts.dumpMetrics {
		fmt.Fprintln(out)
		if err := metrics.WriteText(out); err != nil {
			return err
		}
	}
	return nil
}

// replayEvents pushes events through the service's feed queue and waits
// until all of them have been applied.
func replayEvents(ctx context.Context, svc *app.Service, events []model.Event) error {
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	for _, e := range events {
		if err := submit(ctx, svc, e); err != nil {
			return err
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	return svc.Drain(drainCtx)
}

func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithLatencyBuckets(cfg.MetricsLatencyBuckets),
		metrics.WithConstLabels(cfg.MetricsConstLabels),
	}
}

func newGenerateCmd() *cobra.Command {
	cfg := testevents.DefaultConfig()
	var (
		output string
		verify bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic match feed",
		Long: `Generate a feed of matches with seeded random goals. Replaying it into a
fresh scoreboard yields the summary printed to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), output, verify, cfg)
		},
	}
	cmd.Flags().IntVar(&cfg.Matches, "matches", cfg.Matches, "number of matches")
	cmd.Flags().IntVar(&cfg.MaxGoals, "max-goals", cfg.MaxGoals, "maximum goals per match")
	cmd.Flags().IntVar(&cfg.FinishEvery, "finish-every", cfg.FinishEvery, "finish every n-th match (0 for none)")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the goal sequence")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the feed to a file instead of stdout")
	cmd.Flags().BoolVar(&verify, "verify", false, "replay the feed in-process and check the expected summary")
	return cmd
}

func runGenerate(ctx context.Context, out, errOut io.Writer, output string, verify bool, cfg testevents.Config) error {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	generated, err := testevents.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	w := out
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if err := feed.Encode(w, generated.Events); err != nil {
		return err
	}

	fmt.Fprintln(errOut, (&model.Summary{Entries: generated.Expected}).String())
	if verify {
		return verifyGenerated(ctx, errOut, generated)
	}
	return nil
}

func verifyGenerated(ctx context.Context, errOut io.Writer, generated *testevents.Feed) error {
	svc := app.New(app.WithLogger(logger.Nop()))
	if err := replayEvents(ctx, svc, generated.Events); err != nil {
		return err
	}
	if err := testevents.Verify(svc.Summary(), generated.Expected); err != nil {
		return err
	}
	if err := testevents.VerifyOrdered(svc.Summary()); err != nil {
		return err
	}
	fmt.Fprintf(errOut, "verified %d ranked matches\n", len(generated.Expected))
	return nil
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(ctx, path)
	}
	return config.Load(ctx)
}

// submit retries while the queue is full so a feed larger than the queue
// is applied in full.
func submit(ctx context.Context, svc *app.Service, e model.Event) error { //nolint:gocritic // hugeParam: value semantics
	for {
		_, err := svc.Submit(ctx, e)
		if !errors.Is(err, queue.ErrFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
}

func printReport(w io.Writer, summary *model.Summary, st app.Stats) {
	fmt.Fprintln(w, "Summary")
	if summary.Len() == 0 {
		fmt.Fprintln(w, "(no matches in progress)")
	} else {
		fmt.Fprintln(w, summary.String())
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "teams registered:   %d\n", st.Teams)
	for _, status := range model.Statuses {
		if n := st.MatchesByStatus[status]; n > 0 {
			fmt.Fprintf(w, "matches %s: %d\n", status, n)
		}
	}
	fmt.Fprintf(w, "events applied:     %d\n", st.FeedApplied)
	fmt.Fprintf(w, "events failed:      %d\n", st.FeedFailed)
	fmt.Fprintf(w, "events duplicated:  %d\n", st.FeedDuplicates)
}
