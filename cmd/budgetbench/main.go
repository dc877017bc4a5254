// Package main provides the CLI entry point for budgetbench, a synthetic
// workload that exercises scoped profiling regions and reports per-budget
// accounting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/scopeprof/budget"
	"go.jacobcolvin.com/scopeprof/capture"
	"go.jacobcolvin.com/scopeprof/log"
	"go.jacobcolvin.com/scopeprof/platform"
	"go.jacobcolvin.com/scopeprof/profiler"
	"go.jacobcolvin.com/scopeprof/version"
)

var (
	errInvalidArgument = errors.New("invalid argument")
	errWriteReport     = errors.New("write report")
)

type options struct {
	reportFormat string
	workers      int
	iterations   int
	depth        int
	countRegions bool
}

type configs struct {
	log      *log.Config
	capture  *capture.Config
	platform *platform.Config
	budget   *budget.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfgs := configs{
		log:      log.NewConfig(),
		capture:  capture.NewConfig(),
		platform: platform.NewConfig(),
		budget:   budget.NewConfig(),
	}
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "budgetbench [flags]",
		Short: "Run a synthetic workload under scoped profiling",
		Long: `budgetbench runs a game-loop shaped workload on several goroutines. Every
frame opens nested profiling regions against the Frame, Render, Physics and
Audio budgets, reports a draw call counter and a Present event, and finally
prints busy time and region counts per budget.

Combine --platform=trace with --trace-output to inspect regions in
"go tool trace", or use --platform=log with --log-level=debug to see them in
the log.`,
		Args:          cobra.NoArgs,
		Version:       version.Get().String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(cfgs.log.Flags.Format) && !isTerminal(stderr) {
				cfgs.log.Format = string(log.FormatLogfmt)
			}

			return run(cmd.Context(), cfgs, opts, stdout, stderr)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.IntVar(&opts.workers, "workers", 4, "number of concurrent workers")
	flags.IntVar(&opts.iterations, "iterations", 1000, "frames per worker")
	flags.IntVar(&opts.depth, "depth", 3, "nesting depth of Render regions per frame")
	flags.BoolVar(&opts.countRegions, "count-regions", false, "install a profiler that counts regions per budget")
	flags.StringVar(&opts.reportFormat, "report-format", reportYAML,
		fmt.Sprintf("report format, one of: %s", getAllReportFormats()))

	cfgs.log.RegisterFlags(flags)
	cfgs.capture.RegisterFlags(flags)
	cfgs.platform.RegisterFlags(flags)
	cfgs.budget.RegisterFlags(flags)

	completionErr := errors.Join(
		rootCmd.RegisterFlagCompletionFunc("report-format",
			cobra.FixedCompletions(getAllReportFormats(), cobra.ShellCompDirectiveNoFileComp)),
		cfgs.log.RegisterCompletions(rootCmd),
		cfgs.capture.RegisterCompletions(rootCmd),
		cfgs.platform.RegisterCompletions(rootCmd),
		cfgs.budget.RegisterCompletions(rootCmd),
	)
	if completionErr != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", completionErr)
	}

	return rootCmd
}

func run(ctx context.Context, cfgs configs, opts *options, stdout, stderr io.Writer) error {
	err := opts.validate()
	if err != nil {
		return err
	}

	logger, err := cfgs.log.NewLogger(stderr)
	if err != nil {
		return err
	}

	profiler.SetLogger(logger)
	defer profiler.SetLogger(nil)

	backend, err := cfgs.platform.NewBackend(logger)
	if err != nil {
		return err
	}

	prev := platform.Install(backend)
	defer platform.Install(prev)

	tracker, err := cfgs.budget.NewTracker()
	if err != nil {
		return err
	}

	var counter *regionCounter

	if opts.countRegions {
		counter = newRegionCounter()

		err = profiler.Install(counter)
		if err != nil {
			return fmt.Errorf("install region counter: %w", err)
		}

		defer func() {
			uninstallErr := profiler.Uninstall(counter)
			if uninstallErr != nil {
				logger.Warn("uninstall region counter", slog.Any("error", uninstallErr))
			}
		}()
	}

	session := cfgs.capture.NewSession()

	err = session.Start()
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	if strings.EqualFold(cfgs.platform.Backend, platform.BackendTrace) && !session.Tracing() {
		logger.Info("trace platform selected without an execution trace, region markers are dropped",
			slog.String("flag", "--"+cfgs.capture.Flags.TraceOutput))
	}

	logger.Debug("starting workload",
		slog.Int("workers", opts.workers),
		slog.Int("iterations", opts.iterations),
		slog.Int("depth", opts.depth),
	)

	w := newWorkload(tracker, opts.depth)

	start := time.Now()
	w.run(ctx, opts.workers, opts.iterations)
	elapsed := time.Since(start)

	err = session.Stop()
	if err != nil {
		return fmt.Errorf("stop capture: %w", err)
	}

	if ctx.Err() != nil {
		logger.Warn("workload interrupted, report is partial")
	}

	r := &report{
		Version:    version.Get().Version,
		Platform:   cfgs.platform.Backend,
		Elapsed:    elapsed.String(),
		Workers:    opts.workers,
		Iterations: opts.iterations,
		Depth:      w.depth,
	}

	for _, name := range workloadBudgets {
		if tracker.Disabled(name) {
			r.Disabled = append(r.Disabled, name)
		}
	}

	for _, b := range tracker.Budgets() {
		r.Budgets = append(r.Budgets, newBudgetReport(b, elapsed, counter))
	}

	return writeReport(stdout, opts.reportFormat, r)
}

func (o *options) validate() error {
	if o.workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1, got %d", errInvalidArgument, o.workers)
	}

	if o.iterations < 0 {
		return fmt.Errorf("%w: --iterations must not be negative, got %d", errInvalidArgument, o.iterations)
	}

	if !slices.Contains(getAllReportFormats(), strings.ToLower(o.reportFormat)) {
		return fmt.Errorf("%w: report format %q", errInvalidArgument, o.reportFormat)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
