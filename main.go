// Command fft-contest measures round-trip error, chained drift error and
// time per transform of competing complex FFT engines over a fixed sweep of
// transform sizes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fft-contest/bench"
	"fft-contest/engine"
	"fft-contest/report"
	"fft-contest/web"
)

// ErrInvalidPrecision is returned for --precision values other than 64 and 128.
var ErrInvalidPrecision = errors.New("precision must be 64 or 128")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the root command and returns the process exit status. Every
// failure is logged here, including flag errors cobra reports before RunE.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("fft-contest failed", "error", err)
		return 1
	}

	return 0
}

type runConfig struct {
	engines   []string
	sizes     []int
	budget    float64
	repeats   int
	precision int
	seed      uint64
	jsonOut   bool
	tui       bool
	web       bool
	port      int
	logLevel  string

	// set by the command, not by flags
	stdoutTTY bool
}

func newRootCmd() *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "fft-contest",
		Short: "Contest complex FFT engines on accuracy, drift and speed",
		Long: `fft-contest runs every registered FFT engine through a forward+inverse
round trip, a chained drift test and a timed loop at each transform size of
the sweep, and prints one line per size:

  size iterations [roundTripError driftError microsPerOp]...

The column header is written to stderr.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.logLevel)
			if err != nil {
				return err
			}

			if f, ok := cmd.OutOrStdout().(*os.File); ok {
				cfg.stdoutTTY = term.IsTerminal(int(f.Fd()))
			}

			return run(cmd.Context(), logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&cfg.engines, "engines", nil,
		"Engines to contest, in output order (default: all engines supporting the precision)")
	flags.IntSliceVar(&cfg.sizes, "sizes", nil,
		"Transform sizes to measure (default: the built-in sweep)")
	flags.Float64Var(&cfg.budget, "budget", bench.DefaultBudget,
		"Work budget per size; iterations = budget / N / (log2 N + 1), rounded down to even")
	flags.IntVar(&cfg.repeats, "repeats", 1,
		"Timed chains per engine and size; more than one reports the median")
	flags.IntVar(&cfg.precision, "precision", 128,
		"Sample type: 128 (complex128) or 64 (complex64)")
	flags.Uint64Var(&cfg.seed, "seed", 0,
		"Stimulus seed (0 = seed from the system entropy source)")
	flags.BoolVar(&cfg.jsonOut, "json", false,
		"Write JSON lines instead of text lines")
	flags.BoolVar(&cfg.tui, "tui", false,
		"Show an interactive progress table")
	flags.BoolVar(&cfg.web, "web", false,
		"Serve a live dashboard while the sweep runs")
	flags.IntVar(&cfg.port, "port", 8080,
		"Dashboard port")
	flags.StringVar(&cfg.logLevel, "log-level", "warn",
		"Log level: debug, info, warn, error")

	return cmd
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	return logger, nil
}

func run(ctx context.Context, logger *slog.Logger, stdout, stderr io.Writer, cfg runConfig) error {
	switch cfg.precision {
	case 128:
		return runSweep[complex128](ctx, logger, stdout, stderr, cfg)
	case 64:
		return runSweep[complex64](ctx, logger, stdout, stderr, cfg)
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, cfg.precision)
	}
}

func runSweep[T bench.Complex](ctx context.Context, logger *slog.Logger, stdout, stderr io.Writer, cfg runConfig) error {
	names := cfg.engines
	if len(names) == 0 {
		names = engine.Names[T]()
	}

	factories, err := engine.Lookup[T](names)
	if err != nil {
		return err
	}

	driver, err := bench.NewDriver(factories, bench.NewGenerator(cfg.seed),
		bench.Config{Budget: cfg.budget, Repeats: cfg.repeats}, logger)
	if err != nil {
		return err
	}

	sizes := cfg.sizes
	if len(sizes) == 0 {
		sizes = bench.DefaultSizes
	}

	precision := fmt.Sprintf("complex%d", cfg.precision)

	logger.InfoContext(ctx, "starting sweep",
		slog.Any("engines", names),
		slog.Int("sizes", len(sizes)),
		slog.String("precision", precision),
		slog.Float64("budget", cfg.budget),
		slog.Int("repeats", cfg.repeats),
	)

	// Text and JSON go to stdout unless the TUI owns the terminal.
	var writeErr func() error
	if !cfg.tui || !cfg.stdoutTTY {
		if cfg.jsonOut {
			jw := report.NewJSONWriter(stdout)
			driver.AddListener(jw)
			writeErr = jw.Err
		} else {
			if err := report.WriteHeader(stderr, names); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
			lw := report.NewLineWriter(stdout)
			driver.AddListener(lw)
			writeErr = lw.Err
		}
	}

	var server *web.Server
	if cfg.web {
		server = web.NewServer(fmt.Sprintf(":%d", cfg.port), names, precision, len(sizes))
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer shutdownServer(server)

		driver.AddListener(server)

		//nolint:forbidigo // startup message
		fmt.Fprintf(stderr, "Dashboard available at http://localhost:%d\n", cfg.port)
	}

	var sweepErr error
	if cfg.tui {
		sweepErr = sweepWithTUI(ctx, driver, names, precision, sizes, server)
	} else {
		sweepErr = driver.Sweep(ctx, sizes)
		if server != nil {
			server.Finish(sweepErr)
			holdDashboard(ctx, logger)
		}
	}

	if sweepErr != nil {
		return sweepErr
	}

	if writeErr != nil {
		if err := writeErr(); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}

	logger.InfoContext(ctx, "sweep complete", slog.Int("sizes", len(sizes)))

	return nil
}

// sweepWithTUI measures on a background goroutine while the TUI owns the
// terminal. Leaving the TUI cancels the sweep at the next size boundary.
func sweepWithTUI[T bench.Complex](
	parent context.Context, driver *bench.Driver[T], names []string, precision string,
	sizes []int, server *web.Server,
) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	state := newTUIState(names, precision, len(sizes))
	driver.AddListener(state)

	done := make(chan error, 1)
	go func() {
		err := driver.Sweep(ctx, sizes)
		state.Finish(err)
		if server != nil {
			server.Finish(err)
		}
		done <- err
	}()

	if err := runTUI(ctx, state); err != nil {
		cancel()
		<-done
		return err
	}

	cancel()

	// Quitting the TUI early is not a failure.
	err := <-done
	if errors.Is(err, context.Canceled) && parent.Err() == nil {
		return nil
	}

	return err
}

// holdDashboard keeps the dashboard up after the sweep until interrupted.
func holdDashboard(ctx context.Context, logger *slog.Logger) {
	logger.InfoContext(ctx, "sweep finished, dashboard stays up until interrupted")
	<-ctx.Done()
}

func shutdownServer(s *web.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		slog.Error("Web server shutdown error", "error", err)
	}
}
