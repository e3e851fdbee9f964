// Package cmd implements the CLI for timestamp.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/timestamp/internal/config"
	"github.com/alexander-akhmetov/timestamp/internal/debug"
	"github.com/alexander-akhmetov/timestamp/internal/marker"
	"github.com/alexander-akhmetov/timestamp/internal/report"
)

// Version information set from main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

type rootOptions struct {
	configPath string
	width      int
	fill       string
	format     string
	logLevel   string

	fs    afero.Fs
	clock report.Clock
}

// NewRootCmd builds the root command. Checkpoints, help, diagnostics and
// errors all go to stderr. A nil fs or clock means the OS filesystem or the
// wall clock.
func NewRootCmd(stderr io.Writer, fs afero.Fs, clock report.Clock) *cobra.Command {
	opts := &rootOptions{fs: fs, clock: clock}

	rootCmd := &cobra.Command{
		Use:   "timestamp [flags] <start_time> <last_file> [desc_word ...]",
		Short: "Annotate long build logs with elapsed-time banners",
		Long: `Timestamp prints how long the last build section took and how long the
whole build has been running, then touches <last_file> so the next call
measures the next section.

  start_time  seconds since the epoch when the build began
  last_file   existing marker file whose mtime records the last checkpoint
  desc_word   words for the banner line, joined with single spaces

Output goes to stderr:

  (((((  0:01:00 )))))
   0:05:00 =============================== compile ================================

Flags must come before <start_time>. Use -- before a negative start time.`,
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Args:          requireArgs,
		RunE:          opts.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", report.ErrUsage, err)
	})

	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	flags.IntVar(&opts.width, "width", 0, "Banner width (default from config: 72)")
	flags.StringVar(&opts.fill, "fill", "", "Banner fill character (default from config: =)")
	flags.StringVar(&opts.format, "format", "", "Output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level (default from config: error)")

	return rootCmd
}

func requireArgs(_ *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: requires <start_time> and <last_file>, got %d argument(s)", report.ErrUsage, len(args))
	}
	return nil
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyCLIFlags(config.Flags{
		Width:    o.width,
		WidthSet: cmd.Flags().Changed("width"),
		Fill:     o.fill,
		Format:   o.format,
		LogLevel: o.logLevel,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := debug.Setup(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return err
	}
	debug.Logf("config sources: %s", strings.Join(cfg.Sources(), ", "))

	logger := debug.Logger()
	r := report.New(report.Options{
		Config: cfg,
		Marker: marker.New(o.fs, args[1]),
		Clock:  o.clock,
		Out:    cmd.ErrOrStderr(),
		Logger: &logger,
	})
	_, err = r.Run(args[0], args[2:])
	return err
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return run(NewRootCmd(os.Stderr, nil, nil), os.Args[1:])
}

// run executes root with args and reports any error on its stderr.
func run(root *cobra.Command, args []string) error {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return nil
	}
	stderr := root.ErrOrStderr()
	fmt.Fprintf(stderr, "%s: %v\n", root.Name(), err)
	if errors.Is(err, report.ErrUsage) {
		fmt.Fprint(stderr, root.UsageString())
	}
	return err
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, report.ErrUsage):
		return 2
	default:
		return 1
	}
}
