package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kalbasit/tsproc/bundler"
	"github.com/kalbasit/tsproc/config"
	"github.com/kalbasit/tsproc/generator"
	"github.com/kalbasit/tsproc/logger"
	"github.com/kalbasit/tsproc/tsc"
)

// errDiagnostics signals that diagnostics were already printed.
var errDiagnostics = errors.New("compilation failed")

type flags struct {
	configPath string
	aliases    []string
	jobs       int
	node       string
	output     string
	goOut      string
	goPackage  string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "tsproc: %s\n", err)
		}

		stop()
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "tsproc [flags] MODULE...",
		Short: "Convert @procedure TypeScript functions into Snowflake stored procedures",
		Long: "tsproc type-checks each module, bundles every top-level function tagged @procedure with\n" +
			"everything it imports and prints one `create or replace procedure` statement per function.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, cmd.Flags().Changed("jobs"))
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, f, args, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to "+config.FileName+" (default: search upwards)")
	cmd.Flags().StringArrayVar(&f.aliases, "alias", nil, "module path alias pattern=target, may be repeated")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "modules processed concurrently (0: all)")
	cmd.Flags().StringVar(&f.node, "node", "", "node executable")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write statements to this file instead of stdout")
	cmd.Flags().StringVar(&f.goOut, "go-out", "", "also write Go bindings for the procedures to this file")
	cmd.Flags().StringVar(&f.goPackage, "go-package", "procedures", "package name of the Go bindings")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline progress to stderr")

	return cmd
}

func loadConfig(f flags, jobsChanged bool) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)

	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.Discover(".")
	}

	if err != nil {
		return config.Config{}, err
	}

	for _, a := range f.aliases {
		if err := cfg.AddAlias(a); err != nil {
			return config.Config{}, err
		}
	}

	if jobsChanged {
		cfg.Output.Jobs = f.jobs
	}

	if f.node != "" {
		cfg.Compiler.Node = f.node
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, f flags, modules []string, stdout, stderr io.Writer) error {
	level := zapcore.WarnLevel
	if f.verbose {
		level = zapcore.DebugLevel
	}

	log := logger.New(stderr, level)
	defer func() { _ = log.Sync() }()

	bundle, err := bundler.New(bundler.Options{
		Paths:     cfg.Compiler.Paths,
		NodePaths: []string{filepath.Join(cfg.Compiler.Root, "node_modules")},
		Target:    cfg.Compiler.Target,
		Logger:    log.Named("bundler"),
	})
	if err != nil {
		return err
	}

	compiler := tsc.New(tsc.Options{
		Node:       cfg.Compiler.Node,
		TypeScript: cfg.Compiler.TypeScript,
		Root:       cfg.Compiler.Root,
		Paths:      cfg.Compiler.Paths,
		Target:     cfg.Compiler.Target,
		Logger:     log.Named("tsc"),
	})

	res, err := generator.Run(ctx, generator.Options{
		Compiler: compiler,
		Bundle:   bundle,
		Language: cfg.Output.Language,
		Jobs:     cfg.Output.Jobs,
		Logger:   log,
	}, modules)
	if err != nil {
		return err
	}

	if !res.OK() {
		printDiagnostics(stderr, res.Diagnostics, useColor(stderr))

		return errDiagnostics
	}

	if err := writeOutput(stdout, f.output, res.Output); err != nil {
		return err
	}

	procs := res.Procedures()
	if f.goOut != "" {
		if err := generator.WriteBindings(f.goOut, f.goPackage, procs); err != nil {
			return err
		}
	}

	log.Info(
		fmt.Sprintf("Emitted %d %s", len(procs), generator.Pluralize(len(procs), "procedure")),
		zap.Int("modules", len(modules)),
	)

	return nil
}

func writeOutput(stdout io.Writer, path, output string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(output+"\n"), 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("writing %s: %w", path, err)
		}

		return nil
	}

	if output == "" {
		return nil
	}

	_, err := fmt.Fprintln(stdout, output)

	return err
}

// useColor reports whether w is a terminal that accepts colour.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printDiagnostics(w io.Writer, diags []generator.Diagnostic, colored bool) {
	red := color.New(color.FgRed)
	if colored {
		red.EnableColor()
	} else {
		red.DisableColor()
	}

	for _, d := range diags {
		_, _ = red.Fprintln(w, d.String())
	}
}
