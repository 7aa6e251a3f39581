package generator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a batch run. It is passed by value and only read.
type Options struct {
	Compiler   Compiler
	Bundle     BundleFunc
	Language   string // procedure language, "javascript" when empty
	ScratchDir string // parent of per-procedure scratch directories, os.TempDir() when empty
	Jobs       int    // maximum modules processed at once, unlimited when <= 0
	Logger     *zap.Logger
}

func (o Options) language() string {
	if o.Language == "" {
		return defaultLanguage
	}

	return o.Language
}

func (o Options) scratchRoot() string {
	if o.ScratchDir == "" {
		return os.TempDir()
	}

	return o.ScratchDir
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// Run converts every module concurrently and aggregates the outcomes. When any module produced
// diagnostics the result carries all of them, in module order, and no output.
func Run(ctx context.Context, opts Options, paths []string) (Result, error) {
	if opts.Compiler == nil {
		return Result{}, errNoCompiler
	}

	if opts.Bundle == nil {
		return Result{}, errNoBundler
	}

	results := make([]ModuleResult, len(paths))

	var g errgroup.Group
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			results[i] = processModule(ctx, opts, path)

			return nil
		})
	}

	// module pipelines report failures through their results
	_ = g.Wait()

	return aggregate(results), nil
}

func aggregate(modules []ModuleResult) Result {
	res := Result{Modules: modules}

	for _, m := range modules {
		res.Diagnostics = append(res.Diagnostics, m.Diagnostics...)
	}

	if !res.OK() {
		return res
	}

	var statements []string

	for _, m := range modules {
		for _, s := range m.Statements {
			if s != "" {
				statements = append(statements, s)
			}
		}
	}

	res.Output = strings.Join(statements, statementSeparator)

	return res
}

func processModule(ctx context.Context, opts Options, path string) ModuleResult {
	log := opts.logger().With(zap.String("module", path))
	start := time.Now()

	res, err := convertModule(ctx, opts, log, path)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Message: err.Error()})
	}

	res.Path = path
	if len(res.Diagnostics) > 0 {
		// a failed module contributes nothing but its diagnostics
		res.Statements = nil
		res.Procedures = nil
	}

	log.Debug("Processed module",
		zap.Int("procedures", len(res.Statements)),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("took", time.Since(start)),
	)

	return res
}

func convertModule(ctx context.Context, opts Options, log *zap.Logger, path string) (ModuleResult, error) {
	var res ModuleResult

	prog, diags, err := opts.Compiler.Compile(ctx, path)
	if err != nil {
		return res, fmt.Errorf("compiling %s: %w", path, err)
	}

	if len(diags) > 0 {
		res.Diagnostics = diags

		return res, nil
	}

	defer func() {
		if err := prog.Close(); err != nil {
			log.Warn("Failed to remove emitted script", zap.Error(err))
		}
	}()

	emitted, diags, err := prog.Emit(ctx)
	if err != nil {
		return res, fmt.Errorf("emitting %s: %w", path, err)
	}

	if len(diags) > 0 {
		res.Diagnostics = diags

		return res, nil
	}

	eligible := scanDeclarations(prog.Declarations())
	if len(eligible) == 0 {
		log.Debug("No procedures found")

		return res, nil
	}

	procs := make([]StoredProcedure, 0, len(eligible))

	for _, d := range eligible {
		sig, err := extractSignature(prog, d)
		if err != nil {
			return res, err
		}

		procs = append(procs, buildProcedure(d, sig))
	}

	// one procedure at a time; each scratch directory is gone before the next is created
	for _, proc := range procs {
		bundled := bundleProcedure(ctx, opts, emitted, proc)
		if len(bundled.Diagnostics) > 0 {
			res.Diagnostics = bundled.Diagnostics

			return res, nil
		}

		stmt, err := renderProcedure(proc, opts.language(), bundled.Script)
		if err != nil {
			return res, err
		}

		res.Statements = append(res.Statements, stmt)
		res.Procedures = append(res.Procedures, proc)
	}

	return res, nil
}
