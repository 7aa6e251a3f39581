// Package bundler inlines an entry script and every module it reaches into one CommonJS-style
// script using esbuild.
package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.uber.org/zap"

	"github.com/kalbasit/tsproc/generator"
)

const (
	entryNamespace = "tsproc-entry"
	bundleFileName = "bundle.js"
)

// Options configures the bundler.
type Options struct {
	// Paths are tsconfig-style path aliases, resolved against the emitted output directory.
	Paths map[string][]string
	// NodePaths are extra directories searched for packages, usually the project's node_modules.
	NodePaths []string
	// Target is the ECMAScript version of the output, e.g. "ES2019".
	Target string
	Logger *zap.Logger
}

// New returns a bundling function for the pipeline.
func New(opts Options) (generator.BundleFunc, error) {
	target, err := parseTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	aliases, err := compileAliases(opts.Paths)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	b := &bundler{target: target, aliases: aliases, nodePaths: opts.NodePaths, log: log}

	return b.bundle, nil
}

type bundler struct {
	target    api.Target
	aliases   []alias
	nodePaths []string
	log       *zap.Logger
}

func (b *bundler) bundle(ctx context.Context, req generator.BundleRequest) generator.BundleResult {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	workDir := req.Emitted.OutDir
	if workDir == "" {
		workDir = req.Dir
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{req.Entry},
		Bundle:        true,
		Write:         false,
		Outfile:       filepath.Join(req.Dir, bundleFileName),
		Format:        api.FormatCommonJS,
		Platform:      api.PlatformNeutral,
		MainFields:    []string{"main", "module"},
		Target:        b.target,
		AbsWorkingDir: workDir,
		NodePaths:     b.nodePaths,
		LegalComments: api.LegalCommentsNone,
		Charset:       api.CharsetUTF8,
		LogLevel:      api.LogLevelSilent,
		Plugins: []api.Plugin{
			entryPlugin(req.Entry),
			aliasPlugin(b.aliases, req.Emitted.OutDir),
		},
	})

	for _, w := range result.Warnings {
		b.log.Debug("esbuild warning", zap.String("message", w.Text))
	}

	if len(result.Errors) > 0 {
		return generator.BundleResult{Diagnostics: toDiagnostics(result.Errors)}
	}

	if len(result.OutputFiles) != 1 {
		return failed(fmt.Errorf("%w: got %d output files", errUnexpectedOutput, len(result.OutputFiles)))
	}

	return generator.BundleResult{Script: stripStrictPrologue(string(result.OutputFiles[0].Contents))}
}

// entryPlugin loads the entry script under its own namespace so the bundle does not mention the
// scratch directory's name.
func entryPlugin(entry string) api.Plugin {
	return api.Plugin{
		Name: entryNamespace,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind != api.ResolveEntryPoint {
						return api.OnResolveResult{}, nil
					}

					return api.OnResolveResult{Path: filepath.Base(entry), Namespace: entryNamespace}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: entryNamespace},
				func(api.OnLoadArgs) (api.OnLoadResult, error) {
					contents, err := os.ReadFile(entry)
					if err != nil {
						return api.OnLoadResult{}, fmt.Errorf("reading entry script: %w", err)
					}

					s := string(contents)

					return api.OnLoadResult{
						Contents:   &s,
						ResolveDir: filepath.Dir(entry),
						Loader:     api.LoaderJS,
					}, nil
				})
		},
	}
}

// stripStrictPrologue removes "use strict" directives; the bundle is inlined into the middle of
// a function body.
func stripStrictPrologue(script string) string {
	lines := strings.Split(script, "\n")
	kept := lines[:0]

	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case `"use strict";`, `'use strict';`:
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func toDiagnostics(msgs []api.Message) []generator.Diagnostic {
	diags := make([]generator.Diagnostic, 0, len(msgs))

	for _, m := range msgs {
		d := generator.Diagnostic{Message: m.Text}
		if m.Location != nil {
			d.Pos = &generator.Position{
				File:   m.Location.File,
				Line:   m.Location.Line,
				Column: m.Location.Column + 1,
			}
		}

		diags = append(diags, d)
	}

	return diags
}

func failed(err error) generator.BundleResult {
	return generator.BundleResult{Diagnostics: []generator.Diagnostic{{Message: err.Error()}}}
}

func parseTarget(s string) (api.Target, error) {
	switch strings.ToUpper(s) {
	case "", "ES2019":
		return api.ES2019, nil
	case "ES2015", "ES6":
		return api.ES2015, nil
	case "ES2016":
		return api.ES2016, nil
	case "ES2017":
		return api.ES2017, nil
	case "ES2018":
		return api.ES2018, nil
	case "ES2020":
		return api.ES2020, nil
	case "ES2021":
		return api.ES2021, nil
	case "ES2022":
		return api.ES2022, nil
	case "ESNEXT":
		return api.ESNext, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownTarget, s)
	}
}
