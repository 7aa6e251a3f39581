// Package tsc type-checks and emits TypeScript modules by running the TypeScript compiler API
// under Node.
package tsc

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kalbasit/tsproc/generator"
)

//go:embed driver.js
var driverScript string

const emitDirPattern = "tsproc-emit-*"

// Options configures the compiler.
type Options struct {
	Node       string              // node executable, "node" when empty
	TypeScript string              // module specifier of the typescript package
	Root       string              // project root; modules must live below it
	Paths      map[string][]string // tsconfig-style path aliases
	Target     string              // emission target, e.g. "ES2019"
	Logger     *zap.Logger
}

// Compiler implements generator.Compiler.
type Compiler struct {
	opts Options
	log  *zap.Logger
}

// New returns a Compiler.
func New(opts Options) *Compiler {
	if opts.Node == "" {
		opts.Node = "node"
	}

	if opts.Target == "" {
		opts.Target = "ES2019"
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Compiler{opts: opts, log: log}
}

type request struct {
	Module     string              `json:"module"`
	Root       string              `json:"root"`
	OutDir     string              `json:"outDir"`
	Paths      map[string][]string `json:"paths"`
	Target     string              `json:"target"`
	TypeScript string              `json:"typescript,omitempty"`
}

// Compile type-checks and emits the module at modulePath.
func (c *Compiler) Compile(ctx context.Context, modulePath string) (generator.Program, []generator.Diagnostic, error) {
	module, err := filepath.Abs(modulePath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving module path: %w", err)
	}

	root, err := filepath.Abs(c.opts.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving project root: %w", err)
	}

	outDir, err := os.MkdirTemp("", emitDirPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("creating emit directory: %w", err)
	}

	out, err := c.run(ctx, root, request{
		Module:     module,
		Root:       root,
		OutDir:     outDir,
		Paths:      c.opts.Paths,
		Target:     c.opts.Target,
		TypeScript: c.opts.TypeScript,
	})
	if err != nil {
		_ = os.RemoveAll(outDir)

		return nil, nil, err
	}

	prog, diags, err := decodeReport(out, root, outDir)
	if err != nil || len(diags) > 0 {
		_ = os.RemoveAll(outDir)

		return nil, diags, err
	}

	return prog, nil, nil
}

func (c *Compiler) run(ctx context.Context, root string, req request) ([]byte, error) {
	in, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding driver request: %w", err)
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.opts.Node, "-e", driverScript)
	cmd.Dir = root
	cmd.Stdin = bytes.NewReader(in)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("Running TypeScript driver", zap.String("module", req.Module), zap.String("outDir", req.OutDir))

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrDriverFailed, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
