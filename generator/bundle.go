package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// entryScript imports the procedure's function from the emitted module and calls it once,
// storing the return value in the result variable the statement template declares.
func entryScript(emittedPath string, proc StoredProcedure) string {
	args := make([]string, 0, len(proc.Params)+1)
	args = append(args, connectionArg)

	for _, p := range proc.Params {
		args = append(args, p.SourceName)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "import { %s } from %s;\n", proc.Name, strconv.Quote(filepath.ToSlash(emittedPath)))
	fmt.Fprintf(&b, "%s = %s(%s);\n", resultVar, proc.Name, strings.Join(args, ", "))

	return b.String()
}

// bundleProcedure bundles one procedure inside its own scratch directory. The directory exists
// only for the duration of the call. Failures are reported as diagnostics.
func bundleProcedure(
	ctx context.Context,
	opts Options,
	emitted Emitted,
	proc StoredProcedure,
) BundleResult {
	dir := filepath.Join(opts.scratchRoot(), scratchPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return failedBundle(fmt.Errorf("creating scratch directory: %w", err))
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			opts.logger().Warn("Failed to remove scratch directory", zap.String("dir", dir), zap.Error(err))
		}
	}()

	entry := filepath.Join(dir, entryFileName)
	if err := os.WriteFile(entry, []byte(entryScript(emitted.Path, proc)), 0o600); err != nil {
		return failedBundle(fmt.Errorf("writing entry script: %w", err))
	}

	opts.logger().Debug("Bundling procedure",
		zap.String("procedure", proc.Name),
		zap.String("entry", entry),
	)

	return opts.Bundle(ctx, BundleRequest{Dir: dir, Entry: entry, Emitted: emitted})
}

func failedBundle(err error) BundleResult {
	return BundleResult{Diagnostics: []Diagnostic{{Message: err.Error()}}}
}
