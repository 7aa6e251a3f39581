package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalbasit/tsproc/config"
	"github.com/kalbasit/tsproc/generator"
)

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	require.NoError(t, writeOutput(&stdout, "", ""))
	assert.Empty(t, stdout.String(), "empty output prints nothing")

	require.NoError(t, writeOutput(&stdout, "", "create or replace procedure a() ...;"))
	assert.Equal(t, "create or replace procedure a() ...;\n", stdout.String())

	path := filepath.Join(t.TempDir(), "out.sql")
	require.NoError(t, writeOutput(&stdout, path, "x"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(content))
}

func TestPrintDiagnostics(t *testing.T) {
	t.Parallel()

	diags := []generator.Diagnostic{
		{Message: "Cannot find module './nowhere'.", Pos: &generator.Position{File: "src/a.ts", Line: 1, Column: 19}},
		{Message: "say has 2 call signatures"},
	}

	var plain bytes.Buffer

	printDiagnostics(&plain, diags, false)
	assert.Equal(t, "src/a.ts (1,19): Cannot find module './nowhere'.\nsay has 2 call signatures\n", plain.String())

	var colored bytes.Buffer

	printDiagnostics(&colored, diags, true)
	assert.Contains(t, colored.String(), "\x1b[31m")
}

func TestUseColorOnlyForTerminals(t *testing.T) {
	t.Parallel()

	assert.False(t, useColor(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "errs.txt"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, useColor(f), "redirected stderr gets plain diagnostics")
}

func TestRunDiagnosticsToFileArePlain(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.Compiler.Root = t.TempDir()
	cfg.Compiler.Node = filepath.Join(t.TempDir(), "no-such-node")

	stderr, err := os.Create(filepath.Join(t.TempDir(), "errs.txt"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = stderr.Close() })

	var stdout bytes.Buffer

	err = run(context.Background(), cfg, flags{}, []string{"src/a.ts"}, &stdout, stderr)
	require.ErrorIs(t, err, errDiagnostics)

	content, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(content), "compiling src/a.ts")
	assert.NotContains(t, string(content), "\x1b[")
}

func TestLoadConfigFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[output]\njobs = 2\n"), 0o600))

	cfg, err := loadConfig(flags{configPath: path, aliases: []string{"@lib/*=src/lib/*"}, node: "/usr/bin/node"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Output.Jobs)
	assert.Equal(t, "/usr/bin/node", cfg.Compiler.Node)
	assert.Equal(t, []string{"src/lib/*"}, cfg.Compiler.Paths["@lib/*"])

	cfg, err = loadConfig(flags{configPath: path, jobs: 0}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Output.Jobs, "explicit --jobs overrides the file")

	_, err = loadConfig(flags{configPath: path, jobs: -3}, true)
	require.ErrorContains(t, err, "invalid configuration")

	_, err = loadConfig(flags{configPath: path, aliases: []string{"broken"}}, false)
	assert.Error(t, err)
}

func TestRunReportsDiagnostics(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.Compiler.Root = t.TempDir()
	cfg.Compiler.Node = filepath.Join(t.TempDir(), "no-such-node")

	var stdout, stderr bytes.Buffer

	err := run(context.Background(), cfg, flags{}, []string{"src/a.ts"}, &stdout, &stderr)
	require.ErrorIs(t, err, errDiagnostics)
	assert.Empty(t, stdout.String())
	assert.NotEmpty(t, stderr.String())
}

func TestRootCommandRequiresModules(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
	assert.Empty(t, stdout.String())
}
