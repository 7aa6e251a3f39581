package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalbasit/tsproc/config"
)

func TestDiscoverDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Discover(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, config.New(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverWalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "src", "procs")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(`
[compiler]
target = "ES2020"

[compiler.paths]
"@lib/*" = ["src/lib/*"]

[output]
jobs = 4
`), 0o600))

	cfg, err := config.Discover(nested)
	require.NoError(t, err)

	assert.Equal(t, "ES2020", cfg.Compiler.Target)
	assert.Equal(t, "node", cfg.Compiler.Node, "defaults survive partial files")
	assert.Equal(t, root, cfg.Compiler.Root)
	assert.Equal(t, map[string][]string{"@lib/*": {"src/lib/*"}}, cfg.Compiler.Paths)
	assert.Equal(t, 4, cfg.Output.Jobs)
	assert.Equal(t, "javascript", cfg.Output.Language)
}

func TestLoadInvalidTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[compiler\n"), 0o600))

	_, err := config.Load(path)
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestAddAlias(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	require.NoError(t, cfg.AddAlias("@lib/*=src/lib/*"))
	require.NoError(t, cfg.AddAlias("@lib/*=vendor/lib/*"))
	assert.Equal(t, []string{"src/lib/*", "vendor/lib/*"}, cfg.Compiler.Paths["@lib/*"])

	for _, bad := range []string{"nothing", "=x", "x="} {
		assert.Error(t, cfg.AddAlias(bad), bad)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.Compiler.Paths = map[string][]string{
		"@a/*/*": {"src/*"},
		"@b/*":   nil,
	}
	cfg.Output.Jobs = -1

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
}

func TestValidateNormalizesTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{target: "ES2019", want: "ES2019"},
		{target: "es2020", want: "ES2020"},
		{target: "esnext", want: "ESNext"},
		{target: "ES6", want: "ES2015"},
		{target: "ES3", wantErr: true},
		{target: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			cfg := config.New()
			cfg.Compiler.Target = tt.target

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown compiler target")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Compiler.Target)
		})
	}
}

func TestLoadLowercaseTarget(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[compiler]\ntarget = \"es2021\"\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ES2021", cfg.Compiler.Target)
}
