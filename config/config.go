// Package config loads tsproc.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "tsproc.toml"

var (
	errEmptyAlias    = errors.New("alias pattern is empty")
	errAliasWildcard = errors.New("alias may contain at most one '*'")
	errAliasTargets  = errors.New("alias has no targets")
	errNegativeJobs  = errors.New("jobs must not be negative")
	errAliasFlag     = errors.New("alias must be of the form pattern=target")
	errUnknownTarget = errors.New("unknown compiler target")
)

// targets maps upper-cased target names to the spelling the TypeScript compiler and the bundler
// both accept.
var targets = map[string]string{
	"ES6":    "ES2015",
	"ES2015": "ES2015",
	"ES2016": "ES2016",
	"ES2017": "ES2017",
	"ES2018": "ES2018",
	"ES2019": "ES2019",
	"ES2020": "ES2020",
	"ES2021": "ES2021",
	"ES2022": "ES2022",
	"ESNEXT": "ESNext",
}

// Config is the complete tsproc configuration.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	Output   Output   `toml:"output"`
}

// Compiler configures type-checking and emission.
type Compiler struct {
	Node       string              `toml:"node"`
	TypeScript string              `toml:"typescript"`
	Target     string              `toml:"target"`
	Root       string              `toml:"root"`
	Paths      map[string][]string `toml:"paths"`
}

// Output configures the rendered procedures.
type Output struct {
	Language string `toml:"language"`
	Jobs     int    `toml:"jobs"`
}

// New returns a Config with defaults.
func New() Config {
	return Config{
		Compiler: Compiler{
			Node:   "node",
			Target: "ES2019",
			Root:   ".",
			Paths:  map[string][]string{},
		},
		Output: Output{
			Language: "javascript",
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

// Load decodes the file at path over the defaults. A relative compiler root is resolved
// against the file's directory.
func Load(path string) (Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if !filepath.IsAbs(cfg.Compiler.Root) {
		cfg.Compiler.Root = filepath.Join(filepath.Dir(path), cfg.Compiler.Root)
	}

	if cfg.Compiler.Paths == nil {
		cfg.Compiler.Paths = map[string][]string{}
	}

	return cfg, nil
}

// Discover loads the nearest tsproc.toml above startDir, or the defaults when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}

	if !ok {
		return New(), nil
	}

	return Load(path)
}

// AddAlias parses a `pattern=target` flag value and appends the target to the pattern.
func (c *Config) AddAlias(flag string) error {
	pattern, target, ok := strings.Cut(flag, "=")
	if !ok || pattern == "" || target == "" {
		return fmt.Errorf("%w: %q", errAliasFlag, flag)
	}

	if c.Compiler.Paths == nil {
		c.Compiler.Paths = map[string][]string{}
	}

	c.Compiler.Paths[pattern] = append(c.Compiler.Paths[pattern], target)

	return nil
}

// Validate reports every problem with the configuration at once. It also rewrites the compiler
// target to its canonical spelling, e.g. "es2020" to "ES2020".
func (c *Config) Validate() error {
	var result *multierror.Error

	if target, ok := targets[strings.ToUpper(c.Compiler.Target)]; ok {
		c.Compiler.Target = target
	} else {
		result = multierror.Append(result, fmt.Errorf("%w: %q", errUnknownTarget, c.Compiler.Target))
	}

	for pattern, targets := range c.Compiler.Paths {
		switch {
		case pattern == "":
			result = multierror.Append(result, errEmptyAlias)
		case strings.Count(pattern, "*") > 1:
			result = multierror.Append(result, fmt.Errorf("%q: %w", pattern, errAliasWildcard))
		}

		if len(targets) == 0 {
			result = multierror.Append(result, fmt.Errorf("%q: %w", pattern, errAliasTargets))
		}

		for _, t := range targets {
			if strings.Count(t, "*") > 1 {
				result = multierror.Append(result, fmt.Errorf("%q -> %q: %w", pattern, t, errAliasWildcard))
			}
		}
	}

	if c.Output.Jobs < 0 {
		result = multierror.Append(result, errNegativeJobs)
	}

	return result.ErrorOrNil()
}
