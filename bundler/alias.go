package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// alias is one tsconfig `paths` entry, e.g. "@lib/*" -> ["src/lib/*"].
type alias struct {
	prefix   string
	suffix   string
	wildcard bool
	targets  []string
}

func (a alias) match(spec string) (string, bool) {
	if !a.wildcard {
		return "", spec == a.prefix
	}

	if len(spec) < len(a.prefix)+len(a.suffix) ||
		!strings.HasPrefix(spec, a.prefix) || !strings.HasSuffix(spec, a.suffix) {
		return "", false
	}

	return spec[len(a.prefix) : len(spec)-len(a.suffix)], true
}

func compileAliases(paths map[string][]string) ([]alias, error) {
	aliases := make([]alias, 0, len(paths))

	for pattern, targets := range paths {
		if strings.Count(pattern, "*") > 1 {
			return nil, fmt.Errorf("%w: %q has more than one wildcard", errInvalidAlias, pattern)
		}

		if len(targets) == 0 {
			return nil, fmt.Errorf("%w: %q has no targets", errInvalidAlias, pattern)
		}

		a := alias{prefix: pattern, targets: targets}
		if prefix, suffix, ok := strings.Cut(pattern, "*"); ok {
			a.prefix, a.suffix, a.wildcard = prefix, suffix, true
		}

		aliases = append(aliases, a)
	}

	// longest prefix wins, as in tsc
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i].prefix) != len(aliases[j].prefix) {
			return len(aliases[i].prefix) > len(aliases[j].prefix)
		}

		return aliases[i].prefix < aliases[j].prefix
	})

	return aliases, nil
}

// resolveAlias maps an import specifier to an emitted file, or "" when no alias applies.
func resolveAlias(aliases []alias, outDir, spec string) string {
	for _, a := range aliases {
		star, ok := a.match(spec)
		if !ok {
			continue
		}

		for _, target := range a.targets {
			base := filepath.Join(outDir, filepath.FromSlash(strings.Replace(target, "*", star, 1)))
			if file := findEmitted(base); file != "" {
				return file
			}
		}
	}

	return ""
}

// findEmitted looks for the script tsc emits for a source path given without, or with a
// TypeScript, extension.
func findEmitted(base string) string {
	for _, ext := range []string{".ts", ".tsx", ".mts", ".cts"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)

			break
		}
	}

	candidates := []string{
		base,
		base + ".js",
		base + ".mjs",
		base + ".cjs",
		filepath.Join(base, "index.js"),
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}

	return ""
}

func aliasPlugin(aliases []alias, outDir string) api.Plugin {
	return api.Plugin{
		Name: "tsproc-paths",
		Setup: func(build api.PluginBuild) {
			if len(aliases) == 0 || outDir == "" {
				return
			}

			build.OnResolve(api.OnResolveOptions{Filter: ".*"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind == api.ResolveEntryPoint {
						return api.OnResolveResult{}, nil
					}

					if file := resolveAlias(aliases, outDir, args.Path); file != "" {
						return api.OnResolveResult{Path: file}, nil
					}

					return api.OnResolveResult{}, nil
				})
		},
	}
}
