package generator

import (
	"fmt"
	"go/token"
	"os"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/tools/imports"
	"mvdan.cc/gofumpt/format"
)

// formatGo fixes imports with goimports and formats with gofumpt.
func formatGo(filename string, content []byte) ([]byte, error) {
	withImports, err := imports.Process(filename, content, nil)
	if err != nil {
		return nil, fmt.Errorf("imports.Process %s: %w", filename, err)
	}

	formatted, err := format.Source(withImports, format.Options{
		LangVersion: "",
		ExtraRules:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return formatted, nil
}

func writeFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// toCamelCase converts snake_case or kebab-case to CamelCase; existing capitals are kept.
func toCamelCase(s string) string {
	var b strings.Builder

	upper := true

	for _, r := range s {
		if r == '_' || r == '-' || r == '$' {
			upper = true

			continue
		}

		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// reservedGoNames are identifiers the generated wrappers already declare.
var reservedGoNames = map[string]bool{"ctx": true, "q": true, "result": true, "err": true}

// goParamName turns a source parameter name into a Go identifier that is not a keyword.
func goParamName(s string) string {
	name := toCamelCase(s)
	if name == "" {
		return "arg"
	}

	if strings.ToUpper(name) == name {
		name = strings.ToLower(name)
	} else {
		runes := []rune(name)
		runes[0] = unicode.ToLower(runes[0])
		name = string(runes)
	}

	if token.IsKeyword(name) || reservedGoNames[name] {
		return name + "Arg"
	}

	return name
}

// pluralize returns word as-is for a count of one and its plural otherwise.
func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}

	return inflection.Plural(word)
}
