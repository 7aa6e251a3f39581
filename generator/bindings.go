package generator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

var bindingsTmpl = template.Must(template.New("bindings").Funcs(template.FuncMap{
	"funcName":     func(name string) string { return "Call" + toCamelCase(name) },
	"goParam":      goParamName,
	"goType":       goType,
	"placeholders": placeholders,
	"argumentNoun": func(n int) string { return pluralize(n, "argument") },
	"docLines":     docLines,
}).Parse(bindingsTemplate))

// goType maps a SQL type to the Go type a driver scans it into.
func goType(sqlType string) string {
	switch sqlType {
	case sqlString:
		return "string"
	case sqlNumber:
		return "float64"
	case sqlBoolean:
		return "bool"
	case sqlTimestampLTZ:
		return "time.Time"
	default:
		return "any"
	}
}

func placeholders(params []Param) string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	return strings.Split(doc, "\n")
}

// GenerateBindings renders a Go file with one typed wrapper per procedure.
func GenerateBindings(filename, packageName string, procs []StoredProcedure) ([]byte, error) {
	var buf bytes.Buffer

	data := map[string]interface{}{
		"PackageName": packageName,
		"Procedures":  procs,
	}
	if err := bindingsTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing bindings template: %w", err)
	}

	return formatGo(filepath.Base(filename), buf.Bytes())
}

// WriteBindings generates the Go bindings and writes them to path.
func WriteBindings(path, packageName string, procs []StoredProcedure) error {
	content, err := GenerateBindings(path, packageName, procs)
	if err != nil {
		return err
	}

	return writeFile(path, content)
}
