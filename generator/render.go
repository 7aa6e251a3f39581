package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var procedureTmpl = template.Must(template.New("procedure").Funcs(template.FuncMap{
	"joinParams":   joinParams,
	"rightsClause": rightsClause,
	"indent":       indent,
}).Parse(procedureTemplate))

// renderProcedure renders the `create or replace procedure` statement for a bundled procedure.
func renderProcedure(proc StoredProcedure, language, script string) (string, error) {
	if strings.Contains(script, bodyDelimiter) {
		return "", fmt.Errorf("rendering %s: %w", proc.Name, ErrScriptDelimiter)
	}

	var buf bytes.Buffer

	data := map[string]interface{}{
		"Proc":      proc,
		"Language":  language,
		"Script":    script,
		"ResultVar": resultVar,
	}
	if err := procedureTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing procedure template for %s: %w", proc.Name, err)
	}

	return buf.String(), nil
}

func joinParams(params []Param) string {
	p := make([]string, 0, len(params))
	for _, param := range params {
		p = append(p, fmt.Sprintf("%s %s", param.Name, param.Type))
	}

	return strings.Join(p, ", ")
}

// indent prefixes every line of the script with four spaces.
func indent(script string) string {
	lines := strings.Split(strings.TrimRight(script, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}

	return strings.Join(lines, "\n")
}
