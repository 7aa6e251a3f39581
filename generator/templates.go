package generator

const procedureTemplate = `create or replace procedure {{ .Proc.Name }}({{ joinParams .Proc.Params }}) ` +
	`returns {{ .Proc.ReturnType }} language {{ .Language }}{{ rightsClause .Proc.Rights }} as $$
    let {{ .ResultVar }} = null;

{{ indent .Script }}
    return {{ .ResultVar }};
$$;`

const bindingsTemplate = `// Code generated by tsproc. DO NOT EDIT.

package {{ .PackageName }}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
{{ range .Procedures }}
// {{ funcName .Name }} calls the {{ .Name }} procedure{{ with .Params }} with {{ len . }} {{ argumentNoun (len .) }}{{ end }}.
{{- range docLines .Doc }}
// {{ . }}
{{- end }}
func {{ funcName .Name }}(ctx context.Context, q Querier{{ range .Params }}, {{ goParam .SourceName }} {{ goType .Type }}{{ end }}) ({{ goType .ReturnType }}, error) {
	var result {{ goType .ReturnType }}

	err := q.QueryRowContext(ctx, "CALL {{ .Name }}({{ placeholders .Params }})"{{ range .Params }}, {{ goParam .SourceName }}{{ end }}).Scan(&result)

	return result, err
}
{{ end }}`
