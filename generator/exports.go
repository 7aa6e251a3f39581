package generator

import "context"

// This file exports internal functions for use in tests and by external callers.

// ScanDeclarations returns the top-level functions carrying the procedure marker.
func ScanDeclarations(decls []Declaration) []Declaration { return scanDeclarations(decls) }

// ExtractSignature resolves the unique call signature of a declaration.
func ExtractSignature(p Program, d Declaration) (CallSignature, error) { return extractSignature(p, d) }

// MapType maps a source type name to a SQL type name.
func MapType(t string) string { return mapType(t) }

// MapReturnType maps a source return type name to a SQL type name.
func MapReturnType(t string) string { return mapReturnType(t) }

// ResolveRights reads the rights mode from a declaration's tags.
func ResolveRights(tags []Tag) Rights { return resolveRights(tags) }

// RightsClause renders the `execute as` clause for a rights mode.
func RightsClause(r Rights) string { return rightsClause(r) }

// BuildProcedure assembles a descriptor from a declaration and its signature.
func BuildProcedure(d Declaration, sig CallSignature) StoredProcedure { return buildProcedure(d, sig) }

// EntryScript renders the script that calls a procedure's function.
func EntryScript(emittedPath string, proc StoredProcedure) string { return entryScript(emittedPath, proc) }

// BundleProcedure bundles one procedure in a scratch directory.
func BundleProcedure(ctx context.Context, opts Options, emitted Emitted, proc StoredProcedure) BundleResult {
	return bundleProcedure(ctx, opts, emitted, proc)
}

// RenderProcedure renders a procedure statement.
func RenderProcedure(proc StoredProcedure, language, script string) (string, error) {
	return renderProcedure(proc, language, script)
}

// Indent prefixes every script line with four spaces.
func Indent(script string) string { return indent(script) }

// ToCamelCase converts snake_case to CamelCase.
func ToCamelCase(s string) string { return toCamelCase(s) }

// GoParamName converts a source parameter name into a Go identifier.
func GoParamName(s string) string { return goParamName(s) }

// Pluralize returns word for n == 1 and its plural otherwise.
func Pluralize(n int, word string) string { return pluralize(n, word) }

// ResultVar is the variable the procedure body returns.
const ResultVar = resultVar

// MarkerTag is the JSDoc tag marking a function as a procedure.
const MarkerTag = markerTag
