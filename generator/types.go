package generator

import (
	"context"
	"fmt"
)

// Position is a 1-based source location.
type Position struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one compiler- or bundler-reported problem.
type Diagnostic struct {
	Message string
	Pos     *Position // nil when the problem has no source location
}

// String renders the diagnostic as `<file> (<line>,<col>): <message>`, or the bare message
// when it carries no position.
func (d Diagnostic) String() string {
	if d.Pos == nil {
		return d.Message
	}

	return fmt.Sprintf("%s (%d,%d): %s", d.Pos.File, d.Pos.Line, d.Pos.Column, d.Message)
}

// Symbol is an opaque handle the type checker hands out for declarations and parameters.
type Symbol struct {
	ID   int
	Name string
}

// DeclKind classifies a top-level declaration.
type DeclKind string

const (
	KindFunction DeclKind = "function"
	KindVariable DeclKind = "variable"
	KindClass    DeclKind = "class"
	KindOther    DeclKind = "other"
)

// Tag is one JSDoc tag attached to a declaration, e.g. `@procedure caller`.
type Tag struct {
	Name    string
	Comment string
}

// Declaration is a top-level declaration of a type-checked module.
type Declaration struct {
	Name   string
	Kind   DeclKind
	Symbol Symbol
	Tags   []Tag
}

// RawParam is a parameter as resolved by the type checker.
type RawParam struct {
	Symbol Symbol
	Name   string
	Type   string
}

// RawSignature is one call signature as resolved by the type checker.
type RawSignature struct {
	Symbol     Symbol
	Params     []RawParam
	ReturnType string
}

// ParamSignature is a parameter with its resolved type and documentation.
type ParamSignature struct {
	Name string
	Type string
	Doc  string
}

// CallSignature is the unique call signature of an eligible declaration.
type CallSignature struct {
	Params     []ParamSignature
	ReturnType string
	Doc        string
}

// Param is a target-facing procedure parameter.
type Param struct {
	Name       string // upper-cased SQL name
	SourceName string // name as written in the source
	Type       string // SQL type
}

// StoredProcedure describes one procedure to render. It is built once per eligible declaration
// and never mutated afterwards.
type StoredProcedure struct {
	Name       string
	Params     []Param
	ReturnType string
	Rights     Rights
	Doc        string
}

// Emitted locates the emitted script of a module.
type Emitted struct {
	Path    string // emitted script for the module itself
	OutDir  string // root of all emitted scripts
	RootDir string // source root mirrored under OutDir
}

// Program is a type-checked module.
type Program interface {
	// Declarations returns the module's top-level declarations in declaration order.
	Declarations() []Declaration
	// Signatures returns every call signature the declaration's type resolves to.
	Signatures(d Declaration) []RawSignature
	// Documentation returns the doc comment attached to a symbol, or "".
	Documentation(s Symbol) string
	// Emit writes the runnable script form of the module.
	Emit(ctx context.Context) (Emitted, []Diagnostic, error)
	// Close releases emitted artifacts.
	Close() error
}

// Compiler type-checks modules.
type Compiler interface {
	Compile(ctx context.Context, modulePath string) (Program, []Diagnostic, error)
}

// BundleRequest asks the bundler to inline everything reachable from Entry.
type BundleRequest struct {
	Dir   string // scratch directory holding Entry
	Entry string
	// Emitted is the emitted layout the entry imports from; it is used to resolve path aliases.
	Emitted Emitted
}

// BundleResult is either a bundled script or the diagnostics explaining why there is none.
type BundleResult struct {
	Script      string
	Diagnostics []Diagnostic
}

// BundleFunc is the bundling collaborator.
type BundleFunc func(ctx context.Context, req BundleRequest) BundleResult

// ModuleResult is the outcome of one module's pipeline.
type ModuleResult struct {
	Path        string
	Statements  []string
	Procedures  []StoredProcedure
	Diagnostics []Diagnostic
}

// Result is the outcome of a batch run.
type Result struct {
	Modules     []ModuleResult
	Diagnostics []Diagnostic
	Output      string
}

// OK reports whether no module produced diagnostics.
func (r Result) OK() bool { return len(r.Diagnostics) == 0 }

// Procedures returns every descriptor of a successful run in module order.
func (r Result) Procedures() []StoredProcedure {
	var procs []StoredProcedure
	for _, m := range r.Modules {
		procs = append(procs, m.Procedures...)
	}

	return procs
}
