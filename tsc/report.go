package tsc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/kalbasit/tsproc/generator"
)

type report struct {
	Diagnostics     []diagnostic           `json:"diagnostics"`
	EmitDiagnostics []diagnostic           `json:"emitDiagnostics"`
	Emitted         string                 `json:"emitted"`
	Declarations    []declaration          `json:"declarations"`
	Signatures      map[string][]signature `json:"signatures"`
	Docs            map[string]string      `json:"docs"`
}

type diagnostic struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type declaration struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Symbol int    `json:"symbol"`
	Tags   []tag  `json:"tags"`
}

type tag struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

type signature struct {
	Symbol     int     `json:"symbol"`
	ReturnType string  `json:"returnType"`
	Params     []param `json:"params"`
}

type param struct {
	Symbol int    `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

func (d diagnostic) toGenerator() generator.Diagnostic {
	out := generator.Diagnostic{Message: d.Message}
	if d.File != "" {
		out.Pos = &generator.Position{File: d.File, Line: d.Line, Column: d.Column}
	}

	return out
}

func toDiagnostics(ds []diagnostic) []generator.Diagnostic {
	if len(ds) == 0 {
		return nil
	}

	out := make([]generator.Diagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.toGenerator())
	}

	return out
}

// decodeReport turns the driver's JSON report into a program. Type-check diagnostics are
// returned instead of a program.
func decodeReport(data []byte, root, outDir string) (*program, []generator.Diagnostic, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	if diags := toDiagnostics(r.Diagnostics); len(diags) > 0 {
		return nil, diags, nil
	}

	p := &program{
		sigs:      make(map[int][]generator.RawSignature, len(r.Signatures)),
		docs:      make(map[int]string, len(r.Docs)),
		emitDiags: toDiagnostics(r.EmitDiagnostics),
		emitted:   generator.Emitted{Path: r.Emitted, OutDir: outDir, RootDir: root},
	}

	for key, doc := range r.Docs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: symbol id %q", ErrInvalidReport, key)
		}

		p.docs[id] = doc
	}

	for key, sigs := range r.Signatures {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: symbol id %q", ErrInvalidReport, key)
		}

		for _, s := range sigs {
			raw := generator.RawSignature{Symbol: generator.Symbol{ID: s.Symbol}, ReturnType: s.ReturnType}
			for _, prm := range s.Params {
				raw.Params = append(raw.Params, generator.RawParam{
					Symbol: generator.Symbol{ID: prm.Symbol, Name: prm.Name},
					Name:   prm.Name,
					Type:   prm.Type,
				})
			}

			p.sigs[id] = append(p.sigs[id], raw)
		}
	}

	for _, d := range r.Declarations {
		decl := generator.Declaration{
			Name:   d.Name,
			Kind:   declKind(d.Kind),
			Symbol: generator.Symbol{ID: d.Symbol, Name: d.Name},
		}
		for _, t := range d.Tags {
			decl.Tags = append(decl.Tags, generator.Tag{Name: t.Name, Comment: t.Comment})
		}

		p.decls = append(p.decls, decl)
	}

	return p, nil, nil
}

func declKind(kind string) generator.DeclKind {
	switch generator.DeclKind(kind) {
	case generator.KindFunction, generator.KindVariable, generator.KindClass:
		return generator.DeclKind(kind)
	default:
		return generator.KindOther
	}
}

// program is a module the driver type-checked and emitted.
type program struct {
	decls     []generator.Declaration
	sigs      map[int][]generator.RawSignature
	docs      map[int]string
	emitted   generator.Emitted
	emitDiags []generator.Diagnostic
}

func (p *program) Declarations() []generator.Declaration { return p.decls }

func (p *program) Signatures(d generator.Declaration) []generator.RawSignature {
	return p.sigs[d.Symbol.ID]
}

func (p *program) Documentation(s generator.Symbol) string { return p.docs[s.ID] }

// Emit reports the emission the driver performed after type-checking.
func (p *program) Emit(context.Context) (generator.Emitted, []generator.Diagnostic, error) {
	if len(p.emitDiags) > 0 {
		return generator.Emitted{}, p.emitDiags, nil
	}

	return p.emitted, nil, nil
}

// Close removes the emitted scripts.
func (p *program) Close() error {
	if p.emitted.OutDir == "" {
		return nil
	}

	return os.RemoveAll(p.emitted.OutDir)
}
