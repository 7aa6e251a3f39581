package generator

import "strings"

// buildProcedure assembles the descriptor of an eligible declaration. The first parameter is
// the platform connection and is never exposed.
func buildProcedure(d Declaration, sig CallSignature) StoredProcedure {
	params := sig.Params
	if len(params) > 0 {
		params = params[1:]
	}

	proc := StoredProcedure{
		Name:       d.Name,
		Params:     make([]Param, 0, len(params)),
		ReturnType: mapReturnType(sig.ReturnType),
		Rights:     resolveRights(d.Tags),
		Doc:        sig.Doc,
	}

	for _, p := range params {
		proc.Params = append(proc.Params, Param{
			Name:       strings.ToUpper(p.Name),
			SourceName: p.Name,
			Type:       mapType(p.Type),
		})
	}

	return proc
}
