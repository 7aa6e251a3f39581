package generator

// scanDeclarations returns the top-level functions tagged with the procedure marker, in
// declaration order.
func scanDeclarations(decls []Declaration) []Declaration {
	var eligible []Declaration

	for _, d := range decls {
		if d.Kind != KindFunction {
			continue
		}

		if _, ok := findTag(d.Tags, markerTag); ok {
			eligible = append(eligible, d)
		}
	}

	return eligible
}

func findTag(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Name == name {
			return t, true
		}
	}

	return Tag{}, false
}

// extractSignature resolves the unique call signature of an eligible declaration.
func extractSignature(p Program, d Declaration) (CallSignature, error) {
	sigs := p.Signatures(d)
	if len(sigs) != 1 {
		return CallSignature{}, errAmbiguousSignature(d.Name, len(sigs))
	}

	raw := sigs[0]
	sig := CallSignature{
		Params:     make([]ParamSignature, 0, len(raw.Params)),
		ReturnType: raw.ReturnType,
		Doc:        p.Documentation(raw.Symbol),
	}

	for _, param := range raw.Params {
		sig.Params = append(sig.Params, ParamSignature{
			Name: param.Name,
			Type: param.Type,
			Doc:  p.Documentation(param.Symbol),
		})
	}

	return sig, nil
}
