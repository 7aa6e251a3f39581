package generator

import (
	"strconv"
	"strings"
)

// mapType maps a source type name to a SQL type name. It never fails: anything it does not
// recognize is a VARIANT.
func mapType(t string) string {
	t = strings.TrimSpace(t)

	if members := splitUnion(t); len(members) > 1 {
		return mapUnion(members)
	}

	switch t {
	case typeString:
		return sqlString
	case typeNumber, typeBigint:
		return sqlNumber
	case typeBoolean, "true", "false":
		return sqlBoolean
	case typeDate:
		return sqlTimestampLTZ
	case typeObject, typeAny, typeUnknown, typeJSON:
		return sqlVariant
	}

	switch {
	case isFunctionType(t):
		return sqlVariant
	case isArrayType(t):
		return sqlArray
	case isStringLiteral(t):
		return sqlString
	case isNumericLiteral(t):
		return sqlNumber
	default:
		return sqlVariant
	}
}

// mapReturnType is mapType, except that a return type denoting "no value" becomes a nullable
// VARIANT.
func mapReturnType(t string) string {
	if isNoValue(strings.TrimSpace(t)) {
		return sqlVariantNull
	}

	return mapType(t)
}

func isNoValue(t string) bool {
	switch t {
	case typeVoid, typeUndefined, typeNever, typeNull:
		return true
	}

	return false
}

// mapUnion drops null and undefined members; the union maps to a concrete type only when every
// remaining member agrees on it.
func mapUnion(members []string) string {
	mapped := ""

	for _, m := range members {
		if m == typeNull || m == typeUndefined {
			continue
		}

		sqlType := mapType(m)
		if mapped != "" && mapped != sqlType {
			return sqlVariant
		}

		mapped = sqlType
	}

	if mapped == "" {
		return sqlVariant
	}

	return mapped
}

// splitUnion splits t on top-level `|`, ignoring bars nested in brackets or string literals.
func splitUnion(t string) []string {
	var (
		members []string
		start   int
	)

	scanTopLevel(t, func(i int, r rune) {
		if r == '|' {
			members = append(members, strings.TrimSpace(t[start:i]))
			start = i + 1
		}
	})

	return append(members, strings.TrimSpace(t[start:]))
}

// isFunctionType reports whether t has an arrow outside any brackets, e.g. `(a: string) => string[]`.
func isFunctionType(t string) bool {
	found := false

	scanTopLevel(t, func(i int, r rune) {
		if r == '=' && strings.HasPrefix(t[i:], "=>") {
			found = true
		}
	})

	return found
}

// scanTopLevel calls visit for every rune of t that is outside brackets and string literals.
// The `>` of an arrow does not close a bracket.
func scanTopLevel(t string, visit func(i int, r rune)) {
	var (
		depth int
		quote rune
		prev  rune
	)

	for i, r := range t {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '<' || r == '(' || r == '[' || r == '{':
			depth++
		case r == '>' && prev == '=':
		case r == '>' || r == ')' || r == ']' || r == '}':
			depth--
		case depth == 0:
			visit(i, r)
		}

		prev = r
	}
}

func isArrayType(t string) bool {
	t = strings.TrimPrefix(t, "readonly ")

	switch {
	case strings.HasSuffix(t, "[]"):
		return true
	case strings.HasPrefix(t, "Array<"), strings.HasPrefix(t, "ReadonlyArray<"):
		return true
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		return true
	}

	return false
}

func isStringLiteral(t string) bool {
	if len(t) < 2 {
		return false
	}

	switch t[0] {
	case '"', '\'', '`':
		return t[len(t)-1] == t[0]
	}

	return false
}

// isNumericLiteral accepts decimal number and bigint literal types such as `42`, `-1.5` or `10n`.
func isNumericLiteral(t string) bool {
	digits := strings.TrimPrefix(t, "-")
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return false
	}

	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return true
	}

	if strings.HasSuffix(t, "n") {
		_, err := strconv.ParseInt(strings.TrimSuffix(t, "n"), 10, 64)

		return err == nil
	}

	return false
}
