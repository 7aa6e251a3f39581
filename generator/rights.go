package generator

import "strings"

// Rights is the execution-rights mode of a procedure.
type Rights int

const (
	RightsNotSpecified Rights = iota
	RightsCaller
	RightsOwner
)

func (r Rights) String() string {
	switch r {
	case RightsCaller:
		return "CALLER"
	case RightsOwner:
		return "OWNER"
	default:
		return ""
	}
}

// resolveRights reads the comment of the procedure marker tag. The keywords are
// case-sensitive; anything else leaves the rights unspecified.
func resolveRights(tags []Tag) Rights {
	tag, ok := findTag(tags, markerTag)
	if !ok {
		return RightsNotSpecified
	}

	switch strings.TrimSpace(tag.Comment) {
	case rightsCaller:
		return RightsCaller
	case rightsOwner:
		return RightsOwner
	default:
		return RightsNotSpecified
	}
}

// rightsClause renders the `execute as` clause, or nothing when rights are unspecified.
func rightsClause(r Rights) string {
	if r == RightsNotSpecified {
		return ""
	}

	return " execute as " + r.String()
}
