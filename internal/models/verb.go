package models

// DashPlaceholder stands for a form that does not exist
const DashPlaceholder = "—"

// Verb is a catalog entry
type Verb struct {
	ID             int64    `json:"id"`
	Unit           int      `json:"unit"`
	PrincipalParts []string `json:"principal_parts"`
}

// PrincipalPart returns the n-th (1-based) principal part, or "" if absent
func (v *Verb) PrincipalPart(n int) string {
	if n < 1 || n > len(v.PrincipalParts) {
		return ""
	}
	return v.PrincipalParts[n-1]
}

// Headword is the citation form shown in verb pickers: the first
// principal part, or "—, " plus the second when the first does not exist
func (v *Verb) Headword() string {
	first := v.PrincipalPart(1)
	if first == DashPlaceholder {
		return DashPlaceholder + ", " + v.PrincipalPart(2)
	}
	return first
}

// VerbOption is one selectable entry of the availability list
type VerbOption struct {
	ID       int64  `json:"id"`
	Headword string `json:"verb"`
}
