// checker.go - Include completeness checks
package esi

import "strings"

// IsComplete reports whether every block's marker appears in text.
func (r *Rules) IsComplete(text string) bool {
	return r.Missing(text).Empty()
}

// Missing returns the kinds whose marker does not appear in text.
func (r *Rules) Missing(text string) KindSet {
	var s KindSet
	for _, k := range Kinds {
		if !strings.Contains(text, r.Block(k).Marker()) {
			s = s.Add(k)
		}
	}
	return s
}

// NeedsIntegration is the apply pre-filter: a document is worth processing
// unless it already has an include directive and every marker.
func (r *Rules) NeedsIntegration(text string) bool {
	return !strings.Contains(text, "esi:include") || !r.IsComplete(text)
}

// CountIncludes counts include directives regardless of target. It can reach
// len(Kinds) on a document that is not complete, e.g. four header includes.
func CountIncludes(text string) int {
	return strings.Count(text, IncludeToken)
}

// Verdict classifies one document.
type Verdict struct {
	Complete bool
	Includes int
	Missing  KindSet
}

// Check computes both forms for text. Complete is the marker form; callers
// that want the counting form compare Includes against len(Kinds).
func (r *Rules) Check(text string) Verdict {
	missing := r.Missing(text)
	return Verdict{
		Complete: missing.Empty(),
		Includes: CountIncludes(text),
		Missing:  missing,
	}
}
