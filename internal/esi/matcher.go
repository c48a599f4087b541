// matcher.go - Locating a block's markup in a document
package esi

// Span is the byte range [Start, End) of a matched block plus the index of
// the pattern that found it.
type Span struct {
	Start   int
	End     int
	Pattern int
}

// Find tries k's patterns in priority order and returns the first match.
// Later patterns are fallbacks for markup without the primary anchor; once a
// pattern matches the rest are not consulted.
func (r *Rules) Find(text string, k Kind) (Span, bool) {
	b := r.Block(k)
	if b == nil {
		return Span{}, false
	}
	for i, re := range b.patterns {
		// FindStringMatch only errors when MatchTimeout is exceeded, and
		// compileBlock never sets one.
		m, _ := re.FindStringMatch(text)
		if m == nil {
			continue
		}
		// Patterns wrap the block in group 1 so the boundary lookahead stays
		// outside the span. Fall back to the whole match if a custom pattern
		// has no group.
		g := m.GroupByNumber(1)
		start, length := m.Index, m.Length
		if g != nil && len(g.Captures) > 0 {
			start, length = g.Index, g.Length
		}
		return Span{
			Start:   runeOffsetToByte(text, start),
			End:     runeOffsetToByte(text, start+length),
			Pattern: i,
		}, true
	}
	return Span{}, false
}

// regexp2 reports positions in runes; the rest of the package slices strings
// by byte.
func runeOffsetToByte(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}
