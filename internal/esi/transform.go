// transform.go - Swapping matched blocks for include directives
package esi

import (
	"strings"

	"go.uber.org/zap"
)

// Replace swaps exactly the bytes covered by span for b's replacement text.
func Replace(text string, span Span, b *Block) string {
	return text[:span.Start] + b.Replacement() + text[span.End:]
}

// KindSet is a small set of block kinds.
type KindSet uint8

func (s KindSet) Add(k Kind) KindSet { return s | 1<<uint(k) }
func (s KindSet) Has(k Kind) bool    { return s&(1<<uint(k)) != 0 }
func (s KindSet) Empty() bool        { return s == 0 }
func (s KindSet) Len() int {
	n := 0
	for _, k := range Kinds {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds returns the members in application order.
func (s KindSet) Kinds() []Kind {
	var out []Kind
	for _, k := range Kinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Result is the outcome of transforming one document.
type Result struct {
	Text    string
	Changed KindSet
}

// Modified reports whether the document should be written back.
func (r Result) Modified() bool { return !r.Changed.Empty() }

// Labels returns the display labels of the changed kinds, e.g. "Header, Navbar".
func (r Result) Labels(rules *Rules) string {
	var names []string
	for _, k := range r.Changed.Kinds() {
		names = append(names, rules.Block(k).Label())
	}
	return strings.Join(names, ", ")
}

// Transformer applies every block of a rule table to a document.
type Transformer struct {
	rules  *Rules
	logger *zap.Logger
}

// NewTransformer creates a Transformer. A nil logger disables diagnostics.
func NewTransformer(rules *Rules, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{rules: rules, logger: logger}
}

// Transform applies Header, Navigation, Marquee and Footer in that order.
// Each kind is substituted at most once. A kind whose include path is already
// in the document is skipped, so running Transform on its own output changes
// nothing.
func (t *Transformer) Transform(text string) Result {
	res := Result{Text: text}
	for _, k := range Kinds {
		b := t.rules.Block(k)
		if strings.Contains(res.Text, b.Include()) {
			t.logger.Debug("block already included", zap.Stringer("kind", k))
			continue
		}
		span, ok := t.rules.Find(res.Text, k)
		if !ok {
			continue
		}
		t.logger.Debug("block matched",
			zap.Stringer("kind", k),
			zap.Int("pattern", span.Pattern),
			zap.Int("start", span.Start),
			zap.Int("end", span.End),
		)
		res.Text = Replace(res.Text, span, b)
		res.Changed = res.Changed.Add(k)
	}
	return res
}
