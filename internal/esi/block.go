// block.go - Content block kinds and the rule table used to match them
package esi

import (
	"fmt"
	"path"
	"strings"

	"github.com/dlclark/regexp2"
)

// IncludeToken opens every include directive written by Replace.
const IncludeToken = "<esi:include"

// Kind identifies one of the page sections that get swapped for an include.
type Kind int

const (
	Header Kind = iota
	Navigation
	Marquee
	Footer
)

// Kinds lists every block kind in the order the Transformer applies them.
var Kinds = []Kind{Header, Navigation, Marquee, Footer}

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case Navigation:
		return "navigation"
	case Marquee:
		return "marquee"
	case Footer:
		return "footer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the lowercase kind name, or the include resource name
// ("navbar" for Navigation).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "header":
		return Header, nil
	case "navigation", "navbar", "nav":
		return Navigation, nil
	case "marquee":
		return Marquee, nil
	case "footer":
		return Footer, nil
	}
	return 0, fmt.Errorf("unknown block kind %q", s)
}

// BlockDef is the uncompiled description of a block. It is what the YAML
// rules file decodes into.
type BlockDef struct {
	Kind        Kind
	Label       string
	Placeholder string
	Include     string
	Marker      string
	Patterns    []string
}

// Block is a compiled BlockDef. Patterns are tried in order.
type Block struct {
	kind        Kind
	label       string
	placeholder string
	include     string
	marker      string
	patterns    []*regexp2.Regexp
}

func (b *Block) Kind() Kind          { return b.kind }
func (b *Block) Label() string       { return b.label }
func (b *Block) Placeholder() string { return b.placeholder }
func (b *Block) Include() string     { return b.include }
func (b *Block) Marker() string      { return b.marker }
func (b *Block) NumPatterns() int    { return len(b.patterns) }

// Replacement is the text a matched span is swapped for.
func (b *Block) Replacement() string {
	return b.placeholder + "\n  " + IncludeToken + ` src="` + b.include + `" />`
}

// Rules is the compiled block table. It is built once and never mutated, so a
// single value can be shared by every transformation in a run.
type Rules struct {
	blocks [len(kindNames)]*Block
}

var kindNames = [...]string{"header", "navbar", "marquee", "footer"}

// Block returns the compiled block for k.
func (r *Rules) Block(k Kind) *Block {
	if k < 0 || int(k) >= len(r.blocks) {
		return nil
	}
	return r.blocks[k]
}

// headerBoundary and marqueeBoundary stop the non-greedy </div> match at the
// next known section so trailing markup is not swallowed.
const (
	headerBoundary  = `(?=\s*<!-- Navigation|\s*<nav|\s*$)`
	marqueeBoundary = `(?=\s*<!-- Spacer|\s*<div id="marquee-placeholder"|\s*$)`
)

// DefaultDefs returns the built-in block table.
func DefaultDefs() []BlockDef {
	return []BlockDef{
		{
			Kind:        Header,
			Label:       "Header",
			Placeholder: "<!-- Header -->",
			Patterns: []string{
				`(<!-- Header -->.*?</div>)` + headerBoundary,
				`(<div class="header-container">.*?</div>)` + headerBoundary,
			},
		},
		{
			Kind:        Navigation,
			Label:       "Navbar",
			Placeholder: "<!-- Navigation Bar -->",
			Patterns: []string{
				`(<!-- Navigation Bar -->.*?</nav>)`,
				`(<nav class="navbar".*?</nav>)`,
			},
		},
		{
			Kind:        Marquee,
			Label:       "Marquee",
			Placeholder: "<!-- Marquee -->",
			Patterns: []string{
				`(<!-- Marquee -->.*?</div>)` + marqueeBoundary,
				`(<div class="non-mob marquee-container">.*?</div>)` + marqueeBoundary,
			},
		},
		{
			Kind:        Footer,
			Label:       "Footer",
			Placeholder: "<!-- Footer section -->",
			Patterns: []string{
				`(<!-- Footer section -->.*?</footer>)`,
				`(<footer class="site-footer">.*?</footer>)`,
			},
		},
	}
}

// DefaultRules compiles DefaultDefs. The built-in patterns are known good.
func DefaultRules() *Rules {
	r, err := NewRules(DefaultDefs())
	if err != nil {
		panic(err)
	}
	return r
}

// NewRules compiles defs on top of the defaults. Each def replaces the fields
// it sets for its kind; empty fields keep the default value.
func NewRules(defs []BlockDef) (*Rules, error) {
	merged := make(map[Kind]BlockDef, len(kindNames))
	for _, d := range DefaultDefs() {
		merged[d.Kind] = d
	}
	for _, d := range defs {
		if d.Kind < 0 || int(d.Kind) >= len(kindNames) {
			return nil, fmt.Errorf("unknown block kind %d", int(d.Kind))
		}
		base := merged[d.Kind]
		if d.Label != "" {
			base.Label = d.Label
		}
		if d.Placeholder != "" {
			base.Placeholder = d.Placeholder
		}
		if d.Include != "" {
			base.Include = d.Include
		}
		if d.Marker != "" {
			base.Marker = d.Marker
		}
		if len(d.Patterns) > 0 {
			base.Patterns = d.Patterns
		}
		merged[d.Kind] = base
	}

	r := &Rules{}
	for _, k := range Kinds {
		b, err := compileBlock(merged[k])
		if err != nil {
			return nil, err
		}
		r.blocks[k] = b
	}
	return r, nil
}

func compileBlock(d BlockDef) (*Block, error) {
	name := kindNames[d.Kind]
	b := &Block{
		kind:        d.Kind,
		label:       d.Label,
		placeholder: d.Placeholder,
		include:     d.Include,
		marker:      d.Marker,
	}
	if b.include == "" {
		b.include = "/includes/" + name + ".html"
	}
	if b.marker == "" {
		b.marker = path.Base(b.include)
	}
	if b.label == "" {
		b.label = strings.ToUpper(name[:1]) + name[1:]
	}
	if len(d.Patterns) == 0 {
		return nil, fmt.Errorf("%s: no patterns", d.Kind)
	}
	for i, p := range d.Patterns {
		re, err := regexp2.Compile(p, regexp2.Singleline)
		if err != nil {
			return nil, fmt.Errorf("%s: pattern %d: %w", d.Kind, i, err)
		}
		b.patterns = append(b.patterns, re)
	}
	return b, nil
}
