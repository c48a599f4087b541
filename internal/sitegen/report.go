// report.go - ESI integration status report
package sitegen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CiaranMcAleer/esify/internal/esi"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

// StatusEntry is the verdict for one document.
type StatusEntry struct {
	Path     string
	Includes int
	Missing  esi.KindSet
	Err      error
}

// StatusReport groups documents by completeness.
type StatusReport struct {
	Complete   []StatusEntry
	Incomplete []StatusEntry
	Errors     []StatusEntry
	Strict     bool

	rules *esi.Rules
}

// Total is the number of documents examined.
func (r *StatusReport) Total() int { return len(r.Complete) + len(r.Incomplete) }

// Status classifies every selected document. A document is complete when it
// has at least one include directive per block kind; with strict it must
// also carry every kind's marker. Unreadable documents are listed as
// incomplete with zero includes.
func (p *Processor) Status(opts Options, strict bool) (*StatusReport, error) {
	docs, err := DiscoverDocuments(opts.Root, opts.Pattern, opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	rep := &StatusReport{Strict: strict, rules: p.rules}
	for _, path := range docs {
		text, err := ReadDocument(path)
		if err != nil {
			p.logger.Warn("unreadable document", zap.String("path", path), zap.Error(err))
			e := StatusEntry{Path: path, Err: err}
			rep.Errors = append(rep.Errors, e)
			rep.Incomplete = append(rep.Incomplete, e)
			continue
		}
		if isStatusReport(text) {
			p.logger.Debug("skipping status report", zap.String("path", path))
			continue
		}
		v := p.rules.Check(text)
		e := StatusEntry{Path: path, Includes: v.Includes, Missing: v.Missing}
		if v.Includes >= len(esi.Kinds) && (!strict || v.Complete) {
			rep.Complete = append(rep.Complete, e)
		} else {
			rep.Incomplete = append(rep.Incomplete, e)
		}
	}
	return rep, nil
}

func (r *StatusReport) missingLabels(e StatusEntry) string {
	var names []string
	for _, k := range e.Missing.Kinds() {
		names = append(names, r.rules.Block(k).Label())
	}
	return strings.Join(names, ", ")
}

// Render writes the plain-text report. Colours are only emitted when w is a
// terminal.
func (r *StatusReport) Render(w io.Writer) {
	lr := lipgloss.NewRenderer(w)
	title := lr.NewStyle().Bold(true)
	ok := lr.NewStyle().Foreground(lipgloss.Color("2")).Render("[OK]")
	no := lr.NewStyle().Foreground(lipgloss.Color("1")).Render("[NO]")

	fmt.Fprintln(w, title.Render("ESI Integration Status Report"))
	fmt.Fprintln(w, strings.Repeat("=", 40))

	for _, e := range r.Errors {
		fmt.Fprintf(w, "Error reading %s: %v\n", e.Path, e.Err)
	}

	fmt.Fprintf(w, "\n%s\n", title.Render(fmt.Sprintf("COMPLETE FILES (%d files - %d+ ESI includes):", len(r.Complete), len(esi.Kinds))))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, e := range r.Complete {
		fmt.Fprintf(w, "%s %s\n", ok, e.Path)
	}

	fmt.Fprintf(w, "\n%s\n", title.Render(fmt.Sprintf("INCOMPLETE FILES (%d files):", len(r.Incomplete))))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, e := range r.Incomplete {
		line := fmt.Sprintf("%s %s (has %d ESI includes)", no, e.Path, e.Includes)
		if r.Strict && e.Err == nil && !e.Missing.Empty() {
			line += " missing: " + r.missingLabels(e)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n%s\n", title.Render("SUMMARY:"))
	fmt.Fprintf(w, "Complete: %d files\n", len(r.Complete))
	fmt.Fprintf(w, "Incomplete: %d files\n", len(r.Incomplete))
	fmt.Fprintf(w, "Total: %d files\n", r.Total())
}

// Markdown renders the report as a Markdown document with GFM tables.
func (r *StatusReport) Markdown() []byte {
	var b bytes.Buffer
	b.WriteString("# ESI Integration Status Report\n\n")

	fmt.Fprintf(&b, "## Complete files (%d)\n\n", len(r.Complete))
	if len(r.Complete) > 0 {
		b.WriteString("| File | ESI includes |\n|---|---|\n")
		for _, e := range r.Complete {
			fmt.Fprintf(&b, "| %s | %d |\n", mdCell(e.Path), e.Includes)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Incomplete files (%d)\n\n", len(r.Incomplete))
	if len(r.Incomplete) > 0 {
		b.WriteString("| File | ESI includes | Missing |\n|---|---|---|\n")
		for _, e := range r.Incomplete {
			missing := r.missingLabels(e)
			if e.Err != nil {
				missing = "unreadable: " + e.Err.Error()
			}
			fmt.Fprintf(&b, "| %s | %d | %s |\n", mdCell(e.Path), e.Includes, mdCell(missing))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Complete: %d files\n", len(r.Complete))
	fmt.Fprintf(&b, "- Incomplete: %d files\n", len(r.Incomplete))
	fmt.Fprintf(&b, "- Total: %d files\n", r.Total())
	return b.Bytes()
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// reportGenerator tags pages written by WriteHTML so later runs over the
// same directory do not treat the report as a site page.
const reportGenerator = `<meta name="generator" content="esify status">`

func isStatusReport(text string) bool {
	return strings.Contains(text, reportGenerator)
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
` + reportGenerator + `
<title>ESI Integration Status</title>
</head>
<body>
%s<p><small>Generated %s</small></p>
</body>
</html>
`

// HTML renders the Markdown report into a standalone page.
func (r *StatusReport) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(r.Markdown(), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return []byte(fmt.Sprintf(htmlPage, body.String(), time.Now().Format(time.RFC1123))), nil
}

// WriteHTML writes the HTML report to path, creating parent directories.
func (r *StatusReport) WriteHTML(path string) error {
	page, err := r.HTML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(path, page, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
