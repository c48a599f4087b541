// processor.go - Applying include directives to a directory of documents
package sitegen

import (
	"fmt"
	"io"
	"time"

	"github.com/CiaranMcAleer/esify/internal/esi"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Options selects the documents a run works on.
type Options struct {
	Root        string
	Pattern     string
	ExcludeDirs []string
	DryRun      bool
}

// Processor runs the transformer and the completeness checks over documents
// on disk and prints progress lines to out.
type Processor struct {
	rules       *esi.Rules
	transformer *esi.Transformer
	logger      *zap.Logger
	out         io.Writer
	write       func(path, text string) error
}

// NewProcessor creates a processor. A nil logger disables diagnostics.
func NewProcessor(rules *esi.Rules, logger *zap.Logger, out io.Writer) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		rules:       rules,
		transformer: esi.NewTransformer(rules, logger),
		logger:      logger,
		out:         out,
		write:       WriteDocument,
	}
}

// ApplySummary is what an Apply run did.
type ApplySummary struct {
	Found      int
	Updated    []string
	Complete   []string
	Incomplete []string
	Failed     []string
}

// Apply converts every selected document that still needs integration and
// then re-checks the whole set. A failing document is reported and skipped;
// all failures are returned together once the run is over.
func (p *Processor) Apply(opts Options) (*ApplySummary, error) {
	startTime := time.Now()
	docs, err := DiscoverDocuments(opts.Root, opts.Pattern, opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("discovered documents", zap.String("root", opts.Root), zap.Int("count", len(docs)))

	sum := &ApplySummary{}
	var errs error

	var pages, pending []string
	for _, path := range docs {
		text, err := ReadDocument(path)
		if err != nil {
			errs = multierr.Append(errs, p.fail(sum, path, err))
			pages = append(pages, path)
			continue
		}
		if isStatusReport(text) {
			p.logger.Debug("skipping status report", zap.String("path", path))
			continue
		}
		pages = append(pages, path)
		if p.rules.NeedsIntegration(text) {
			pending = append(pending, path)
		}
	}
	sum.Found = len(pending)
	fmt.Fprintf(p.out, "Found %d files to process\n", len(pending))

	for _, path := range pending {
		updated, err := p.ProcessDocument(path, opts.DryRun)
		if err != nil {
			errs = multierr.Append(errs, p.fail(sum, path, err))
			continue
		}
		if updated {
			sum.Updated = append(sum.Updated, path)
		}
	}

	verb := "Updated"
	if opts.DryRun {
		verb = "Would update"
	}
	fmt.Fprintf(p.out, "\nCompleted! %s %d files\n", verb, len(sum.Updated))

	fmt.Fprintf(p.out, "\n=== FINAL STATUS ===\n")
	for _, path := range pages {
		text, err := ReadDocument(path)
		if err != nil {
			errs = multierr.Append(errs, p.fail(sum, path, err))
			sum.Incomplete = append(sum.Incomplete, path)
			continue
		}
		if p.rules.IsComplete(text) {
			sum.Complete = append(sum.Complete, path)
		} else {
			sum.Incomplete = append(sum.Incomplete, path)
			fmt.Fprintf(p.out, "   Still incomplete: %s\n", path)
		}
	}
	fmt.Fprintf(p.out, "Files with complete ESI: %d\n", len(sum.Complete))
	fmt.Fprintf(p.out, "Files with incomplete ESI: %d\n", len(sum.Incomplete))

	p.logger.Info("apply finished",
		zap.Int("updated", len(sum.Updated)),
		zap.Int("failed", len(sum.Failed)),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return sum, errs
}

// ProcessDocument transforms one document and writes it back when a block
// was replaced. With dryRun the document is left untouched. It reports
// whether the document was (or would have been) updated.
func (p *Processor) ProcessDocument(path string, dryRun bool) (bool, error) {
	fmt.Fprintf(p.out, "Processing: %s\n", path)

	text, err := ReadDocument(path)
	if err != nil {
		return false, fmt.Errorf("read: %w", err)
	}
	res := p.transformer.Transform(text)
	if !res.Modified() || res.Text == text {
		fmt.Fprintf(p.out, "   No changes: %s\n", path)
		return false, nil
	}

	applied := res.Labels(p.rules)
	if dryRun {
		fmt.Fprintf(p.out, "   Would update: %s - Applied: %s\n", path, applied)
		return true, nil
	}

	opStart := time.Now()
	if err := p.write(path, res.Text); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	p.logger.Debug("document written", zap.String("path", path), zap.Duration("elapsed", time.Since(opStart)))
	fmt.Fprintf(p.out, "   Updated: %s - Applied: %s\n", path, applied)
	return true, nil
}

// fail records a per-document failure once; repeats for the same path
// return nil.
func (p *Processor) fail(sum *ApplySummary, path string, err error) error {
	for _, f := range sum.Failed {
		if f == path {
			return nil
		}
	}
	sum.Failed = append(sum.Failed, path)
	fmt.Fprintf(p.out, "   Error: %s: %v\n", path, err)
	p.logger.Error("document failed", zap.String("path", path), zap.Error(err))
	return fmt.Errorf("%s: %w", path, err)
}
