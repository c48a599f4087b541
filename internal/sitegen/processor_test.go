package sitegen

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CiaranMcAleer/esify/internal/esi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyPage = `<html><body>
<!-- Header -->
<div class="header-container"><img src="/logo.png"></div>
<!-- Navigation Bar -->
<nav class="navbar"><a href="/">Home</a></nav>
<!-- Marquee -->
<div class="non-mob marquee-container"><span>News</span></div>
<!-- Spacer -->
<main>Body</main>
<!-- Footer section -->
<footer class="site-footer">(c)</footer>
</body></html>
`

const partialPage = `<html><body>
<!-- Header --><div class="logo">Logo</div><!-- Navigation Bar --><nav><a href="/">Home</a></nav>
<main>Body</main>
</body></html>
`

func newTestProcessor(out *bytes.Buffer) *Processor {
	return NewProcessor(esi.DefaultRules(), nil, out)
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), legacyPage)
	writeFile(t, filepath.Join(root, "about.html"), partialPage)
	writeFile(t, filepath.Join(root, "plain.html"), "<p>nothing to do</p>")
	writeFile(t, filepath.Join(root, "includes", "header.html"), "<!-- Header --><div>h</div>")

	var out bytes.Buffer
	sum, err := newTestProcessor(&out).Apply(Options{Root: root, Pattern: "*.html", ExcludeDirs: []string{"includes"}})
	require.NoError(t, err)

	index := filepath.Join(root, "index.html")
	about := filepath.Join(root, "about.html")
	plain := filepath.Join(root, "plain.html")

	assert.Equal(t, 3, sum.Found)
	if diff := cmp.Diff([]string{about, index}, sum.Updated); diff != "" {
		t.Errorf("updated mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{index}, sum.Complete)
	assert.Equal(t, []string{about, plain}, sum.Incomplete)
	assert.Empty(t, sum.Failed)

	got, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, 4, esi.CountIncludes(string(got)))
	assert.Contains(t, string(got), "<!-- Spacer -->")

	report := out.String()
	assert.Contains(t, report, "Found 3 files to process\n")
	assert.Contains(t, report, "   Updated: "+about+" - Applied: Header, Navbar\n")
	assert.Contains(t, report, "   Updated: "+index+" - Applied: Header, Navbar, Marquee, Footer\n")
	assert.Contains(t, report, "   No changes: "+plain+"\n")
	assert.Contains(t, report, "Completed! Updated 2 files")
	assert.Contains(t, report, "   Still incomplete: "+about+"\n")
	assert.Contains(t, report, "Files with complete ESI: 1\n")
	assert.Contains(t, report, "Files with incomplete ESI: 2\n")

	// Include fragments are never rewritten.
	h, err := os.ReadFile(filepath.Join(root, "includes", "header.html"))
	require.NoError(t, err)
	assert.Equal(t, "<!-- Header --><div>h</div>", string(h))
}

func TestApply_SecondRunIsNoop(t *testing.T) {
	root := t.TempDir()
	index := filepath.Join(root, "index.html")
	writeFile(t, index, legacyPage)

	var out bytes.Buffer
	p := newTestProcessor(&out)
	_, err := p.Apply(Options{Root: root})
	require.NoError(t, err)
	first, err := os.ReadFile(index)
	require.NoError(t, err)

	out.Reset()
	sum, err := p.Apply(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Found)
	assert.Empty(t, sum.Updated)

	second, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestApply_DryRun(t *testing.T) {
	root := t.TempDir()
	index := filepath.Join(root, "index.html")
	writeFile(t, index, legacyPage)

	var out bytes.Buffer
	sum, err := newTestProcessor(&out).Apply(Options{Root: root, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{index}, sum.Updated)
	assert.Contains(t, out.String(), "   Would update: "+index)
	assert.Contains(t, out.String(), "Completed! Would update 1 files")

	got, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, legacyPage, string(got))
}

func TestApply_IsolatesFailures(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.html")
	bad := filepath.Join(root, "bad.html")
	writeFile(t, good, legacyPage)
	writeFile(t, bad, legacyPage)

	var out bytes.Buffer
	p := newTestProcessor(&out)
	p.write = func(path, text string) error {
		if path == bad {
			return errors.New("disk full")
		}
		return WriteDocument(path, text)
	}
	sum, err := p.Apply(Options{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{bad}, sum.Failed)
	assert.Equal(t, []string{good}, sum.Updated)
	assert.Equal(t, []string{good}, sum.Complete)
	assert.Equal(t, []string{bad}, sum.Incomplete)
	assert.Equal(t, 1, strings.Count(out.String(), "   Error: "+bad))

	data, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, legacyPage, string(data))
}

func TestApply_SkipsStatusReport(t *testing.T) {
	root := setupStatusDir(t)

	var out bytes.Buffer
	rep, err := newTestProcessor(&out).Status(Options{Root: root}, false)
	require.NoError(t, err)
	report := filepath.Join(root, "status.html")
	require.NoError(t, rep.WriteHTML(report))
	before, err := os.ReadFile(report)
	require.NoError(t, err)

	out.Reset()
	sum, err := newTestProcessor(&out).Apply(Options{Root: root})
	require.NoError(t, err)
	assert.NotContains(t, sum.Updated, report)
	assert.NotContains(t, sum.Complete, report)
	assert.NotContains(t, sum.Incomplete, report)
	assert.Len(t, append(sum.Complete, sum.Incomplete...), 3)

	after, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestProcessDocument_NoChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.html")
	writeFile(t, path, "<p>plain</p>")

	var out bytes.Buffer
	updated, err := newTestProcessor(&out).ProcessDocument(path, false)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, "Processing: "+path+"\n   No changes: "+path+"\n", out.String())
}

func TestProcessDocument_MissingFile(t *testing.T) {
	var out bytes.Buffer
	_, err := newTestProcessor(&out).ProcessDocument(filepath.Join(t.TempDir(), "gone.html"), false)
	assert.Error(t, err)
}
