package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CiaranMcAleer/esify/internal/esi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ESIFY_CONFIG", "")
	t.Setenv("ESIFY_PATTERN", "")
	t.Setenv("ESIFY_EXCLUDE_DIRS", "")
	t.Setenv("ESIFY_LOG_LEVEL", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "*.html", cfg.Pattern)
	assert.Equal(t, []string{"includes"}, cfg.ExcludeDirs)
	assert.False(t, cfg.DryRun)
}

func TestLoad_MissingDefaultIsFine(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingExplicitFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "esify.yaml")
	yml := `pattern: "**/*.htm"
dry_run: true
exclude_dirs: [partials]
rules:
  - kind: navbar
    include: /ssi/nav.html
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	t.Setenv("ESIFY_EXCLUDE_DIRS", "includes, vendor")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "**/*.htm", cfg.Pattern)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []string{"includes", "vendor"}, cfg.ExcludeDirs)

	rules, err := cfg.BuildRules()
	require.NoError(t, err)
	assert.Equal(t, "/ssi/nav.html", rules.Block(esi.Navigation).Include())
	assert.Equal(t, "/includes/header.html", rules.Block(esi.Header).Include())
}

func TestBuildRules_UnknownKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []RuleConfig{{Kind: "sidebar"}}
	_, err := cfg.BuildRules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules[0]")
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))

	l, err = NewLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}

func TestBuildRules_IncludeOverrideDrivesMarker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []RuleConfig{{Kind: "navbar", Include: "/ssi/nav.html"}}

	rules, err := cfg.BuildRules()
	require.NoError(t, err)
	assert.Equal(t, "nav.html", rules.Block(esi.Navigation).Marker())
	assert.Equal(t, "header.html", rules.Block(esi.Header).Marker())

	page := `<!-- Header --><div class="logo">Logo</div>
<!-- Navigation Bar --><nav><a href="/">Home</a></nav>
<!-- Marquee --><div class="non-mob marquee-container">News</div>
<!-- Spacer -->
<!-- Footer section --><footer class="site-footer">(c)</footer>
`
	res := esi.NewTransformer(rules, nil).Transform(page)
	require.True(t, res.Modified())
	assert.Contains(t, res.Text, `<esi:include src="/ssi/nav.html" />`)
	assert.True(t, rules.IsComplete(res.Text))
	assert.False(t, rules.NeedsIntegration(res.Text))
	assert.True(t, rules.Missing(res.Text).Empty())
}

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
