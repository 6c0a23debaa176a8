// Package testsupport builds isolated configs, stores and corpus fixtures
// for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. Pacing
// delays are zeroed so tests do not sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Database = filepath.Join(base, "jstor_metadata.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Grounding.CallDelayMillis = 0
	cfgVal.Grounding.IdentityPauseMillis = 0
	cfgVal.Wikidata.UserAgent = "GroundTest/1.0 (test@example.org)"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithEndpoints points the Wikidata URLs at a test server.
func WithEndpoints(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Wikidata.APIURL = baseURL + "/w/api.php"
		b.cfg.Wikidata.SPARQLURL = baseURL + "/sparql"
	}
}

// WithOverrideFiles sets extra curated batch files and skips the embedded ones.
func WithOverrideFiles(paths ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Overrides.Files = paths
		b.cfg.Overrides.SkipEmbedded = true
	}
}
