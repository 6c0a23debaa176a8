package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	server     *httptest.Server
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	server := newFakeWikidata(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithEndpoints(server.URL)}, opts...)...)
	testsupport.SeedCorpus(t, cfg.Paths.Database,
		testsupport.Articles("Dr. Edmond Halley", 1686, 1720, 30),
		testsupport.Articles("Robert Boyle", 1665, 1690, 12),
	)

	configPath := filepath.Join(t.TempDir(), "ground.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, server: server}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

const halleyDetails = `{"results":{"bindings":[{
	"itemLabel":{"type":"literal","value":"Edmond Halley"},
	"itemDescription":{"type":"literal","value":"English astronomer"},
	"birth":{"type":"literal","value":"1656-11-08T00:00:00Z"},
	"death":{"type":"literal","value":"1742-01-25T00:00:00Z"},
	"isHuman":{"type":"literal","value":"true"},
	"member":{"type":"literal","value":"true"},
	"sitelink":{"type":"uri","value":"https://en.wikipedia.org/wiki/Edmond_Halley"}
}]}}`

// newFakeWikidata knows a single person, Edmond Halley.
func newFakeWikidata(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("search") == "Edmond Halley" {
			_, _ = w.Write([]byte(`{"search":[{"id":"Q47434","label":"Edmond Halley","description":"English astronomer"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"search":[]}`))
	})
	mux.HandleFunc("/sparql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		query := r.URL.Query().Get("query")
		switch {
		case strings.HasPrefix(query, "ASK"):
			_, _ = w.Write([]byte(`{"head":{},"boolean":true}`))
		case strings.Contains(query, "wd:Q47434"):
			_, _ = w.Write([]byte(halleyDetails))
		default:
			_, _ = w.Write([]byte(`{"results":{"bindings":[]}}`))
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
