package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	// Database is the SQLite file holding both the bibliographic corpus
	// (documents, authors) and the author_wikidata match table.
	Database string `toml:"database"`
	LogDir   string `toml:"log_dir"`
}

// Wikidata contains knowledge-base endpoint settings.
type Wikidata struct {
	APIURL             string `toml:"api_url"`
	SPARQLURL          string `toml:"sparql_url"`
	Language           string `toml:"language"`
	UserAgent          string `toml:"user_agent"`
	SearchLimit        int    `toml:"search_limit"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	MembershipProperty string `toml:"membership_property"`
	MembershipTarget   string `toml:"membership_target"`
}

// Grounding contains the matching policy and pacing knobs.
type Grounding struct {
	CandidateLimit      int     `toml:"candidate_limit"`
	AcceptanceThreshold float64 `toml:"acceptance_threshold"`
	CallDelayMillis     int     `toml:"call_delay_ms"`
	IdentityPauseMillis int     `toml:"identity_pause_ms"`
	ProgressEvery       int     `toml:"progress_every"`
}

// Overrides lists extra curated batch files applied alongside the embedded ones.
type Overrides struct {
	Files        []string `toml:"files"`
	SkipEmbedded bool     `toml:"skip_embedded"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the grounding CLI.
//
// Configuration sections by subsystem:
//   - Paths: corpus/match database and log directory
//   - Wikidata: search, SPARQL and membership relation settings
//   - Grounding: candidate count, acceptance threshold, pacing, progress cadence
//   - Overrides: curated manual match batches
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Wikidata  Wikidata  `toml:"wikidata"`
	Grounding Grounding `toml:"grounding"`
	Overrides Overrides `toml:"overrides"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ground/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ground.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the database parent directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.Database)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request timeout for knowledge-base calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Wikidata.TimeoutSeconds) * time.Second
}

// CallDelay returns the minimum spacing between outbound calls.
func (c *Config) CallDelay() time.Duration {
	return time.Duration(c.Grounding.CallDelayMillis) * time.Millisecond
}

// IdentityPause returns the pause inserted between two identities.
func (c *Config) IdentityPause() time.Duration {
	return time.Duration(c.Grounding.IdentityPauseMillis) * time.Millisecond
}

// LockPath returns the advisory lock file guarding the match store.
func (c *Config) LockPath() string {
	return c.Paths.Database + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
