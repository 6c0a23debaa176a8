package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWikidata()
	if err := c.normalizeOverrides(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("GROUND_DATABASE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Database = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	var err error
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWikidata() {
	c.Wikidata.APIURL = strings.TrimSpace(c.Wikidata.APIURL)
	if c.Wikidata.APIURL == "" {
		c.Wikidata.APIURL = defaultWikidataAPIURL
	}
	c.Wikidata.SPARQLURL = strings.TrimSpace(c.Wikidata.SPARQLURL)
	if c.Wikidata.SPARQLURL == "" {
		c.Wikidata.SPARQLURL = defaultWikidataSPARQLURL
	}
	c.Wikidata.Language = strings.ToLower(strings.TrimSpace(c.Wikidata.Language))
	if c.Wikidata.Language == "" {
		c.Wikidata.Language = defaultWikidataLanguage
	}
	if value, ok := os.LookupEnv("WIKIDATA_USER_AGENT"); ok && strings.TrimSpace(value) != "" {
		c.Wikidata.UserAgent = value
	}
	c.Wikidata.UserAgent = strings.TrimSpace(c.Wikidata.UserAgent)
	if c.Wikidata.UserAgent == "" {
		c.Wikidata.UserAgent = defaultWikidataUserAgent
	}
	c.Wikidata.MembershipProperty = strings.ToUpper(strings.TrimSpace(c.Wikidata.MembershipProperty))
	c.Wikidata.MembershipTarget = strings.ToUpper(strings.TrimSpace(c.Wikidata.MembershipTarget))
}

func (c *Config) normalizeOverrides() error {
	files := make([]string, 0, len(c.Overrides.Files))
	for idx, file := range c.Overrides.Files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(file))
		if err != nil {
			return fmt.Errorf("overrides.files[%d]: %w", idx, err)
		}
		files = append(files, expanded)
	}
	c.Overrides.Files = files
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
