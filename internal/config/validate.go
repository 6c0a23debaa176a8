package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	propertyPattern = regexp.MustCompile(`^P[1-9][0-9]*$`)
	itemPattern     = regexp.MustCompile(`^Q[1-9][0-9]*$`)
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWikidata(); err != nil {
		return err
	}
	if err := c.validateGrounding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWikidata() error {
	if err := ensurePositiveMap(map[string]int{
		"wikidata.search_limit":    c.Wikidata.SearchLimit,
		"wikidata.timeout_seconds": c.Wikidata.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if !propertyPattern.MatchString(c.Wikidata.MembershipProperty) {
		return fmt.Errorf("wikidata.membership_property must look like P463, got %q", c.Wikidata.MembershipProperty)
	}
	if !itemPattern.MatchString(c.Wikidata.MembershipTarget) {
		return fmt.Errorf("wikidata.membership_target must look like Q123885, got %q", c.Wikidata.MembershipTarget)
	}
	return nil
}

func (c *Config) validateGrounding() error {
	if err := ensurePositiveMap(map[string]int{
		"grounding.candidate_limit": c.Grounding.CandidateLimit,
		"grounding.progress_every":  c.Grounding.ProgressEvery,
	}); err != nil {
		return err
	}
	if c.Grounding.CandidateLimit > c.Wikidata.SearchLimit {
		return fmt.Errorf("grounding.candidate_limit (%d) cannot exceed wikidata.search_limit (%d)",
			c.Grounding.CandidateLimit, c.Wikidata.SearchLimit)
	}
	if c.Grounding.AcceptanceThreshold < 0 || c.Grounding.AcceptanceThreshold >= 1 {
		return errors.New("grounding.acceptance_threshold must be in [0, 1)")
	}
	if c.Grounding.CallDelayMillis < 0 {
		return errors.New("grounding.call_delay_ms must not be negative")
	}
	if c.Grounding.IdentityPauseMillis < 0 {
		return errors.New("grounding.identity_pause_ms must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
