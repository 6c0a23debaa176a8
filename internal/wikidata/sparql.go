package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const sparqlAccept = "application/sparql-results+json"

var (
	entityIDPattern = regexp.MustCompile(`^Q[1-9][0-9]*$`)
	yearPattern     = regexp.MustCompile(`\d{4}`)
)

const detailsTemplate = `SELECT ?item ?itemLabel ?itemDescription ?birth ?death ?isHuman ?member ?sitelink WHERE {
  BIND(wd:%[1]s AS ?item)
  OPTIONAL { ?item wdt:P569 ?birth. }
  OPTIONAL { ?item wdt:P570 ?death. }
  OPTIONAL {
    ?item wdt:P31 wd:Q5.
    BIND(true AS ?isHuman)
  }
  OPTIONAL {
    ?item wdt:%[2]s wd:%[3]s.
    BIND(true AS ?member)
  }
  OPTIONAL {
    ?sitelink schema:about ?item;
              schema:isPartOf <https://%[4]s.wikipedia.org/>.
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[4]s". }
}
LIMIT 1`

const membershipTemplate = `ASK { wd:%s wdt:%s wd:%s. }`

type selectResponse struct {
	Results *struct {
		Bindings []map[string]json.RawMessage `json:"bindings"`
	} `json:"results"`
}

type askResponse struct {
	Boolean json.RawMessage `json:"boolean"`
}

type bindingValue struct {
	Value json.RawMessage `json:"value"`
}

// EntityDetails fetches dates, type, membership and sitelink for id. It
// returns ErrNotFound when the query yields no row.
func (c *Client) EntityDetails(ctx context.Context, id string) (*Entity, error) {
	if !entityIDPattern.MatchString(id) {
		return nil, wrapError("details", id, ErrInvalidID)
	}
	query := fmt.Sprintf(detailsTemplate, id, c.membershipProperty, c.membershipTarget, c.language)
	body, err := c.sparql(ctx, query)
	if err != nil {
		return nil, wrapError("details", id, err)
	}

	var payload selectResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, wrapError("details", id, fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	if payload.Results == nil || len(payload.Results.Bindings) == 0 {
		return nil, wrapError("details", id, ErrNotFound)
	}

	row := payload.Results.Bindings[0]
	entity := &Entity{
		ID:           id,
		Label:        bindingString(row, "itemLabel"),
		Description:  bindingString(row, "itemDescription"),
		BirthYear:    ParseYear(bindingString(row, "birth")),
		DeathYear:    ParseYear(bindingString(row, "death")),
		IsMember:     bindingTrue(row, "member"),
		WikipediaURL: bindingString(row, "sitelink"),
	}
	// A recorded birth date is taken as evidence of personhood.
	entity.IsHuman = bindingPresent(row, "isHuman") || entity.BirthYear != nil
	return entity, nil
}

// HasMembership asks whether id holds the configured membership relation.
func (c *Client) HasMembership(ctx context.Context, id string) (bool, error) {
	if !entityIDPattern.MatchString(id) {
		return false, wrapError("membership", id, ErrInvalidID)
	}
	query := fmt.Sprintf(membershipTemplate, id, c.membershipProperty, c.membershipTarget)
	body, err := c.sparql(ctx, query)
	if err != nil {
		return false, wrapError("membership", id, err)
	}
	var payload askResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, wrapError("membership", id, fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	var answer bool
	if len(payload.Boolean) > 0 && json.Unmarshal(payload.Boolean, &answer) == nil {
		return answer, nil
	}
	return false, nil
}

func (c *Client) sparql(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	return c.get(ctx, c.sparqlURL, params, sparqlAccept)
}

// ParseYear extracts the first four-digit run from a date literal such as
// "1635-07-28T00:00:00Z". It returns nil when no year is present.
func ParseYear(value string) *int {
	match := yearPattern.FindString(value)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

func bindingPresent(row map[string]json.RawMessage, key string) bool {
	raw, ok := row[key]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// bindingString returns the "value" of a binding, or "" when the binding is
// absent or shaped unexpectedly.
func bindingString(row map[string]json.RawMessage, key string) string {
	raw, ok := row[key]
	if !ok {
		return ""
	}
	var binding bindingValue
	if err := json.Unmarshal(raw, &binding); err != nil {
		return ""
	}
	if s, ok := optionalString(binding.Value); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func bindingTrue(row map[string]json.RawMessage, key string) bool {
	return strings.EqualFold(bindingString(row, key), "true")
}
