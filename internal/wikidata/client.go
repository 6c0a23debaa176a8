package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/ratelimit"
)

// SearchHit is one entry of a wbsearchentities response.
type SearchHit struct {
	ID          string
	Label       string
	Description string
}

// Entity carries the attributes fetched for one candidate.
type Entity struct {
	ID           string
	Label        string
	Description  string
	BirthYear    *int
	DeathYear    *int
	IsHuman      bool
	IsMember     bool
	WikipediaURL string
}

// Source defines the knowledge-base operations used by grounding.
type Source interface {
	Search(ctx context.Context, text string, limit int) ([]SearchHit, error)
	EntityDetails(ctx context.Context, id string) (*Entity, error)
	HasMembership(ctx context.Context, id string) (bool, error)
}

// Client talks to the Wikidata Action API and SPARQL endpoint.
type Client struct {
	apiURL             string
	sparqlURL          string
	language           string
	userAgent          string
	membershipProperty string
	membershipTarget   string
	httpClient         *http.Client
	pacer              *ratelimit.Pacer
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLanguage sets the search and label language.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language = strings.TrimSpace(language); language != "" {
			c.language = language
		}
	}
}

// WithMembership sets the property/target pair used for the membership signal.
func WithMembership(property, target string) Option {
	return func(c *Client) {
		if property = strings.TrimSpace(property); property != "" {
			c.membershipProperty = property
		}
		if target = strings.TrimSpace(target); target != "" {
			c.membershipTarget = target
		}
	}
}

// WithPacer makes every outbound request wait on the pacer first.
func WithPacer(p *ratelimit.Pacer) Option {
	return func(c *Client) {
		c.pacer = p
	}
}

// New creates a Wikidata client.
func New(apiURL, sparqlURL, userAgent string, opts ...Option) (*Client, error) {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return nil, errors.New("wikidata api url required")
	}
	sparqlURL = strings.TrimSpace(sparqlURL)
	if sparqlURL == "" {
		return nil, errors.New("wikidata sparql url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("wikidata user agent required")
	}
	client := &Client{
		apiURL:             apiURL,
		sparqlURL:          sparqlURL,
		language:           "en",
		userAgent:          userAgent,
		membershipProperty: "P463",
		membershipTarget:   "Q123885",
		httpClient:         &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchResponse struct {
	Search []map[string]json.RawMessage `json:"search"`
	Error  *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Search runs wbsearchentities for text and returns hits in service order.
// An empty slice is a valid result.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]SearchHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, wrapError("search", text, errors.New("search text must not be empty"))
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("format", "json")
	params.Set("language", c.language)
	params.Set("type", "item")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("search", text)

	body, err := c.get(ctx, c.apiURL, params, "application/json")
	if err != nil {
		return nil, wrapError("search", text, err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, wrapError("search", text, fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	if payload.Error != nil {
		return nil, wrapError("search", text, fmt.Errorf("%w: api error %s: %s", ErrMalformed, payload.Error.Code, payload.Error.Info))
	}

	hits := make([]SearchHit, 0, len(payload.Search))
	for _, raw := range payload.Search {
		id, _ := optionalString(raw["id"])
		if id == "" {
			continue
		}
		label, _ := optionalString(raw["label"])
		description, _ := optionalString(raw["description"])
		hits = append(hits, SearchHit{ID: id, Label: label, Description: description})
	}
	return hits, nil
}

// get issues a paced GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, base string, params url.Values, accept string) ([]byte, error) {
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: pacing: %w", ErrTransient, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request (latency=%v): %w", ErrTransient, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: status %d (latency=%v)", ErrTransient, resp.StatusCode, latency)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransient, err)
	}
	return body, nil
}

// optionalString decodes a JSON value as a string, treating null, missing
// and non-string values as absent.
func optionalString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
