// Package websearch is the "search" tool: a web lookup backed by the DuckDuckGo
// Instant Answer API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tmc/langchaingo/tools"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"golang.org/x/time/rate"
)

const (
	// Name is the tool name the model calls.
	Name = "search"

	// NoResults is returned when the API has nothing for the query.
	NoResults = "No results found for this query."

	defaultBaseURL   = "https://api.duckduckgo.com/"
	defaultUserAgent = "research-agent-search/1.0"
	defaultTimeout   = 15 * time.Second
	maxBodySize      = 2 * 1024 * 1024
)

// Tool searches the web. Create it with New.
type Tool struct {
	baseURL       string
	ua            string
	http          *http.Client
	limiter       *rate.Limiter
	relatedTopics int
}

// Option configures the Tool.
type Option func(*Tool)

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(u string) Option {
	return func(t *Tool) { t.baseURL = strings.TrimRight(u, "/") + "/" }
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(t *Tool) { t.http = h }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Tool) { t.ua = ua }
}

// WithRateLimit allows at most perSecond requests per second with the given burst.
// A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(t *Tool) {
		if perSecond <= 0 {
			t.limiter = nil
			return
		}
		t.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithRelatedTopics sets how many related topics are included in the output.
func WithRelatedTopics(n int) Option {
	return func(t *Tool) { t.relatedTopics = max(n, 0) }
}

// New creates the search tool. By default it allows one request per second.
func New(opts ...Option) *Tool {
	t := &Tool{
		baseURL:       defaultBaseURL,
		ua:            defaultUserAgent,
		http:          &http.Client{Timeout: defaultTimeout},
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
		relatedTopics: 5,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tool) Name() string { return Name }

func (t *Tool) Description() string {
	return "Search the web for information. Returns instant answers, abstracts, " +
		"definitions and related topics for a query."
}

func (t *Tool) InputDescription() string {
	return "The search query"
}

// Call runs the query and returns a plain-text summary.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("search: query cannot be empty")
	}

	resp, err := t.fetch(ctx, query)
	if err != nil {
		return "", err
	}
	return t.summarize(resp), nil
}

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        any    `json:"Answer"`
	Definition    string `json:"Definition"`
	DefinitionURL string `json:"DefinitionURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (t *Tool) fetch(ctx context.Context, query string) (*instantAnswer, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search: rate limiter wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("User-Agent", t.ua)

	res, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("search: unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("search: parse response: %w", err)
	}
	return &answer, nil
}

func (t *Tool) summarize(a *instantAnswer) string {
	var results []string

	if a.AbstractText != "" {
		results = append(results, "Abstract: "+a.AbstractText)
		if a.AbstractURL != "" {
			results = append(results, "Source: "+a.AbstractURL)
		}
	}

	// Answer is a string for most queries and an object for calculators and the
	// like; only text answers are useful here.
	if s, ok := a.Answer.(string); ok && s != "" {
		results = append(results, "Answer: "+s)
	}

	if a.Definition != "" {
		line := "Definition: " + a.Definition
		if a.DefinitionURL != "" {
			line += " (" + a.DefinitionURL + ")"
		}
		results = append(results, line)
	}

	var topics []string
	for _, topic := range a.RelatedTopics {
		if len(topics) >= t.relatedTopics {
			break
		}
		if topic.Text == "" {
			continue
		}
		if topic.FirstURL != "" {
			topics = append(topics, topic.Text+" <"+topic.FirstURL+">")
		} else {
			topics = append(topics, topic.Text)
		}
	}
	if len(topics) > 0 {
		results = append(results, "Related topics: "+strings.Join(topics, "; "))
	}

	if len(results) == 0 {
		return NoResults
	}
	return strings.Join(results, "\n\n")
}

var (
	_ researchagent.Tool           = (*Tool)(nil)
	_ researchagent.InputDescriber = (*Tool)(nil)
	_ tools.Tool                   = (*Tool)(nil)
)
