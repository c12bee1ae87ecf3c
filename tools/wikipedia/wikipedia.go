// Package wikipedia is the "wikipedia" tool: page summaries from the MediaWiki
// API, converted from HTML to Markdown.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/tmc/langchaingo/tools"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"golang.org/x/time/rate"
)

const (
	// Name is the tool name the model calls.
	Name = "wikipedia"

	// NoResults is returned when the search finds no page.
	NoResults = "No good Wikipedia Search Result was found"

	defaultBaseURL   = "https://en.wikipedia.org/w/api.php"
	defaultUserAgent = "research-agent-wikipedia/1.0"
	defaultTimeout   = 15 * time.Second
	maxBodySize      = 4 * 1024 * 1024
)

// Tool looks up Wikipedia pages. Create it with New.
type Tool struct {
	baseURL  string
	ua       string
	http     *http.Client
	limiter  *rate.Limiter
	topK     int
	maxChars int
}

// Option configures the Tool.
type Option func(*Tool)

// WithBaseURL overrides the api.php endpoint, e.g. for another language edition.
func WithBaseURL(u string) Option {
	return func(t *Tool) { t.baseURL = u }
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(t *Tool) { t.http = h }
}

// WithUserAgent sets the User-Agent header. Wikimedia asks clients to identify
// themselves.
func WithUserAgent(ua string) Option {
	return func(t *Tool) { t.ua = ua }
}

// WithRateLimit allows at most perSecond API requests per second with the given
// burst. A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(t *Tool) {
		if perSecond <= 0 {
			t.limiter = nil
			return
		}
		t.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithTopK sets how many pages are summarized.
func WithTopK(k int) Option {
	return func(t *Tool) { t.topK = max(k, 1) }
}

// WithMaxChars caps the length of the output in characters. Zero means no cap.
func WithMaxChars(n int) Option {
	return func(t *Tool) { t.maxChars = max(n, 0) }
}

// New creates the Wikipedia tool: three pages, 4000 characters, five requests per
// second.
func New(opts ...Option) *Tool {
	t := &Tool{
		baseURL:  defaultBaseURL,
		ua:       defaultUserAgent,
		http:     &http.Client{Timeout: defaultTimeout},
		limiter:  rate.NewLimiter(rate.Limit(5), 2),
		topK:     3,
		maxChars: 4000,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tool) Name() string { return Name }

func (t *Tool) Description() string {
	return "Look up a topic on Wikipedia. Returns the title and introduction of the " +
		"best matching pages. Useful for general questions about people, places, " +
		"events and concepts."
}

func (t *Tool) InputDescription() string {
	return "The topic to look up"
}

// Call searches for input and returns the summaries of the top pages:
//
//	Page: Printing press
//	Summary: A printing press is ...
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("wikipedia: query cannot be empty")
	}

	titles, err := t.search(ctx, query)
	if err != nil {
		return "", err
	}

	var summaries []string
	for _, title := range titles {
		page, err := t.extract(ctx, title)
		if err != nil {
			return "", err
		}
		if page == nil {
			continue
		}
		summaries = append(summaries, "Page: "+page.title+"\nSummary: "+page.summary)
	}

	if len(summaries) == 0 {
		return NoResults, nil
	}
	return truncate(strings.Join(summaries, "\n\n"), t.maxChars), nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

func (t *Tool) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(t.topK))
	params.Set("format", "json")
	params.Set("formatversion", "2")

	var resp searchResponse
	if err := t.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: search: %w", err)
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

type extractResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing bool   `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

type pageSummary struct {
	title   string
	summary string
}

// extract fetches the introduction of a page. A missing or empty page is nil.
func (t *Tool) extract(ctx context.Context, title string) (*pageSummary, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)
	params.Set("format", "json")
	params.Set("formatversion", "2")

	var resp extractResponse
	if err := t.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: extract %q: %w", title, err)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing || strings.TrimSpace(page.Extract) == "" {
			continue
		}
		markdown, err := htmltomarkdown.ConvertString(page.Extract)
		if err != nil {
			return nil, fmt.Errorf("wikipedia: convert %q: %w", title, err)
		}
		return &pageSummary{title: page.Title, summary: strings.TrimSpace(markdown)}, nil
	}
	return nil, nil
}

func (t *Tool) get(ctx context.Context, params url.Values, into any) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.ua)

	res, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var (
	_ researchagent.Tool           = (*Tool)(nil)
	_ researchagent.InputDescriber = (*Tool)(nil)
	_ tools.Tool                   = (*Tool)(nil)
)
