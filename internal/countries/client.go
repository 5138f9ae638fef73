package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public restcountries v3.1 endpoint.
	DefaultBaseURL = "https://restcountries.com/v3.1"

	// SummaryFields are the fields requested for list views.
	SummaryFields = "name,capital,population,region,flags,cca3"

	// BorderFields are the fields requested when resolving neighbours.
	BorderFields = "name,cca3"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

var (
	ErrNotFound     = errors.New("country not found")
	ErrEmptyQuery   = errors.New("country query is empty")
	ErrUpstreamDown = errors.New("countries service unavailable")
)

// Client fetches country data. It's safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A nil httpClient gets a client
// with a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// All returns every country with SummaryFields.
func (c *Client) All(ctx context.Context) ([]Country, error) {
	return c.list(ctx, "/all", url.Values{"fields": {SummaryFields}})
}

// ByRegion returns the countries of a region with SummaryFields.
func (c *Client) ByRegion(ctx context.Context, region string) ([]Country, error) {
	return c.listBy(ctx, "region", region, url.Values{"fields": {SummaryFields}})
}

// SearchByName returns the countries whose name matches name with SummaryFields.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Country, error) {
	return c.listBy(ctx, "name", name, url.Values{"fields": {SummaryFields}})
}

// ByCapital returns full records of the countries with the given capital.
func (c *Client) ByCapital(ctx context.Context, capital string) ([]Country, error) {
	return c.listBy(ctx, "capital", capital, nil)
}

// ByCode returns the full record for an alpha-2 or alpha-3 code.
func (c *Client) ByCode(ctx context.Context, code string) (Country, error) {
	list, err := c.listBy(ctx, "alpha", code, nil)
	if err != nil {
		return Country{}, err
	}
	if len(list) == 0 {
		return Country{}, ErrNotFound
	}
	return list[0], nil
}

// ByCodes returns name and code of each listed country, in upstream order.
func (c *Client) ByCodes(ctx context.Context, codes []string) ([]Country, error) {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			cleaned = append(cleaned, code)
		}
	}
	if len(cleaned) == 0 {
		return []Country{}, nil
	}
	return c.list(ctx, "/alpha", url.Values{
		"codes":  {strings.Join(cleaned, ",")},
		"fields": {BorderFields},
	})
}

func (c *Client) listBy(ctx context.Context, kind, value string, query url.Values) ([]Country, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyQuery
	}
	return c.list(ctx, "/"+kind+"/"+url.PathEscape(value), query)
}

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]Country, error) {
	var out []Country
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Country{}
	}
	return out, nil
}

// get performs a GET request and decodes a JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		// restcountries expects literal commas in codes and fields.
		reqURL += "?" + strings.ReplaceAll(query.Encode(), "%2C", ",")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ErrUpstreamDown, err)
	}
	return nil
}

// StatusError is returned for non-404 error responses from upstream.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("countries service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("countries service returned %d: %s", e.StatusCode, e.Body)
}

// Unwrap makes every StatusError match ErrUpstreamDown.
func (e *StatusError) Unwrap() error {
	return ErrUpstreamDown
}
