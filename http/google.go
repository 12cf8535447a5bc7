package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/mkarczewski/keysheet"
)

// suggestQueriesURL is the shared Google autosuggest endpoint, also used by
// YouTube with a different client parameter.
const suggestQueriesURL = "http://suggestqueries.google.com/complete/search"

// maxSuggestions caps results per query for the JSON providers.
const maxSuggestions = 20

var _ keysheet.Source = (*GoogleSource)(nil)

// GoogleSource queries Google autosuggest.
type GoogleSource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewGoogleSource creates a GoogleSource over the shared client.
func NewGoogleSource(client *Client) *GoogleSource {
	return &GoogleSource{client: client, BaseURL: suggestQueriesURL}
}

// Engine implements keysheet.Source.
func (s *GoogleSource) Engine() keysheet.Engine { return keysheet.EngineGoogle }

// Suggest returns Google autosuggestions for the keyword.
func (s *GoogleSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"client": {"chrome"},
		"q":      {keyword.String()},
		"hl":     {"en"},
	}
	return suggestQueries(ctx, s.client, s.BaseURL, params, keyword)
}

// suggestQueries queries the suggestqueries endpoint and parses its
// [query, [suggestion, ...], ...] response shape. Non-string entries in the
// suggestion array are skipped.
func suggestQueries(ctx context.Context, c *Client, baseURL string, params url.Values, keyword keysheet.Keyword) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()

	var payload []json.RawMessage
	if err := c.getJSON(req, &payload); err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "%s returned a truncated payload", req.URL.Host)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(payload[1], &entries); err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "decoding %s suggestions: %v", req.URL.Host, err)
	}

	items := make([]string, 0, len(entries))
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		items = append(items, s)
	}
	return filterSuggestions(keyword, items, maxSuggestions), nil
}
