package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mkarczewski/keysheet"
)

const amazonCompletionURL = "https://completion.amazon.com/api/2017/suggestions"

var _ keysheet.Source = (*AmazonSource)(nil)

// AmazonSource queries Amazon's search completion API.
type AmazonSource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewAmazonSource creates an AmazonSource over the shared client.
func NewAmazonSource(client *Client) *AmazonSource {
	return &AmazonSource{client: client, BaseURL: amazonCompletionURL}
}

// Engine implements keysheet.Source.
func (s *AmazonSource) Engine() keysheet.Engine { return keysheet.EngineAmazon }

type amazonResponse struct {
	Suggestions []struct {
		Value string `json:"value"`
	} `json:"suggestions"`
}

// Suggest returns Amazon search completions for the keyword.
func (s *AmazonSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"mid":          {"ATVPDKIKX0DER"},
		"alias":        {"aps"},
		"site-variant": {"desktop"},
		"version":      {"3"},
		"event":        {"onkeypress"},
		"wc":           {""},
		"lop":          {"en_US"},
		"last-word":    {""},
		"prefix":       {keyword.String()},
		"src":          {"completion"},
		"client":       {"amazon-search-ui"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()

	var payload amazonResponse
	if err := s.client.getJSON(req, &payload); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(payload.Suggestions))
	for _, suggestion := range payload.Suggestions {
		items = append(items, suggestion.Value)
	}
	return filterSuggestions(keyword, items, maxSuggestions), nil
}
