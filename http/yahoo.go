package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mkarczewski/keysheet"
)

const yahooGossipURL = "https://search.yahoo.com/sugg/gossip/gossip-us-ura"

var _ keysheet.Source = (*YahooSource)(nil)

// YahooSource queries Yahoo's gossip suggestion endpoint.
type YahooSource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewYahooSource creates a YahooSource over the shared client.
func NewYahooSource(client *Client) *YahooSource {
	return &YahooSource{client: client, BaseURL: yahooGossipURL}
}

// Engine implements keysheet.Source.
func (s *YahooSource) Engine() keysheet.Engine { return keysheet.EngineYahoo }

type yahooResponse struct {
	R []struct {
		K string `json:"k"`
	} `json:"r"`
}

// Suggest returns Yahoo suggestions for the keyword.
func (s *YahooSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"output":   {"sd1"},
		"command":  {keyword.String()},
		"nresults": {"10"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()

	var payload yahooResponse
	if err := s.client.getJSON(req, &payload); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(payload.R))
	for _, item := range payload.R {
		items = append(items, item.K)
	}
	return filterSuggestions(keyword, items, maxSuggestions), nil
}
