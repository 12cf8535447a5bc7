package http

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/mkarczewski/keysheet"
)

const bingSuggestionsURL = "https://www.bing.com/AS/Suggestions"

const cvidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var _ keysheet.Source = (*BingSource)(nil)

// BingSource queries Bing autosuggest.
type BingSource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewBingSource creates a BingSource over the shared client.
func NewBingSource(client *Client) *BingSource {
	return &BingSource{client: client, BaseURL: bingSuggestionsURL}
}

// Engine implements keysheet.Source.
func (s *BingSource) Engine() keysheet.Engine { return keysheet.EngineBing }

// bingResponse mirrors the AS/Suggestions payload.
type bingResponse struct {
	AS struct {
		Results []struct {
			Suggests []struct {
				Txt string `json:"Txt"`
			} `json:"Suggests"`
		} `json:"Results"`
	} `json:"AS"`
}

// Suggest returns Bing autosuggestions for the keyword.
func (s *BingSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"pt":   {"page.serp"},
		"mkt":  {"en-us"},
		"qry":  {keyword.String()},
		"cp":   {strconv.Itoa(utf8.RuneCountInString(keyword.String()))},
		"cvid": {randomCVID()},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()

	var payload bingResponse
	if err := s.client.getJSON(req, &payload); err != nil {
		return nil, err
	}

	var items []string
	for _, result := range payload.AS.Results {
		for _, suggest := range result.Suggests {
			items = append(items, suggest.Txt)
		}
	}
	return filterSuggestions(keyword, items, maxSuggestions), nil
}

// randomCVID builds the 32-character conversation ID Bing expects.
func randomCVID() string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = cvidAlphabet[rand.IntN(len(cvidAlphabet))]
	}
	return string(b)
}
