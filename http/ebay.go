package http

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkarczewski/keysheet"
)

const ebaySearchURL = "https://www.ebay.com/sch/i.html"

// maxEbaySuggestions is lower than the JSON providers: related-search
// blocks carry fewer, noisier phrases.
const maxEbaySuggestions = 10

var _ keysheet.Source = (*EbaySource)(nil)

// EbaySource extracts related searches from eBay result pages. Unlike the
// other providers this one parses HTML rather than a JSON payload.
type EbaySource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewEbaySource creates an EbaySource over the shared client.
func NewEbaySource(client *Client) *EbaySource {
	return &EbaySource{client: client, BaseURL: ebaySearchURL}
}

// Engine implements keysheet.Source.
func (s *EbaySource) Engine() keysheet.Engine { return keysheet.EngineEbay }

// Suggest returns eBay related searches for the keyword.
func (s *EbaySource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"_nkw":        {keyword.String()},
		"_sacat":      {"0"},
		"LH_Complete": {"1"},
		"rt":          {"nc"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	body, err := s.client.get(req)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "parsing %s response: %v", req.URL.Host, err)
	}

	var items []string
	doc.Find(`[data-testid="srp-related-searches"] a`).Each(func(_ int, sel *goquery.Selection) {
		items = append(items, sel.Text())
	})
	return filterSuggestions(keyword, items, maxEbaySuggestions), nil
}
