package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"

	"github.com/mkarczewski/keysheet"
)

const duckduckgoACURL = "https://duckduckgo.com/ac/"

// identityRotateChance is the probability that a Tor-routed query requests a
// fresh circuit first.
const identityRotateChance = 0.1

var _ keysheet.Source = (*DuckDuckGoSource)(nil)

// DuckDuckGoSource queries DuckDuckGo autocomplete, optionally over Tor with
// probabilistic identity rotation.
type DuckDuckGoSource struct {
	client   *Client
	engine   keysheet.Engine
	identity keysheet.IdentityRotator
	logger   *slog.Logger

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewDuckDuckGoSource creates a clearnet DuckDuckGoSource.
func NewDuckDuckGoSource(client *Client) *DuckDuckGoSource {
	return &DuckDuckGoSource{
		client:  client,
		engine:  keysheet.EngineDuckDuckGo,
		logger:  slog.New(slog.DiscardHandler),
		BaseURL: duckduckgoACURL,
	}
}

// NewDuckDuckGoTorSource creates a DuckDuckGoSource whose client is routed
// through Tor. Before some queries it asks the rotator for a new identity;
// rotation failures are logged, never fatal.
func NewDuckDuckGoTorSource(client *Client, identity keysheet.IdentityRotator, logger *slog.Logger) *DuckDuckGoSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDuckGoSource{
		client:   client,
		engine:   keysheet.EngineDuckDuckGoTor,
		identity: identity,
		logger:   logger,
		BaseURL:  duckduckgoACURL,
	}
}

// Engine implements keysheet.Source.
func (s *DuckDuckGoSource) Engine() keysheet.Engine { return s.engine }

// Suggest returns DuckDuckGo autocompletions for the keyword.
func (s *DuckDuckGoSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	if s.identity != nil && rand.Float64() < identityRotateChance {
		if err := s.identity.Rotate(ctx); err != nil {
			s.logger.Warn("identity rotation failed", "err", err)
		}
	}

	params := url.Values{
		"q":    {keyword.String()},
		"type": {"list"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "building request: %v", err)
	}
	req.URL.RawQuery = params.Encode()

	var payload []json.RawMessage
	if err := s.client.getJSON(req, &payload); err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "%s returned a truncated payload", req.URL.Host)
	}

	// The endpoint serves two shapes: ["q", ["a", "b"]] in list mode and
	// ["q", {"phrase": "a"}, ...] in the default mode. Accept both.
	var items []string
	for _, raw := range payload[1:] {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			items = append(items, list...)
			continue
		}
		var phrase struct {
			Phrase string `json:"phrase"`
		}
		if err := json.Unmarshal(raw, &phrase); err == nil && phrase.Phrase != "" {
			items = append(items, phrase.Phrase)
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			items = append(items, s)
		}
	}
	return filterSuggestions(keyword, items, maxSuggestions), nil
}
