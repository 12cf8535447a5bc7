package http

import (
	"context"
	"net/url"

	"github.com/mkarczewski/keysheet"
)

var _ keysheet.Source = (*YouTubeSource)(nil)

// YouTubeSource queries YouTube autosuggest, which shares Google's
// suggestqueries endpoint with a different client parameter.
type YouTubeSource struct {
	client *Client

	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

// NewYouTubeSource creates a YouTubeSource over the shared client.
func NewYouTubeSource(client *Client) *YouTubeSource {
	return &YouTubeSource{client: client, BaseURL: suggestQueriesURL}
}

// Engine implements keysheet.Source.
func (s *YouTubeSource) Engine() keysheet.Engine { return keysheet.EngineYouTube }

// Suggest returns YouTube autosuggestions for the keyword.
func (s *YouTubeSource) Suggest(ctx context.Context, keyword keysheet.Keyword) ([]string, error) {
	params := url.Values{
		"client": {"youtube"},
		"ds":     {"yt"},
		"q":      {keyword.String()},
		"hl":     {"en"},
	}
	return suggestQueries(ctx, s.client, s.BaseURL, params, keyword)
}
