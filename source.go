package keysheet

import "context"

// Engine identifies an upstream autosuggest provider.
type Engine string

// Supported upstream engines.
const (
	EngineGoogle        Engine = "google"
	EngineYouTube       Engine = "youtube"
	EngineBing          Engine = "bing"
	EngineAmazon        Engine = "amazon"
	EngineYahoo         Engine = "yahoo"
	EngineEbay          Engine = "ebay"
	EngineDuckDuckGo    Engine = "duckduckgo"
	EngineDuckDuckGoTor Engine = "duckduckgo-tor"
)

// EngineSeed labels operator-supplied seed keywords in sink output. It is
// not a queryable engine and is excluded from Engines.
const EngineSeed Engine = "seed"

// Engines lists every supported engine in display order.
func Engines() []Engine {
	return []Engine{
		EngineGoogle,
		EngineYouTube,
		EngineBing,
		EngineAmazon,
		EngineYahoo,
		EngineEbay,
		EngineDuckDuckGo,
		EngineDuckDuckGoTor,
	}
}

// ParseEngine converts a config/CLI identifier into an Engine.
// Returns EINVALID for unknown identifiers.
func ParseEngine(s string) (Engine, error) {
	for _, e := range Engines() {
		if string(e) == s {
			return e, nil
		}
	}
	return "", Errorf(EINVALID, "unknown engine %q", s)
}

// Source returns candidate phrases related to a keyword.
//
// Implementations must exclude the query keyword itself from the results and
// are free to apply their own result-count caps. Failures are classified with
// application error codes: EUNAVAILABLE for network/timeout errors, EINTERNAL
// for unparsable payloads, EUPSTREAM when the provider rejects the request.
// Retry, if any, is internal to the implementation; callers only observe
// final success or failure.
type Source interface {
	// Engine reports which upstream provider this source queries.
	Engine() Engine

	// Suggest returns zero or more candidate phrases for the keyword.
	// The returned phrases are raw provider output; callers normalize them.
	Suggest(ctx context.Context, keyword Keyword) ([]string, error)
}

// IdentityRotator requests a fresh upstream identity (e.g. a new Tor
// circuit). Rotation failures are logged by callers, never fatal.
type IdentityRotator interface {
	Rotate(ctx context.Context) error
}
