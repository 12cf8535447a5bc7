package keysheet

import "strings"

// MaxKeywordLen is the maximum accepted length of a normalized keyword,
// in bytes. Longer input is rejected rather than truncated so that the
// dedup identity of a keyword is never ambiguous.
const MaxKeywordLen = 200

// Keyword is a normalized search phrase. Its text is the identity used for
// deduplication across the whole run.
type Keyword string

// NormalizeKeyword trims surrounding whitespace and collapses interior runs
// of whitespace to single spaces. Case is preserved.
func NormalizeKeyword(s string) Keyword {
	return Keyword(strings.Join(strings.Fields(s), " "))
}

// Validate returns an error if the keyword is empty or over-length.
func (k Keyword) Validate() error {
	if k == "" {
		return Errorf(EINVALID, "keyword required")
	}
	if len(k) > MaxKeywordLen {
		return Errorf(EINVALID, "keyword exceeds %d bytes", MaxKeywordLen)
	}
	return nil
}

// String returns the keyword text.
func (k Keyword) String() string { return string(k) }
