// Package keysheet discovers related search phrases by iteratively querying
// autosuggest endpoints, treating every returned suggestion as a new candidate
// to query. A shared frontier queue and dedup set are expanded concurrently by
// one worker per selected upstream engine.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named after
// their primary dependency (e.g., sqlite/, http/) or their function (expand/).
package keysheet
