package utils

import "errors"

var (
	ErrEmptyQuery        = errors.New("query is required")
	ErrInvalidLimit      = errors.New("invalid limit parameter")
	ErrParkNotFound      = errors.New("park not found")
	ErrDatabaseError     = errors.New("database error")
	ErrSearchUnavailable = errors.New("search unavailable")

	// Primary search path failures. These never reach HTTP callers, the
	// search service routes them to the keyword fallback.
	ErrNoEmbeddedParks = errors.New("no parks with embeddings")
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	ErrUpstream = errors.New("nps api error")
)
