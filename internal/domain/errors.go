package domain

import "errors"

var (
	// ErrNoMatch is returned when no candidate survives the gate and score threshold
	ErrNoMatch = errors.New("no compatible candidate found")

	// ErrLowConfidence is returned when the best match scores below the threshold
	ErrLowConfidence = errors.New("match score below threshold")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrLexiconLoad is returned when the lexicon data cannot be loaded at startup.
	// This is the only structural failure the engine surfaces; malformed domain
	// text always degrades to an unknown/none value instead.
	ErrLexiconLoad = errors.New("lexicon load failed")

	// ErrItemNotFound is returned when a catalog item id is unknown
	ErrItemNotFound = errors.New("catalog item not found")
)
