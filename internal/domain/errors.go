package domain

import "errors"

// Sentinel errors shared across use cases and transports.
var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrShopNotFound           = errors.New("shop not found")
	ErrUnsupportedStrategy    = errors.New("unsupported search strategy")
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	ErrRankingProviderError   = errors.New("ranking provider error")
	ErrNoCandidates           = errors.New("no candidates from any retrieval source")
	ErrAllStrategiesFailed    = errors.New("all search strategies failed")
)

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "shopsearch:"
