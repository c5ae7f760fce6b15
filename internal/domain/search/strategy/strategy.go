// Package strategy enumerates the retrieval pipelines a search can run.
package strategy

// Strategy selects which retrieval/ranking pipeline serves a request.
type Strategy string

// Supported strategies.
const (
	Vector  Strategy = "vector"
	Keyword Strategy = "keyword"
	Hybrid  Strategy = "hybrid"
	AI      Strategy = "ai"
)

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case Vector, Keyword, Hybrid, AI:
		return true
	}
	return false
}

func (s Strategy) String() string { return string(s) }
