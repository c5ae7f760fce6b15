package ranking

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// rankingPayload mirrors the JSON the model is instructed to return.
type rankingPayload struct {
	Rankings  []string `json:"rankings"`
	Reasoning string   `json:"reasoning"`
}

// parseRanking maps the model's id ordering back onto the candidates. Ids the
// model never mentioned are appended in their incoming order, so the output
// is always a total ordering over the input, never a subset. Returns false
// when the response holds no usable JSON.
func parseRanking(raw string, candidates []product.Candidate) ([]product.Candidate, string, bool) {
	block := firstJSONObject(raw)
	if block == "" {
		return nil, "", false
	}

	var payload rankingPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil, "", false
	}
	if payload.Rankings == nil {
		return nil, "", false
	}

	byID := make(map[string]int, len(candidates))
	for i, c := range candidates {
		byID[c.ID] = i
	}

	ranked := make([]product.Candidate, 0, len(candidates))
	used := make([]bool, len(candidates))
	for _, id := range payload.Rankings {
		i, ok := byID[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		ranked = append(ranked, candidates[i])
	}
	for i, c := range candidates {
		if !used[i] {
			ranked = append(ranked, c)
		}
	}

	return ranked, payload.Reasoning, true
}

// firstJSONObject returns the first brace-delimited block of s, tracking
// nesting and string literals. Empty when no complete block exists.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
