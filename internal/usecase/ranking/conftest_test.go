package ranking

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

type mockProvider struct {
	model string
	resp  string
	err   error
	calls int
}

func (m *mockProvider) Model() string { return m.model }

func (m *mockProvider) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.resp, nil
}

func makeCandidates(n int) []product.Candidate {
	out := make([]product.Candidate, n)
	for i := range out {
		out[i] = product.Candidate{
			ID:               fmt.Sprintf("p%d", i+1),
			ShopifyProductID: fmt.Sprintf("s%d", i+1),
			Title:            fmt.Sprintf("Product %d", i+1),
			Available:        true,
			SimilarityScore:  0.5,
		}
	}
	return out
}

func ids(cands []product.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

func sameIDSet(a, b []product.Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, c := range a {
		seen[c.ID]++
	}
	for _, c := range b {
		seen[c.ID]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
