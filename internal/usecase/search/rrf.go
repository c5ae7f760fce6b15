package search

import (
	"sort"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Reciprocal Rank Fusion defaults. The constant is the standard value from
// Cormack et al. 2009; the weights favor the vector signal.
const (
	defaultRRFConstant   = 60
	defaultVectorWeight  = 0.7
	defaultKeywordWeight = 0.3
)

// fuseRRF merges the vector and keyword candidate lists via weighted
// Reciprocal Rank Fusion: each candidate at zero-based rank r contributes
// weight/(k+r+1), summed when it appears in both lists. Vector and keyword
// scores are not on comparable scales, so fusion is rank-based, never
// score-based. Ties keep the vector list's insertion order; SimilarityScore
// is overwritten with the fused score.
func fuseRRF(vec, kw []product.Candidate, vectorWeight, keywordWeight float64, k int) []product.Candidate {
	type scored struct {
		cand  product.Candidate
		score float64
		order int
	}

	merged := make(map[string]*scored, len(vec)+len(kw))
	order := 0

	for rank := range vec {
		s := vectorWeight / float64(k+rank+1)
		merged[vec[rank].Key()] = &scored{cand: vec[rank], score: s, order: order}
		order++
	}

	for rank := range kw {
		s := keywordWeight / float64(k+rank+1)
		if existing, ok := merged[kw[rank].Key()]; ok {
			existing.score += s
			// vector copy kept: its snapshot carries the vector-side score
			continue
		}
		merged[kw[rank].Key()] = &scored{cand: kw[rank], score: s, order: order}
		order++
	}

	fused := make([]*scored, 0, len(merged))
	for _, s := range merged {
		fused = append(fused, s)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].order < fused[j].order
	})

	out := make([]product.Candidate, len(fused))
	for i, s := range fused {
		out[i] = s.cand
		out[i].SimilarityScore = s.score
	}
	return out
}
