package ranking

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

// Heuristic score deltas. The base is the candidate's similarity score from
// the previous stage; each signal below adjusts it.
const (
	hAvailable      = 0.10
	hUnavailable    = -0.20
	hPriceUnderMax  = 0.15
	hPriceOverMin   = 0.10
	hTypeMatch      = 0.20
	hVendorMatch    = 0.15
	hPerTagMatch    = 0.05
	hPerTitleWord   = 0.10
	hPriceySuggest  = 0.05
	priceyThreshold = 50.0
)

// rankHeuristic orders candidates by a deterministic score. Ties keep their
// incoming relative order, so the fused ranking still breaks them.
func rankHeuristic(
	query, intent string, filters filter.Set, candidates []product.Candidate,
) []product.Candidate {
	words := strings.Fields(strings.ToLower(query))

	scores := make([]float64, len(candidates))
	order := make([]int, len(candidates))
	for i := range candidates {
		scores[i] = heuristicScore(&candidates[i], words, intent, filters)
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]product.Candidate, len(candidates))
	for i, idx := range order {
		ranked[i] = candidates[idx]
		ranked[i].SimilarityScore = scores[idx]
	}
	return ranked
}

func heuristicScore(
	c *product.Candidate, queryWords []string, intent string, filters filter.Set,
) float64 {
	score := c.SimilarityScore

	if c.Available {
		score += hAvailable
	} else {
		score += hUnavailable
	}

	if filters.PriceMax != nil && c.PriceMin <= *filters.PriceMax {
		score += hPriceUnderMax
	}
	if filters.PriceMin != nil && c.PriceMax >= *filters.PriceMin {
		score += hPriceOverMin
	}

	if filters.ProductType != "" &&
		strings.Contains(strings.ToLower(c.ProductType), strings.ToLower(filters.ProductType)) {
		score += hTypeMatch
	}
	if filters.Vendor != "" &&
		strings.Contains(strings.ToLower(c.Vendor), strings.ToLower(filters.Vendor)) {
		score += hVendorMatch
	}

	if len(filters.Tags) > 0 {
		tagSet := make(map[string]bool, len(c.Tags))
		for _, t := range c.Tags {
			tagSet[strings.ToLower(t)] = true
		}
		for _, t := range filters.Tags {
			if tagSet[strings.ToLower(t)] {
				score += hPerTagMatch
			}
		}
	}

	title := strings.ToLower(c.Title)
	titleWords := strings.Fields(title)
	for _, w := range queryWords {
		if wordInTitle(w, title, titleWords) {
			score += hPerTitleWord
		}
	}

	if intent == "recommendation" && c.PriceMin > priceyThreshold {
		score += hPriceySuggest
	}

	return score
}

// wordInTitle matches a query word against the title by substring in either
// direction: "shoe" hits "shoes", and "running-shoes" hits "shoes".
func wordInTitle(word, title string, titleWords []string) bool {
	if strings.Contains(title, word) {
		return true
	}
	for _, tw := range titleWords {
		if strings.Contains(word, tw) {
			return true
		}
	}
	return false
}
