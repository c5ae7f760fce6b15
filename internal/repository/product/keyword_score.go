package product

import (
	"strings"

	domprod "github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Per-field weights for the keyword heuristic.
const (
	kwBase        = 0.3
	kwTitle       = 0.25
	kwVendor      = 0.15
	kwType        = 0.10
	kwDescription = 0.05
	kwHandle      = 0.10
	kwTag         = 0.15
	kwVariant     = 0.20

	kwExactTitle = 0.3
	kwExactSKU   = 0.5
)

// keywordScore computes the deterministic keyword relevance heuristic:
// a base score plus per-field weights for every term hit, summed across all
// query terms, plus exact-match bonuses, clamped to [0,1].
func keywordScore(query string, c *domprod.Candidate) float64 {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(c.Title)
	vendor := strings.ToLower(c.Vendor)
	ptype := strings.ToLower(c.ProductType)
	desc := strings.ToLower(c.Description)
	handle := strings.ToLower(c.Handle)

	tags := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = strings.ToLower(t)
	}
	skus := make([]string, 0, len(c.Variants))
	for _, v := range c.Variants {
		if v.SKU != "" {
			skus = append(skus, strings.ToLower(v.SKU))
		}
	}

	score := kwBase
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += kwTitle
		}
		if strings.Contains(vendor, term) {
			score += kwVendor
		}
		if strings.Contains(ptype, term) {
			score += kwType
		}
		if strings.Contains(desc, term) {
			score += kwDescription
		}
		if strings.Contains(handle, term) {
			score += kwHandle
		}
		if containsAny(tags, term) {
			score += kwTag
		}
		if containsAny(skus, term) {
			score += kwVariant
		}
	}

	full := strings.ToLower(strings.TrimSpace(query))
	if full == title {
		score += kwExactTitle
	}
	for _, sku := range skus {
		if full == sku {
			score += kwExactSKU
			break
		}
	}

	if score > 1 {
		return 1
	}
	return score
}

func containsAny(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}
