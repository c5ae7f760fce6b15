package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
)

// applySort re-orders an already-ranked list in place. Relevance keeps the
// ranked order. All sorts are stable, so equal keys preserve the ranking.
// Missing prices sort as 0.
func applySort(products []product.Candidate, mode request.Sort) {
	switch mode {
	case request.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceMin < products[j].PriceMin
		})
	case request.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceMin > products[j].PriceMin
		})
	case request.SortTitle:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
		})
	case request.SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	case request.SortRelevance:
	}
}

// paginate slices the full ranked list. Out-of-range offsets yield an empty
// page, never a panic.
func paginate(products []product.Candidate, offset, limit int) []product.Candidate {
	if offset >= len(products) {
		return []product.Candidate{}
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
