// Package facet aggregates filter counts over an unfiltered candidate
// superset, so counts reflect the full query match space rather than the
// currently-applied filters.
package facet

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Truncation limits per facet group.
const (
	maxVendors = 15
	maxTypes   = 15
	maxTags    = 20
)

// Count is a single facet value with its occurrence count.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PriceBucket is a price range with the number of candidates inside it.
// The upper bound is exclusive except for the last bucket.
type PriceBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Availability holds in-stock / out-of-stock counts.
type Availability struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// Set is the full facet aggregation for one search. Derived, never persisted.
type Set struct {
	Vendors      []Count       `json:"vendors"`
	ProductTypes []Count       `json:"product_types"`
	Tags         []Count       `json:"tags"`
	PriceRanges  []PriceBucket `json:"price_ranges"`
	Availability Availability  `json:"availability"`
}

// Generate computes facets over the given candidates.
func Generate(candidates []product.Candidate) Set {
	vendors := map[string]int{}
	types := map[string]int{}
	tags := map[string]int{}
	var avail Availability

	for i := range candidates {
		c := &candidates[i]
		if c.Vendor != "" {
			vendors[c.Vendor]++
		}
		if c.ProductType != "" {
			types[c.ProductType]++
		}
		for _, t := range c.Tags {
			if t != "" {
				tags[t]++
			}
		}
		if c.Available {
			avail.InStock++
		} else {
			avail.OutOfStock++
		}
	}

	return Set{
		Vendors:      topCounts(vendors, maxVendors),
		ProductTypes: topCounts(types, maxTypes),
		Tags:         topCounts(tags, maxTags),
		PriceRanges:  priceBuckets(candidates),
		Availability: avail,
	}
}

// topCounts sorts descending by count, alphabetical on ties, truncated to n.
func topCounts(m map[string]int, n int) []Count {
	counts := make([]Count, 0, len(m))
	for v, c := range m {
		counts = append(counts, Count{Value: v, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// priceBuckets builds size-adaptive buckets over candidate minimum prices:
// narrow ranges get fixed 20-unit buckets, medium ranges 25-unit buckets,
// wide ranges four percentage cuts (20/50/80). Empty buckets are dropped.
func priceBuckets(candidates []product.Candidate) []PriceBucket {
	if len(candidates) == 0 {
		return nil
	}

	lo, hi := candidates[0].PriceMin, candidates[0].PriceMin
	for i := range candidates {
		p := candidates[i].PriceMin
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	priceRange := hi - lo

	var bounds []float64
	switch {
	case priceRange <= 50:
		bounds = []float64{lo, lo + 20, lo + 40, lo + 60}
	case priceRange <= 200:
		n := int(math.Ceil(priceRange / 25))
		bounds = make([]float64, 0, n+1)
		for b := lo; b < hi; b += 25 {
			bounds = append(bounds, b)
		}
		bounds = append(bounds, hi)
	default:
		bounds = []float64{
			lo,
			lo + priceRange*0.2,
			lo + priceRange*0.5,
			lo + priceRange*0.8,
			hi,
		}
	}

	buckets := make([]PriceBucket, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		b := PriceBucket{
			Label: fmt.Sprintf("%.2f-%.2f", bounds[i], bounds[i+1]),
			Min:   bounds[i],
			Max:   bounds[i+1],
		}
		last := i+2 == len(bounds)
		for j := range candidates {
			p := candidates[j].PriceMin
			if p >= b.Min && (p < b.Max || (last && p <= b.Max)) {
				b.Count++
			}
		}
		if b.Count > 0 {
			buckets = append(buckets, b)
		}
	}
	return buckets
}
