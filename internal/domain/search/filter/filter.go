// Package filter defines the typed filter set applied to product retrieval.
package filter

import (
	"encoding/json"
	"sort"
)

// Set carries optional, named, typed constraints. Unset fields impose no
// constraint; unknown keys are rejected at the transport boundary.
type Set struct {
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
	ProductType string   `json:"product_type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (s Set) IsEmpty() bool {
	return s.PriceMin == nil && s.PriceMax == nil &&
		s.Vendor == "" && s.ProductType == "" &&
		len(s.Tags) == 0 && s.Available == nil
}

// CanonicalJSON renders the set with sorted keys and sorted tags, so that
// equal filter sets always produce byte-identical output. Used for cache keys.
func (s Set) CanonicalJSON() string {
	m := map[string]any{}
	if s.PriceMin != nil {
		m["price_min"] = *s.PriceMin
	}
	if s.PriceMax != nil {
		m["price_max"] = *s.PriceMax
	}
	if s.Vendor != "" {
		m["vendor"] = s.Vendor
	}
	if s.ProductType != "" {
		m["product_type"] = s.ProductType
	}
	if len(s.Tags) > 0 {
		tags := append([]string(nil), s.Tags...)
		sort.Strings(tags)
		m["tags"] = tags
	}
	if s.Available != nil {
		m["available"] = *s.Available
	}
	// encoding/json writes map keys in sorted order.
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Merge overlays other onto s, with other taking precedence for scalar
// fields and tags unioned. Used by the AI pipeline to combine request
// filters with filters extracted by query understanding.
func (s Set) Merge(other Set) Set {
	out := s
	if other.PriceMin != nil {
		out.PriceMin = other.PriceMin
	}
	if other.PriceMax != nil {
		out.PriceMax = other.PriceMax
	}
	if other.Vendor != "" {
		out.Vendor = other.Vendor
	}
	if other.ProductType != "" {
		out.ProductType = other.ProductType
	}
	if other.Available != nil {
		out.Available = other.Available
	}
	if len(other.Tags) > 0 {
		seen := make(map[string]bool, len(s.Tags))
		merged := append([]string(nil), s.Tags...)
		for _, t := range s.Tags {
			seen[t] = true
		}
		for _, t := range other.Tags {
			if !seen[t] {
				merged = append(merged, t)
			}
		}
		out.Tags = merged
	}
	return out
}
