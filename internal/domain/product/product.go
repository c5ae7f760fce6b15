// Package product holds the candidate product snapshot that flows through
// retrieval, fusion and ranking. Unlike most domain types the Candidate is a
// plain mutable struct: each pipeline stage overwrites SimilarityScore with
// its own semantics (raw vector similarity, keyword heuristic, fused RRF
// score, final rank score).
package product

import "time"

// Variant is a purchasable product variant.
type Variant struct {
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"sale_price,omitempty"` // 0 = not on sale
}

// Candidate is a product snapshot under consideration for a search response.
type Candidate struct {
	ID               string    `json:"id"`
	ShopifyProductID string    `json:"shopify_product_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Vendor           string    `json:"vendor"`
	ProductType      string    `json:"product_type"`
	Tags             []string  `json:"tags"`
	Handle           string    `json:"handle"`
	ImageURL         string    `json:"image_url,omitempty"`
	PriceMin         float64   `json:"price_min"`
	PriceMax         float64   `json:"price_max"`
	Available        bool      `json:"available"`
	Variants         []Variant `json:"variants,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitzero"`

	// SimilarityScore is stage-dependent, always in [0,1] after retrieval.
	SimilarityScore float64 `json:"similarity_score"`
}

// Key identifies a candidate for de-duplication across retrieval sources.
func (c *Candidate) Key() string {
	return c.ShopifyProductID + "/" + c.ID
}
