package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/db"
	domprod "github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// candidateFields are the hash fields fetched for every hit. The index also
// carries vendor_tag/product_type_tag TAG duplicates for exact filtering;
// those are never returned.
var candidateFields = []string{
	"id", "shopify_product_id", "title", "description",
	"vendor", "product_type", "tags", "handle", "image_url",
	"price_min", "price_max", "available", "variants", "created_at",
}

// entryToCandidate maps a store row onto the typed Candidate, validating at
// the boundary so downstream stages never see malformed rows.
func entryToCandidate(entry db.SearchEntry) (domprod.Candidate, error) {
	f := entry.Fields

	id := f["id"]
	if id == "" {
		// Fall back to the key suffix written by the indexer.
		if idx := strings.LastIndex(entry.Key, ":"); idx >= 0 {
			id = entry.Key[idx+1:]
		}
	}
	if id == "" {
		return domprod.Candidate{}, fmt.Errorf("row %s: missing product id", entry.Key)
	}
	if f["title"] == "" {
		return domprod.Candidate{}, fmt.Errorf("row %s: missing title", entry.Key)
	}

	c := domprod.Candidate{
		ID:               id,
		ShopifyProductID: f["shopify_product_id"],
		Title:            f["title"],
		Description:      f["description"],
		Vendor:           f["vendor"],
		ProductType:      f["product_type"],
		Handle:           f["handle"],
		ImageURL:         f["image_url"],
		PriceMin:         parseFloat(f["price_min"]),
		PriceMax:         parseFloat(f["price_max"]),
		Available:        f["available"] == "1",
	}

	if tags := f["tags"]; tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.Tags = append(c.Tags, t)
			}
		}
	}

	if raw := f["variants"]; raw != "" {
		var variants []domprod.Variant
		if err := json.Unmarshal([]byte(raw), &variants); err == nil {
			c.Variants = variants
		}
	}

	if ts := parseInt(f["created_at"]); ts > 0 {
		c.CreatedAt = time.Unix(ts, 0).UTC()
	}

	return c, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
