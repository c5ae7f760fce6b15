package product

import (
	"testing"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

func TestEntryToCandidate(t *testing.T) {
	e := db.SearchEntry{
		Key: "shopsearch:products:shop-1:42",
		Fields: map[string]string{
			"id":                 "42",
			"shopify_product_id": "gid-42",
			"title":              "Wool Socks",
			"description":        "Warm socks",
			"vendor":             "Acme",
			"product_type":       "socks",
			"tags":               "wool, winter ,",
			"handle":             "wool-socks",
			"price_min":          "19.99",
			"price_max":          "29.99",
			"available":          "1",
			"variants":           `[{"sku":"WS-1","price":19.99}]`,
			"created_at":         "1700000000",
		},
	}

	c, err := entryToCandidate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != "42" || c.ShopifyProductID != "gid-42" {
		t.Errorf("identity = %s/%s", c.ShopifyProductID, c.ID)
	}
	if len(c.Tags) != 2 || c.Tags[0] != "wool" || c.Tags[1] != "winter" {
		t.Errorf("tags = %v", c.Tags)
	}
	if c.PriceMin != 19.99 || c.PriceMax != 29.99 {
		t.Errorf("prices = %v/%v", c.PriceMin, c.PriceMax)
	}
	if !c.Available {
		t.Error("available not parsed")
	}
	if len(c.Variants) != 1 || c.Variants[0].SKU != "WS-1" {
		t.Errorf("variants = %+v", c.Variants)
	}
	if c.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
}

func TestEntryToCandidate_IDFromKey(t *testing.T) {
	e := db.SearchEntry{
		Key:    "shopsearch:products:shop-1:99",
		Fields: map[string]string{"title": "Boots"},
	}
	c, err := entryToCandidate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != "99" {
		t.Errorf("id = %q, want key suffix 99", c.ID)
	}
}

func TestEntryToCandidate_RejectsMissingTitle(t *testing.T) {
	e := db.SearchEntry{Key: "k:1", Fields: map[string]string{"id": "1"}}
	if _, err := entryToCandidate(e); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEntryToCandidate_IgnoresBadVariantJSON(t *testing.T) {
	e := db.SearchEntry{
		Key:    "k:1",
		Fields: map[string]string{"id": "1", "title": "X", "variants": "not json"},
	}
	c, err := entryToCandidate(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Variants != nil {
		t.Errorf("variants = %+v, want nil", c.Variants)
	}
}
