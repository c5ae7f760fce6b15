package product

import (
	"math"
	"testing"

	domprod "github.com/kailas-cloud/shopsearch/internal/domain/product"
)

func TestKeywordScore_FieldWeights(t *testing.T) {
	c := domprod.Candidate{
		Title:       "Wool Hiking Socks",
		Description: "Warm wool blend",
		Vendor:      "Acme",
		ProductType: "socks",
		Handle:      "wool-hiking-socks",
		Tags:        []string{"wool", "outdoor"},
		Variants:    []domprod.Variant{{SKU: "WHS-001"}},
	}

	// "wool" hits title + description + handle + tag.
	want := kwBase + kwTitle + kwDescription + kwHandle + kwTag
	if got := keywordScore("wool", &c); math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordScore_TermsSumAcrossQuery(t *testing.T) {
	c := domprod.Candidate{Title: "Wool Socks"}
	one := keywordScore("wool", &c)
	two := keywordScore("wool socks", &c)
	if two <= one {
		t.Errorf("two matching terms (%v) should outscore one (%v)", two, one)
	}
}

func TestKeywordScore_ExactTitleBonus(t *testing.T) {
	c := domprod.Candidate{Title: "Wool Socks"}
	exact := keywordScore("Wool Socks", &c)
	partial := keywordScore("wool socks warm", &c)
	if exact <= partial {
		t.Errorf("exact title match (%v) should outscore partial (%v)", exact, partial)
	}
}

func TestKeywordScore_ExactSKUBonus(t *testing.T) {
	c := domprod.Candidate{
		Title:    "Widget",
		Variants: []domprod.Variant{{SKU: "ABC-123"}},
	}
	got := keywordScore("abc-123", &c)
	// Term hit on variant + exact SKU bonus, clamped to 1.
	want := kwBase + kwVariant + kwExactSKU
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordScore_ClampedToOne(t *testing.T) {
	c := domprod.Candidate{
		Title:       "wool wool wool",
		Description: "wool",
		Vendor:      "wool",
		ProductType: "wool",
		Handle:      "wool",
		Tags:        []string{"wool"},
		Variants:    []domprod.Variant{{SKU: "wool"}},
	}
	if got := keywordScore("wool wool wool wool", &c); got > 1 {
		t.Errorf("score = %v, must be clamped to 1", got)
	}
}

func TestKeywordScore_Deterministic(t *testing.T) {
	c := domprod.Candidate{
		Title:  "Wool Hiking Socks",
		Vendor: "Acme",
		Tags:   []string{"wool"},
	}
	first := keywordScore("wool hiking", &c)
	for i := 0; i < 10; i++ {
		if got := keywordScore("wool hiking", &c); got != first {
			t.Fatalf("run %d: score %v != %v", i, got, first)
		}
	}
}
