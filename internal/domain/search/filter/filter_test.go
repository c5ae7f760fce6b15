package filter

import "testing"

func f64(v float64) *float64 { return &v }
func b(v bool) *bool         { return &v }

func TestIsEmpty(t *testing.T) {
	if !(Set{}).IsEmpty() {
		t.Error("zero set should be empty")
	}
	if (Set{Vendor: "acme"}).IsEmpty() {
		t.Error("set with vendor should not be empty")
	}
	if (Set{Available: b(false)}).IsEmpty() {
		t.Error("available=false is a constraint, not empty")
	}
}

func TestCanonicalJSON_Stable(t *testing.T) {
	a := Set{Vendor: "acme", Tags: []string{"wool", "boots"}, PriceMax: f64(100)}
	b := Set{PriceMax: f64(100), Tags: []string{"boots", "wool"}, Vendor: "acme"}
	if a.CanonicalJSON() != b.CanonicalJSON() {
		t.Errorf("equal sets produced different canonical JSON:\n%s\n%s",
			a.CanonicalJSON(), b.CanonicalJSON())
	}
}

func TestCanonicalJSON_OmitsUnset(t *testing.T) {
	if got := (Set{}).CanonicalJSON(); got != "{}" {
		t.Errorf("empty set = %s, want {}", got)
	}
}

func TestMerge(t *testing.T) {
	base := Set{Vendor: "acme", Tags: []string{"boots"}, PriceMin: f64(10)}
	parsed := Set{Vendor: "north", Tags: []string{"boots", "winter"}, PriceMax: f64(200)}

	got := base.Merge(parsed)

	if got.Vendor != "north" {
		t.Errorf("vendor = %q, parsed filters take precedence", got.Vendor)
	}
	if got.PriceMin == nil || *got.PriceMin != 10 {
		t.Error("base price_min lost")
	}
	if got.PriceMax == nil || *got.PriceMax != 200 {
		t.Error("parsed price_max lost")
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v, want union of 2", got.Tags)
	}
	// Base must stay untouched.
	if len(base.Tags) != 1 {
		t.Errorf("base tags mutated: %v", base.Tags)
	}
}
