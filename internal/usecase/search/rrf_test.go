package search

import (
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

func cand(id string) product.Candidate {
	return product.Candidate{ID: id, ShopifyProductID: "s-" + id}
}

func TestFuseRRF_CorroborationWins(t *testing.T) {
	// B appears in both lists; A leads the vector list alone. B's summed
	// score 0.7/61 + 0.3/62 must beat A's 0.7/61.
	vec := []product.Candidate{cand("A"), cand("B"), cand("C")}
	kw := []product.Candidate{cand("B"), cand("D")}

	fused := fuseRRF(vec, kw, 0.7, 0.3, 60)
	if fused[0].ID != "B" {
		t.Fatalf("expected corroborated B first, got %q", fused[0].ID)
	}

	wantB := 0.7/61 + 0.3/62
	if math.Abs(fused[0].SimilarityScore-wantB) > 1e-12 {
		t.Errorf("expected B score %v, got %v", wantB, fused[0].SimilarityScore)
	}
}

func TestFuseRRF_AllDistinctCandidatesKept(t *testing.T) {
	vec := []product.Candidate{cand("A"), cand("B")}
	kw := []product.Candidate{cand("B"), cand("C"), cand("D")}

	fused := fuseRRF(vec, kw, 0.7, 0.3, 60)
	if len(fused) != 4 {
		t.Fatalf("expected 4 distinct candidates, got %d", len(fused))
	}
}

func TestFuseRRF_VectorOrderBreaksTies(t *testing.T) {
	// Same ranks in a single list produce distinct scores, so build a tie
	// across lists: equal weights, A at vector rank 0, X at keyword rank 0.
	vec := []product.Candidate{cand("A")}
	kw := []product.Candidate{cand("X")}

	fused := fuseRRF(vec, kw, 0.5, 0.5, 60)
	if want := []string{"A", "X"}; !reflect.DeepEqual(ids(fused), want) {
		t.Errorf("expected vector-first tie order %v, got %v", want, ids(fused))
	}
}

func TestFuseRRF_ScoreOverwritten(t *testing.T) {
	a := cand("A")
	a.SimilarityScore = 0.93
	fused := fuseRRF([]product.Candidate{a}, nil, 0.7, 0.3, 60)

	want := 0.7 / 61
	if math.Abs(fused[0].SimilarityScore-want) > 1e-12 {
		t.Errorf("expected fused score %v, got %v", want, fused[0].SimilarityScore)
	}
}

func TestFuseRRF_EmptyInputs(t *testing.T) {
	if fused := fuseRRF(nil, nil, 0.7, 0.3, 60); len(fused) != 0 {
		t.Errorf("expected empty fusion, got %d", len(fused))
	}

	kw := []product.Candidate{cand("A")}
	fused := fuseRRF(nil, kw, 0.7, 0.3, 60)
	if len(fused) != 1 || fused[0].ID != "A" {
		t.Errorf("expected keyword-only candidate to survive, got %v", ids(fused))
	}
}

func TestFuseRRF_DeduplicatesByIdentityKey(t *testing.T) {
	// Same ID under different shopify ids is a different identity.
	a1 := product.Candidate{ID: "A", ShopifyProductID: "s1"}
	a2 := product.Candidate{ID: "A", ShopifyProductID: "s2"}

	fused := fuseRRF([]product.Candidate{a1}, []product.Candidate{a2}, 0.7, 0.3, 60)
	if len(fused) != 2 {
		t.Errorf("expected distinct identities kept apart, got %d", len(fused))
	}
}
