package ranking

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

const snippetLen = 150

// buildPrompt enumerates the candidates and instructs the model to return a
// single JSON object with a total ordering over their ids.
func buildPrompt(query, intent string, candidates []product.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are ranking products for the shopper query %q (intent: %s).\n", query, intent)
	b.WriteString("Candidates:\n")

	for i, c := range candidates {
		availability := "in stock"
		if !c.Available {
			availability = "out of stock"
		}
		fmt.Fprintf(&b, "%d. id=%s title=%q", i+1, c.ID, c.Title)
		if snippet := truncate(c.Description, snippetLen); snippet != "" {
			fmt.Fprintf(&b, " description=%q", snippet)
		}
		fmt.Fprintf(&b, " price=%.2f-%.2f vendor=%q type=%q", c.PriceMin, c.PriceMax, c.Vendor, c.ProductType)
		if len(c.Tags) > 0 {
			fmt.Fprintf(&b, " tags=%s", strings.Join(c.Tags, ","))
		}
		fmt.Fprintf(&b, " %s similarity=%.3f\n", availability, c.SimilarityScore)
	}

	b.WriteString("\nOrder ALL candidate ids from most to least relevant for the query.\n")
	b.WriteString(`Respond with a single JSON object, nothing else: {"rankings": ["id", ...], "reasoning": "one short sentence"}`)

	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
