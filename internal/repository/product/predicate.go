package product

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

// textFields are the TEXT-indexed fields the keyword OR-group matches.
// Tags are TAG-indexed and get their own exact-match clauses alongside.
const textFields = "title|description|vendor|product_type|handle|skus"

// buildPredicate translates a FilterSet into an FT pre-filter expression.
// Price filters use overlap semantics: a product matches when its price
// range intersects the requested one.
func buildPredicate(f filter.Set) string {
	if f.IsEmpty() {
		return ""
	}

	var parts []string

	if f.Vendor != "" {
		parts = append(parts, fmt.Sprintf("@vendor_tag:{%s}", escapeTag(f.Vendor)))
	}
	if f.ProductType != "" {
		parts = append(parts, fmt.Sprintf("@product_type_tag:{%s}", escapeTag(f.ProductType)))
	}
	if len(f.Tags) > 0 {
		tagParts := make([]string, 0, len(f.Tags))
		for _, t := range f.Tags {
			tagParts = append(tagParts, fmt.Sprintf("@tags:{%s}", escapeTag(t)))
		}
		parts = append(parts, "("+strings.Join(tagParts, " | ")+")")
	}
	if f.PriceMin != nil {
		parts = append(parts, fmt.Sprintf("@price_max:[%g +inf]", *f.PriceMin))
	}
	if f.PriceMax != nil {
		parts = append(parts, fmt.Sprintf("@price_min:[-inf %g]", *f.PriceMax))
	}
	if f.Available != nil {
		v := "0"
		if *f.Available {
			v = "1"
		}
		parts = append(parts, fmt.Sprintf("@available:{%s}", v))
	}

	return strings.Join(parts, " ")
}

// buildTextPredicate combines the filter clauses with an OR-group matching
// each query term against the searchable text fields, and each term exactly
// against the product tags. A product whose only match is a tag still comes
// back from keyword retrieval.
func buildTextPredicate(f filter.Set, terms []string) string {
	escaped := make([]string, 0, len(terms))
	tagParts := make([]string, 0, len(terms))
	for _, t := range terms {
		if e := escapeTerm(t); e != "" {
			escaped = append(escaped, e)
		}
		if e := escapeTag(t); e != "" {
			tagParts = append(tagParts, fmt.Sprintf("@tags:{%s}", e))
		}
	}

	matchParts := append(
		[]string{fmt.Sprintf("@%s:(%s)", textFields, strings.Join(escaped, " | "))},
		tagParts...,
	)
	matchPart := "(" + strings.Join(matchParts, " | ") + ")"

	if pred := buildPredicate(f); pred != "" {
		return pred + " " + matchPart
	}
	return matchPart
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var termEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

func escapeTerm(s string) string {
	return termEscaper.Replace(s)
}
