package matcher

import (
	"fmt"
	"strings"

	"athenaapi/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// MatchDescription builds the human-readable summary returned next to
// a product ranking. An empty result set gets an explicit "no matches"
// message rather than an error.
func MatchDescription(products []models.Product, filter models.AttributeFilter) string {
	if len(products) == 0 {
		return "No matching products found. Please try refining your search criteria."
	}

	var total float64
	for _, p := range products {
		total += p.SimilarityScore
	}
	avgSimilarity := total / float64(len(products))

	parts := []string{
		fmt.Sprintf("Found %d products that match your refined style concept", len(products)),
	}

	if filter.PriceMax != nil {
		parts = append(parts, fmt.Sprintf("within your budget of $%.0f", *filter.PriceMax))
	}

	if categories := matchedCategories(products); len(categories) > 0 {
		parts = append(parts, "spanning "+strings.Join(categories, ", "))
	}

	if avgSimilarity > 0.8 {
		parts = append(parts, "with excellent similarity to your vision")
	} else if avgSimilarity > 0.6 {
		parts = append(parts, "with good matches to your preferences")
	}

	return strings.Join(parts, ". ") + "."
}

func matchedCategories(products []models.Product) []string {
	seen := map[string]bool{}
	var categories []string
	for _, p := range products {
		if p.MatchedCategory == nil {
			continue
		}
		name := titleCaser.String(strings.ToLower(*p.MatchedCategory))
		if !seen[name] {
			seen[name] = true
			categories = append(categories, name)
		}
	}
	return categories
}
