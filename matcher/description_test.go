package matcher

import (
	"testing"

	"athenaapi/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchDescriptionEmptyResult(t *testing.T) {
	desc := MatchDescription(nil, models.AttributeFilter{})
	assert.Equal(t, "No matching products found. Please try refining your search criteria.", desc)
}

func TestMatchDescriptionIncludesBudget(t *testing.T) {
	max := 150.0
	products := []models.Product{
		{ID: "P1", SimilarityScore: 0.5},
		{ID: "P2", SimilarityScore: 0.5},
	}
	desc := MatchDescription(products, models.AttributeFilter{PriceMax: &max})
	assert.Contains(t, desc, "Found 2 products")
	assert.Contains(t, desc, "within your budget of $150")
}

func TestMatchDescriptionQualityClauses(t *testing.T) {
	high := []models.Product{{ID: "P1", SimilarityScore: 0.9}}
	assert.Contains(t, MatchDescription(high, models.AttributeFilter{}), "excellent similarity")

	good := []models.Product{{ID: "P1", SimilarityScore: 0.7}}
	assert.Contains(t, MatchDescription(good, models.AttributeFilter{}), "good matches")

	low := []models.Product{{ID: "P1", SimilarityScore: 0.3}}
	desc := MatchDescription(low, models.AttributeFilter{})
	assert.NotContains(t, desc, "excellent")
	assert.NotContains(t, desc, "good matches")
}

func TestMatchDescriptionListsMatchedCategories(t *testing.T) {
	tops := "Tops"
	bottoms := "Bottoms"
	products := []models.Product{
		{ID: "P1", SimilarityScore: 0.5, MatchedCategory: &tops},
		{ID: "P2", SimilarityScore: 0.5, MatchedCategory: &bottoms},
		{ID: "P3", SimilarityScore: 0.5, MatchedCategory: &tops},
	}
	desc := MatchDescription(products, models.AttributeFilter{})
	assert.Contains(t, desc, "spanning Tops, Bottoms")
}
