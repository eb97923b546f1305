package session

import (
	"fmt"
	"testing"

	"athenaapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concept(n int) models.ConceptImage {
	return models.ConceptImage{
		ImageURL:    fmt.Sprintf("https://cdn.example.com/concepts/%d.png", n),
		Description: fmt.Sprintf("Concept %d", n),
	}
}

func product(id string) models.Product {
	return models.Product{ID: id, Name: "Product " + id}
}

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := New()
	require.NoError(t, s.ApplySearch(s.Begin(), "red summer dress", concept(0)))
	return s
}

func TestNewSessionStartsOnSearch(t *testing.T) {
	s := New()
	assert.Equal(t, StateSearch, s.State())
	assert.Empty(t, s.ConceptHistory())

	_, _, err := s.CurrentConcept()
	assert.ErrorIs(t, err, ErrNoConcept)
}

func TestApplySearchEntersWorkbench(t *testing.T) {
	s := startedSession(t)

	assert.Equal(t, StateWorkbench, s.State())
	assert.Equal(t, "red summer dress", s.Query())

	current, index, err := s.CurrentConcept()
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.Equal(t, concept(0), current)
}

func TestRefinementHistoryIsAppendOnly(t *testing.T) {
	s := startedSession(t)
	require.NoError(t, s.ApplyRefinement(s.Begin(), concept(1)))
	require.NoError(t, s.ApplyRefinement(s.Begin(), concept(2)))

	// Step back to the first concept and refine again: history keeps
	// growing at the end instead of truncating.
	require.NoError(t, s.GoToConcept(0))
	require.NoError(t, s.ApplyRefinement(s.Begin(), concept(3)))

	history := s.ConceptHistory()
	require.Len(t, history, 4)
	for i, c := range history {
		assert.Equal(t, concept(i), c)
	}

	_, index, err := s.CurrentConcept()
	require.NoError(t, err)
	assert.Equal(t, 3, index)
}

func TestRefinementBeforeSearchIsRejected(t *testing.T) {
	s := New()
	err := s.ApplyRefinement(s.Begin(), concept(0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	s := startedSession(t)

	slow := s.Begin()
	fast := s.Begin()

	require.NoError(t, s.ApplyRefinement(fast, concept(1)))
	err := s.ApplyRefinement(slow, concept(99))
	assert.ErrorIs(t, err, ErrStaleResult)

	history := s.ConceptHistory()
	require.Len(t, history, 2)
	assert.Equal(t, concept(1), history[1])
}

func TestNewSearchResetsWorkbenchState(t *testing.T) {
	s := startedSession(t)
	require.NoError(t, s.ApplyRefinement(s.Begin(), concept(1)))
	require.NoError(t, s.StoreSuggestions(1, models.FallbackSuggestions()))
	require.NoError(t, s.SelectProduct(product("P1")))

	require.NoError(t, s.ApplySearch(s.Begin(), "black leather jacket", concept(5)))

	assert.Equal(t, "black leather jacket", s.Query())
	assert.Len(t, s.ConceptHistory(), 1)
	assert.Empty(t, s.SelectedProducts())

	_, ok := s.CachedSuggestions(1)
	assert.False(t, ok)
}

func TestSuggestionCachePerConceptIndex(t *testing.T) {
	s := startedSession(t)
	require.NoError(t, s.ApplyRefinement(s.Begin(), concept(1)))

	suggestions := []models.StyleSuggestion{{Title: "Burgundy Version", Description: "Try it in burgundy"}}
	require.NoError(t, s.StoreSuggestions(0, suggestions))

	cached, ok := s.CachedSuggestions(0)
	require.True(t, ok)
	assert.Equal(t, suggestions, cached)

	_, ok = s.CachedSuggestions(1)
	assert.False(t, ok)

	err := s.StoreSuggestions(7, suggestions)
	assert.ErrorIs(t, err, ErrNoConcept)
}

func TestSelectionCapAndDuplicates(t *testing.T) {
	s := startedSession(t)
	require.NoError(t, s.ApplyProducts(s.Begin()))

	require.NoError(t, s.SelectProduct(product("P1")))
	require.NoError(t, s.SelectProduct(product("P2")))
	require.NoError(t, s.SelectProduct(product("P3")))

	// Duplicate is a no-op, not an error, even at capacity.
	require.NoError(t, s.SelectProduct(product("P2")))
	assert.Len(t, s.SelectedProducts(), 3)

	err := s.SelectProduct(product("P4"))
	assert.ErrorIs(t, err, ErrSelectionFull)

	s.DeselectProduct("P2")
	selected := s.SelectedProducts()
	require.Len(t, selected, 2)
	assert.Equal(t, "P1", selected[0].ID)
	assert.Equal(t, "P3", selected[1].ID)

	require.NoError(t, s.SelectProduct(product("P4")))
	assert.Len(t, s.SelectedProducts(), 3)
}

func TestLookRequiresProductScreen(t *testing.T) {
	s := startedSession(t)

	err := s.ApplyLook(s.Begin(), models.Look{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.ApplyProducts(s.Begin()))
	look := models.Look{LookImageURL: "https://cdn.example.com/looks/1.png", Description: "A styled look"}
	require.NoError(t, s.ApplyLook(s.Begin(), look))

	assert.Equal(t, StateLookBuilder, s.State())
	stored, ok := s.Look()
	require.True(t, ok)
	assert.Equal(t, look, stored)
}

func TestProductsRequireAConcept(t *testing.T) {
	s := New()
	err := s.ApplyProducts(s.Begin())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGoToConceptBounds(t *testing.T) {
	s := startedSession(t)
	assert.ErrorIs(t, s.GoToConcept(-1), ErrNoConcept)
	assert.ErrorIs(t, s.GoToConcept(1), ErrNoConcept)
	assert.NoError(t, s.GoToConcept(0))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "search", StateSearch.String())
	assert.Equal(t, "workbench", StateWorkbench.String())
	assert.Equal(t, "products", StateProducts.String())
	assert.Equal(t, "look_builder", StateLookBuilder.String())
}
