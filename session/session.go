// Package session models the browsing-session state machine a client
// drives against the API. The backend itself is stateless between
// requests; this package gives the state its invariants: append-only
// concept history, per-concept suggestion caching, a bounded product
// selection and discard of stale in-flight results.
package session

import (
	"errors"
	"fmt"
	"sync"

	"athenaapi/models"
)

// State names the four screens a session moves through. Transitions
// happen only on completed, validated server responses.
type State int

const (
	StateSearch State = iota
	StateWorkbench
	StateProducts
	StateLookBuilder
)

func (s State) String() string {
	switch s {
	case StateSearch:
		return "search"
	case StateWorkbench:
		return "workbench"
	case StateProducts:
		return "products"
	case StateLookBuilder:
		return "look_builder"
	default:
		return "unknown"
	}
}

// MaxSelectedProducts bounds the look-builder selection.
const MaxSelectedProducts = 3

var (
	ErrStaleResult       = errors.New("stale result discarded")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSelectionFull     = errors.New("selection already holds the maximum number of products")
	ErrNoConcept         = errors.New("no concept available")
)

// RequestToken identifies one in-flight request. A result is applied
// only if no newer request was started since its token was issued.
type RequestToken uint64

// Session is the per-browsing-session state machine. Safe for
// concurrent use; every mutation is guarded and validated.
type Session struct {
	mu sync.Mutex

	state        State
	query        string
	concepts     []models.ConceptImage
	currentIndex int

	// suggestions are cached per concept index so revisiting a concept
	// never re-triggers a model call.
	suggestions map[int][]models.StyleSuggestion

	selected []models.Product
	look     *models.Look

	latestToken RequestToken
}

func New() *Session {
	return &Session{
		state:        StateSearch,
		currentIndex: -1,
		suggestions:  make(map[int][]models.StyleSuggestion),
	}
}

// Begin registers a new in-flight request and invalidates every token
// issued earlier. Results carrying an older token are discarded on
// application.
func (s *Session) Begin() RequestToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestToken++
	return s.latestToken
}

func (s *Session) stale(token RequestToken) bool {
	return token != s.latestToken
}

// ApplySearch records a completed search: the query, its first concept
// and the transition into the workbench. Starting a new search discards
// all prior workbench state.
func (s *Session) ApplySearch(token RequestToken, query string, concept models.ConceptImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(token) {
		return fmt.Errorf("%w: search for %q", ErrStaleResult, query)
	}

	s.state = StateWorkbench
	s.query = query
	s.concepts = []models.ConceptImage{concept}
	s.currentIndex = 0
	s.suggestions = make(map[int][]models.StyleSuggestion)
	s.selected = nil
	s.look = nil
	return nil
}

// ApplyRefinement appends a refined concept to the history and moves
// the cursor onto it. History is never rewritten; refining from an
// older concept still appends at the end.
func (s *Session) ApplyRefinement(token RequestToken, concept models.ConceptImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(token) {
		return fmt.Errorf("%w: refinement", ErrStaleResult)
	}
	if s.state == StateSearch {
		return fmt.Errorf("%w: cannot refine before a search completes", ErrInvalidTransition)
	}

	s.state = StateWorkbench
	s.concepts = append(s.concepts, concept)
	s.currentIndex = len(s.concepts) - 1
	return nil
}

// ApplyProducts transitions into the product results screen once a
// match request completed for the current concept.
func (s *Session) ApplyProducts(token RequestToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(token) {
		return fmt.Errorf("%w: product match", ErrStaleResult)
	}
	if len(s.concepts) == 0 {
		return fmt.Errorf("%w: cannot show products without a concept", ErrInvalidTransition)
	}

	s.state = StateProducts
	return nil
}

// ApplyLook stores a composed look and enters the look builder.
func (s *Session) ApplyLook(token RequestToken, look models.Look) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(token) {
		return fmt.Errorf("%w: look", ErrStaleResult)
	}
	if s.state != StateProducts && s.state != StateLookBuilder {
		return fmt.Errorf("%w: look requires the product screen", ErrInvalidTransition)
	}

	s.state = StateLookBuilder
	s.look = &look
	return nil
}

// GoToConcept moves the cursor within the concept history.
func (s *Session) GoToConcept(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.concepts) {
		return fmt.Errorf("%w: index %d of %d concepts", ErrNoConcept, index, len(s.concepts))
	}
	s.currentIndex = index
	s.state = StateWorkbench
	return nil
}

// CurrentConcept returns the concept under the cursor.
func (s *Session) CurrentConcept() (models.ConceptImage, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex < 0 || s.currentIndex >= len(s.concepts) {
		return models.ConceptImage{}, -1, ErrNoConcept
	}
	return s.concepts[s.currentIndex], s.currentIndex, nil
}

// ConceptHistory returns a copy of the full history.
func (s *Session) ConceptHistory() []models.ConceptImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]models.ConceptImage, len(s.concepts))
	copy(history, s.concepts)
	return history
}

// CachedSuggestions returns the suggestion list stored for a concept
// index, if any.
func (s *Session) CachedSuggestions(index int) ([]models.StyleSuggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestions, ok := s.suggestions[index]
	return suggestions, ok
}

// StoreSuggestions caches suggestions for a concept index. The cache
// is keyed by history index so refinements get fresh suggestions while
// revisits stay free.
func (s *Session) StoreSuggestions(index int, suggestions []models.StyleSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.concepts) {
		return fmt.Errorf("%w: index %d of %d concepts", ErrNoConcept, index, len(s.concepts))
	}
	s.suggestions[index] = suggestions
	return nil
}

// SelectProduct adds a product to the look-builder selection. At most
// MaxSelectedProducts can be selected; re-selecting an already selected
// product is a no-op.
func (s *Session) SelectProduct(product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.selected {
		if p.ID == product.ID {
			return nil
		}
	}
	if len(s.selected) >= MaxSelectedProducts {
		return ErrSelectionFull
	}
	s.selected = append(s.selected, product)
	return nil
}

// DeselectProduct removes a product from the selection.
func (s *Session) DeselectProduct(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.selected {
		if p.ID == productID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

// SelectedProducts returns a copy of the current selection in
// selection order.
func (s *Session) SelectedProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := make([]models.Product, len(s.selected))
	copy(selected, s.selected)
	return selected
}

// Look returns the composed look, if one exists.
func (s *Session) Look() (models.Look, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.look == nil {
		return models.Look{}, false
	}
	return *s.look, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}
