package models

// ConceptImage is one generated (or refined) concept. Concepts are
// never mutated after creation; refinement appends a new entry to the
// session's history with RefinementPrompt pointing at the instruction
// that produced it.
type ConceptImage struct {
	ImageURL         string  `json:"image_url"`
	Description      string  `json:"description"`
	RefinementPrompt *string `json:"refinement_prompt,omitempty"`
}

// Look is a styled outfit synthesized from 2-3 selected products.
type Look struct {
	Products     []Product `json:"products"`
	LookImageURL string    `json:"look_image_url"`
	Description  string    `json:"description"`
}

// GarmentRegion is one garment detected in a concept image by the
// vision model, used to scope multi-category catalog search.
type GarmentRegion struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
}

// StyleSuggestion is a single refinement chip offered for the current
// concept.
type StyleSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FallbackSuggestions are served when suggestion generation fails.
// The UI contract depends on exactly these four defaults.
func FallbackSuggestions() []StyleSuggestion {
	return []StyleSuggestion{
		{Title: "Color Variation", Description: "Try the design in a different color palette"},
		{Title: "Length Adjustment", Description: "Make it longer or shorter"},
		{Title: "Detail Enhancement", Description: "Add or refine details like sleeves, neckline or trim"},
		{Title: "Silhouette Change", Description: "Explore a different fit or silhouette"},
	}
}
