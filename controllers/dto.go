package controllers

import "athenaapi/models"

type SearchIn struct {
	Query string `json:"query" validate:"required,max=500"`
}

type SearchByImageIn struct {
	ImageData             string `json:"image_data" validate:"required"`
	AdditionalDescription string `json:"additional_description" validate:"omitempty,max=500"`
}

type RefineIn struct {
	OriginalPrompt   string `json:"original_prompt" validate:"required,max=2000"`
	RefinementPrompt string `json:"refinement_prompt" validate:"required,max=500"`
	CurrentImageURL  string `json:"current_image_url" validate:"required"`
}

type SuggestRefinementsIn struct {
	ImageURL    string `json:"image_url" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Query       string `json:"query" validate:"omitempty,max=500"`
}

type MatchProductsIn struct {
	Query       string `json:"query" validate:"omitempty,max=500"`
	ImageURL    string `json:"image_url" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type CreateLookIn struct {
	Products []models.Product `json:"products" validate:"required,min=2,max=3"`
}

type SearchResponse struct {
	ImageURL         string                `json:"image_url"`
	Description      string                `json:"description"`
	ParsedAttributes models.Interpretation `json:"parsed_attributes"`
}

type SearchByImageResponse struct {
	ImageURL         string                `json:"image_url"`
	Description      string                `json:"description"`
	ParsedAttributes models.Interpretation `json:"parsed_attributes"`
	AnalyzedStyle    string                `json:"analyzed_style"`
}

type RefineResponse struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

type SuggestionsResponse struct {
	Suggestions []models.StyleSuggestion `json:"suggestions"`
	Degraded    *bool                    `json:"degraded,omitempty"`
}

type MatchProductsResponse struct {
	Products         []models.Product `json:"products"`
	MatchDescription string           `json:"match_description"`
}

type CreateLookResponse struct {
	LookImageURL string           `json:"look_image_url"`
	Description  string           `json:"description"`
	Products     []models.Product `json:"products"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
