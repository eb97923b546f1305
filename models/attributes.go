package models

import (
	"encoding/json"
	"strings"
)

// AttributeFilter is the structured constraint set extracted from a
// style query. Every field except Gender is optional: an unset field
// means "do not filter on this dimension", never "match nothing".
type AttributeFilter struct {
	PriceMax   *float64 `json:"price_max"`
	PriceMin   *float64 `json:"price_min"`
	Colors     []string `json:"colors"`
	Categories []string `json:"categories"`
	Occasion   *string  `json:"occasion"`
	Season     *string  `json:"season"`
	Gender     string   `json:"gender"`
}

// IsUnset reports whether no optional constraint was extracted. Gender
// is fixed per deployment and does not count.
func (f AttributeFilter) IsUnset() bool {
	return f.PriceMax == nil && f.PriceMin == nil && len(f.Colors) == 0 &&
		len(f.Categories) == 0 && f.Occasion == nil && f.Season == nil
}

// Interpretation is the full result of running a style query through
// the language model: the typed filter plus the generation prompt and
// descriptive text the rest of the flow feeds on.
type Interpretation struct {
	Filter           AttributeFilter `json:"filter"`
	VisualPrompt     string          `json:"visual_prompt"`
	StyleDescription string          `json:"style_description"`
	SearchKeywords   []string        `json:"search_keywords"`
	StyleTerms       []string        `json:"style_terms"`
	Fabrics          []string        `json:"fabrics"`
	Silhouettes      []string        `json:"silhouettes"`
	Details          []string        `json:"details"`
}

// rawInterpretation mirrors the nested JSON the model is prompted to
// return. All fields are optional on the wire.
type rawInterpretation struct {
	ExplicitAttributes struct {
		Occasion  *string  `json:"occasion"`
		Formality *string  `json:"formality"`
		Colors    []string `json:"colors"`
		PriceMax  *float64 `json:"price_max"`
		PriceMin  *float64 `json:"price_min"`
		Season    *string  `json:"season"`
	} `json:"explicit_attributes"`
	SubjectiveStyle struct {
		StyleTerms []string `json:"style_terms"`
	} `json:"subjective_style"`
	InferredNeeds struct {
		GarmentTypes []string `json:"garment_types"`
		Fabrics      []string `json:"fabrics"`
		Silhouettes  []string `json:"silhouettes"`
		Details      []string `json:"details"`
	} `json:"inferred_needs"`
	VisualGenerationPrompt string   `json:"visual_generation_prompt"`
	StyleDescription       string   `json:"style_description"`
	SearchKeywords         []string `json:"search_keywords"`
}

// ParseInterpretation decodes the model's JSON into a typed
// Interpretation. Markdown code fences are stripped first. On any
// decode failure it fails closed: an all-unset filter with the raw
// query as the visual prompt, so search degrades to unfiltered
// similarity ranking instead of erroring out.
func ParseInterpretation(response string, query string, gender string) Interpretation {
	cleaned := StripMarkdownFences(response)

	var raw rawInterpretation
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return FallbackInterpretation(query, gender)
	}

	interp := Interpretation{
		Filter: AttributeFilter{
			PriceMax:   positivePrice(raw.ExplicitAttributes.PriceMax),
			PriceMin:   positivePrice(raw.ExplicitAttributes.PriceMin),
			Colors:     cleanList(raw.ExplicitAttributes.Colors),
			Categories: cleanList(raw.InferredNeeds.GarmentTypes),
			Occasion:   cleanOptional(raw.ExplicitAttributes.Occasion),
			Season:     cleanOptional(raw.ExplicitAttributes.Season),
			Gender:     gender,
		},
		VisualPrompt:     strings.TrimSpace(raw.VisualGenerationPrompt),
		StyleDescription: strings.TrimSpace(raw.StyleDescription),
		SearchKeywords:   cleanList(raw.SearchKeywords),
		StyleTerms:       cleanList(raw.SubjectiveStyle.StyleTerms),
		Fabrics:          cleanList(raw.InferredNeeds.Fabrics),
		Silhouettes:      cleanList(raw.InferredNeeds.Silhouettes),
		Details:          cleanList(raw.InferredNeeds.Details),
	}
	if interp.VisualPrompt == "" {
		interp.VisualPrompt = query
	}
	return interp
}

// FallbackInterpretation is the fail-closed result used when the model
// is unreachable or returned garbage.
func FallbackInterpretation(query string, gender string) Interpretation {
	return Interpretation{
		Filter:         AttributeFilter{Gender: gender},
		VisualPrompt:   query,
		SearchKeywords: strings.Fields(query),
	}
}

// StripMarkdownFences removes a leading ```json / ``` fence and a
// trailing ``` fence, which Gemini wraps JSON answers in.
func StripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

func positivePrice(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func cleanOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

func cleanList(values []string) []string {
	var result []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
