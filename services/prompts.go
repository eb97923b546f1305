package services

import (
	"fmt"
	"strings"

	"athenaapi/models"
)

// The prompts below pin every model call to women's fashion and to
// catalog-style photography so that generated concepts stay visually
// comparable to the product images the embeddings were computed from.

func BuildParsePrompt(query string) string {
	return fmt.Sprintf(`You are an expert fashion stylist and AI assistant specializing in WOMEN'S FASHION. Analyze the following fashion search query and extract structured information.

IMPORTANT: This application is exclusively for women's fashion and clothing. All garments, styles, and recommendations must be for women.

User Query: "%s"

Please extract and structure the following information:

1. **Explicit Attributes**: Direct, quantifiable requirements
   - Occasion (e.g., wedding, office, casual)
   - Formality level (casual, business casual, formal, black tie)
   - Color preferences (specific colors or color families)
   - Price constraints
   - Season/weather considerations

2. **Subjective Style Terms**: Interpret subjective descriptions
   - Style descriptors (chic, elegant, edgy, bohemian, etc.)

3. **Inferred Needs**: Based on context
   - Appropriate garment types
   - Suitable fabrics and materials
   - Recommended silhouettes
   - Design details that would work well

4. **Visual Generation Prompt**: Create a detailed prompt for generating a concept image that:
   - Incorporates all extracted preferences
   - Considers what's typically available in fashion retail
   - Focuses on realistic, purchasable designs
   - Is biased toward common inventory attributes

Return your analysis in this JSON format:
{
    "explicit_attributes": {
        "occasion": "string or null",
        "formality": "string or null",
        "colors": ["color1", "color2"],
        "price_max": number or null,
        "price_min": number or null,
        "season": "string or null"
    },
    "subjective_style": {
        "style_terms": ["term1", "term2"]
    },
    "inferred_needs": {
        "garment_types": ["type1", "type2"],
        "fabrics": ["fabric1", "fabric2"],
        "silhouettes": ["silhouette1", "silhouette2"],
        "details": ["detail1", "detail2"]
    },
    "visual_generation_prompt": "Detailed prompt for image generation...",
    "search_keywords": ["keyword1", "keyword2", "keyword3"]
}

Ensure the visual_generation_prompt is highly detailed and describes a specific, realistic fashion item that could exist in a retail catalog.`, query)
}

func BuildImageAnalysisPrompt(additionalDescription string) string {
	var sb strings.Builder
	sb.WriteString(`You are an expert fashion stylist specializing in WOMEN'S FASHION. Analyze the uploaded image and extract structured information.

CRITICAL: This application is exclusively for WOMEN'S FASHION. If you detect men's fashion, convert/adapt it to equivalent women's fashion styles.

`)
	if additionalDescription != "" {
		sb.WriteString(fmt.Sprintf("User's description: %q\n\n", additionalDescription))
	}
	sb.WriteString(`Please identify and extract:

1. **Style Characteristics**: overall style, key colors, garment types, fit and silhouette, fabrics and textures, notable patterns or details
2. **Occasion and Context**: suitable occasions, season appropriateness, formality level
3. **Style Description**: a natural language description of the style (1-2 sentences)
4. **Visual Generation Prompt**: a detailed prompt to generate a similar, realistic and purchasable fashion concept with similar colors, silhouettes and details

Return your analysis in this JSON format:
{
    "explicit_attributes": {
        "occasion": "string or null",
        "formality": "string or null",
        "colors": ["color1", "color2"],
        "season": "string or null"
    },
    "subjective_style": {
        "style_terms": ["term1", "term2"]
    },
    "inferred_needs": {
        "garment_types": ["type1", "type2"],
        "fabrics": ["fabric1", "fabric2"],
        "silhouettes": ["silhouette1"],
        "details": ["detail1", "detail2"]
    },
    "style_description": "Natural language description of the style...",
    "visual_generation_prompt": "Detailed prompt for generating a similar concept...",
    "search_keywords": ["keyword1", "keyword2", "keyword3"]
}`)
	return sb.String()
}

func BuildGarmentRegionsPrompt() string {
	return `Analyze this WOMEN'S fashion concept image and identify each distinct garment or fashion item shown.

CRITICAL: This is WOMEN'S FASHION ONLY. All garments must be women's clothing items.

For each garment you identify, extract:
1. **Category**: Main category from this list ONLY: Tops, Bottoms, Dresses, Shoes, Accessories, Outerwear
2. **Subcategory**: Specific women's garment type (e.g., Blazer, Trousers, Sneakers, Dress, Handbag)
3. **Description**: Detailed description including color, style, fit, fabric, patterns, and key distinguishing details

IMPORTANT GUIDELINES:
- Only include women's garments that are clearly visible and identifiable
- Each description should be detailed enough to search for similar women's products in a catalog
- If it's a single-piece outfit (like a dress or jumpsuit), return just that one item
- If multiple items are shown (e.g., top + bottom + shoes), list each separately
- Be specific: "navy structured blazer" not just "blazer"

Return your analysis in this exact JSON format:
{
    "garments": [
        {
            "category": "Tops",
            "subcategory": "Blazer",
            "description": "Structured navy blazer with notch lapels, fitted silhouette, gold buttons, and professional tailoring"
        }
    ]
}

Return only the JSON, no additional text.`
}

func BuildConceptPrompt(enhancedPrompt string) string {
	return fmt.Sprintf(`Generate a high-quality fashion product photograph based on this description:

%s

Photography specifications (match e-commerce catalog style):
- Female model wearing the garment
- Front-facing view, full body or 3/4 length composition
- Clean minimalist background (white or soft grey)
- Professional studio lighting with soft, even illumination
- Contemporary fast-fashion photography style (H&M, Zara aesthetic)
- Natural, relaxed model pose
- 9:16 portrait orientation (suitable for mobile and e-commerce)
- Realistic, wearable, commercially viable design
- Show garment clearly with accurate colors and details

Avoid:
- Artistic or editorial fashion photography styles
- Dramatic lighting or creative shadows
- Busy or decorative backgrounds
- Avant-garde or conceptual designs

Focus on creating a specific, detailed design that captures the essence of the request while remaining visually consistent with modern fast-fashion catalogs.`, enhancedPrompt)
}

func BuildRefinePrompt(refinementPrompt string) string {
	return fmt.Sprintf(`Edit the fashion product photograph shown in the image.

Requested Changes: %s

Apply these modifications while maintaining catalog photography standards:
- Maintain the overall style and aesthetic
- Keep contemporary fast-fashion photography style (H&M, Zara aesthetic)
- Preserve clean minimalist background (white or soft grey)
- Maintain professional studio lighting with soft, even illumination
- Keep natural, relaxed model pose and front-facing composition
- Show the refined garment clearly with accurate colors and details
- Ensure 9:16 portrait orientation
- Keep elements that weren't mentioned in the changes
- Maintain realistic, commercially viable design

Make the specific changes requested while preserving the e-commerce catalog quality and all other aspects of the original design.`, refinementPrompt)
}

func BuildSuggestionPrompt(description, originalQuery string) string {
	return fmt.Sprintf(`Analyze this WOMEN'S fashion concept image and generate 4-6 refinement suggestions the user can apply to this design.

CRITICAL: This is WOMEN'S FASHION ONLY. All suggestions must be appropriate for women's clothing and styles.

Current Design Context:
- Description: %s
- Original Request: %s

Generate a MIX of suggestions:

**GENERIC EDITS** - common modifications that work for most fashion items: color changes, length adjustments, pattern modifications, fit changes.
**IMAGE-SPECIFIC EDITS** - based on what you actually see in the image: specific details to modify, elements to add or remove, style tweaks.

Each suggestion needs a short title (2-4 words) and a one-sentence description of the edit written as if the user is speaking ("make it...", "add...", "change to...").

Return ONLY this JSON format:
{
    "suggestions": [
        {
            "title": "Burgundy Version",
            "description": "Make it burgundy for a richer autumn palette"
        },
        {
            "title": "Midi Length",
            "description": "Change to midi length for a more versatile silhouette"
        }
    ]
}

Return only the JSON, no additional text.`, description, originalQuery)
}

func BuildLookPrompt(productDescriptions []string) string {
	productsText := strings.Join(productDescriptions, "\n")

	return fmt.Sprintf(`Create a professional WOMEN'S fashion e-commerce outfit photograph showing these fashion items styled together as a cohesive look:

%s

CRITICAL REQUIREMENTS:

1. **WOMEN'S FASHION ONLY**: This MUST be women's fashion. Female model wearing women's clothing.

2. **Show ALL Products Together**: The female model must be wearing ALL of the listed items simultaneously in a single photograph. Every product must be clearly visible and recognizable.

3. **Contemporary Catalog Photography Style**:
   - Modern women's fast-fashion aesthetic (H&M, Zara, COS style for women)
   - Clean, minimalist white or soft grey background
   - Professional studio lighting with soft, even illumination
   - Natural, confident female model pose
   - Front-facing composition showing full outfit
   - 9:16 portrait orientation

4. **Product Accuracy**:
   - Match the exact colors, fabrics, textures, styles and details described for each product
   - Ensure each product looks realistic and wearable

5. **Styling & Composition**:
   - Style the items cohesively as a complete, harmonious women's outfit
   - Natural draping and fit appropriate to each garment

6. **What to AVOID**:
   - Do NOT create men's fashion or unisex styling
   - Do NOT use artistic or editorial fashion photography styles
   - Do NOT use dramatic lighting, busy backgrounds or unusual angles
   - Do NOT add products that weren't listed

The final image should look like a professional women's fashion product catalog styling shot showing customers how these items can be worn together as a complete outfit.`, productsText)
}

// EnhanceVisualPrompt appends structured product specifications from
// the interpretation so the generated concept stays aligned with
// catalog attribute vocabulary.
func EnhanceVisualPrompt(prompt string, interp models.Interpretation) string {
	var enhancements []string

	if len(interp.Filter.Colors) > 0 {
		enhancements = append(enhancements, "Color: "+strings.Join(interp.Filter.Colors, " and "))
	}
	if interp.Filter.Season != nil {
		enhancements = append(enhancements, "Season: "+*interp.Filter.Season)
	}
	if interp.Filter.Occasion != nil {
		enhancements = append(enhancements, "Occasion: "+*interp.Filter.Occasion)
	}
	if len(interp.Fabrics) > 0 {
		enhancements = append(enhancements, "Fabric/Material: "+strings.Join(interp.Fabrics, ", "))
	}
	if len(interp.Silhouettes) > 0 {
		enhancements = append(enhancements, "Fit/Silhouette: "+strings.Join(interp.Silhouettes, ", "))
	}
	if len(interp.Filter.Categories) > 0 {
		enhancements = append(enhancements, "Garment Type: "+interp.Filter.Categories[0])
	}
	if len(interp.Details) > 0 {
		enhancements = append(enhancements, "Details: "+strings.Join(interp.Details, ", "))
	}

	if len(enhancements) == 0 {
		return prompt
	}
	return prompt + "\n\nDetailed Product Specifications:\n- " + strings.Join(enhancements, "\n- ")
}

// ConceptDescription builds the natural language description shown
// next to a generated concept image.
func ConceptDescription(interp models.Interpretation) string {
	var parts []string

	if interp.Filter.Occasion != nil {
		parts = append(parts, "designed for "+*interp.Filter.Occasion)
	}
	if len(interp.Filter.Colors) > 0 {
		parts = append(parts, "in beautiful "+strings.Join(interp.Filter.Colors, ", ")+" tones")
	}
	if len(interp.Silhouettes) > 0 {
		parts = append(parts, "featuring a "+interp.Silhouettes[0]+" silhouette")
	}

	if len(parts) == 0 {
		return "A beautiful fashion concept tailored to your preferences."
	}
	return "A fashion concept " + strings.Join(parts, ", ") + "."
}

// ProductDescriptionLine flattens one product into the pipe-delimited
// line the look prompt lists products with.
func ProductDescriptionLine(product models.Product, index int) string {
	parts := []string{fmt.Sprintf("Product %d: %s", index, product.Name)}

	if product.Category != "" {
		parts = append(parts, "Category: "+product.Category)
	}
	if product.Subcategory != nil {
		parts = append(parts, "("+*product.Subcategory+")")
	}
	if product.Color != "" {
		parts = append(parts, "Color: "+product.Color)
	}
	if product.SecondaryColor != nil {
		parts = append(parts, "with "+*product.SecondaryColor+" accents")
	}
	if product.Fabric != nil {
		parts = append(parts, "Fabric: "+*product.Fabric)
	}
	if product.Pattern != nil {
		parts = append(parts, "Pattern: "+*product.Pattern)
	}
	if product.Fit != nil {
		parts = append(parts, "Fit: "+*product.Fit)
	}
	if product.SleeveLength != nil {
		parts = append(parts, "Sleeve: "+*product.SleeveLength)
	}
	if product.NeckStyle != nil {
		parts = append(parts, "Neckline: "+*product.NeckStyle)
	}
	if product.Style != nil {
		parts = append(parts, "Style: "+*product.Style)
	}

	return strings.Join(parts, " | ")
}

// LookDescription summarizes a composed look from its products.
func LookDescription(products []models.Product) string {
	names := make([]string, 0, len(products))
	var style string
	for _, p := range products {
		names = append(names, p.Name)
		if style == "" && p.Style != nil {
			style = *p.Style
		}
	}

	var desc string
	switch len(products) {
	case 2:
		desc = fmt.Sprintf("A styled look combining %s with %s", names[0], names[1])
	case 3:
		desc = fmt.Sprintf("A complete outfit featuring %s, %s, and %s", names[0], names[1], names[2])
	default:
		desc = fmt.Sprintf("A curated look combining %d pieces", len(products))
	}
	if style != "" {
		desc += " in a " + style + " style"
	}
	return desc
}
