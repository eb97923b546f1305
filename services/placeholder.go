package services

import "fmt"

// PlaceholderImageURL is an inline SVG data URI served when concept
// image generation fails. It renders everywhere without any further
// network dependency, which is the point.
const PlaceholderImageURL = `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='600' height='800' viewBox='0 0 600 800'%3E%3Crect width='600' height='800' fill='%23f5f5f5'/%3E%3Cg transform='translate(300,400)'%3E%3Ccircle cx='0' cy='-50' r='60' fill='%23d4af37' opacity='0.3'/%3E%3Cpath d='M -40,-80 L -40,-20 L -20,0 L -20,40 L 20,40 L 20,0 L 40,-20 L 40,-80 Z' fill='%23d4af37' opacity='0.5'/%3E%3Ctext x='0' y='100' text-anchor='middle' font-family='Arial,sans-serif' font-size='18' fill='%23666'%3EFashion Concept%3C/text%3E%3Ctext x='0' y='130' text-anchor='middle' font-family='Arial,sans-serif' font-size='14' fill='%23999'%3EImage generation in progress%3C/text%3E%3C/g%3E%3C/svg%3E`

// PlaceholderDescription labels the placeholder so the client can tell
// a degraded response from a real concept.
func PlaceholderDescription(prompt string) string {
	return fmt.Sprintf("Fashion concept based on: %s. (Note: Image generation is currently unavailable - this is a placeholder)", prompt)
}
