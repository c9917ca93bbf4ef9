package routine

import (
	"fmt"
	"strings"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

const morningOrderGuidance = "cleanser -> toner -> serum -> moisturizer -> sunscreen"

// responseSchema is the literal JSON shape the model must emit.
const responseSchema = `{
  "steps": [
    {"stepNumber": 1, "productName": "<exact product name>", "instruction": "<how to apply>", "waitTime": <minutes to wait before the next step>}
  ],
  "compatibilityWarnings": ["<optional warning>"],
  "estimatedDuration": <total minutes>,
  "tips": ["<up to 3 short tips>"]
}`

// buildPrompt renders the routine-generation request. It is a pure function
// of its inputs so identical catalogs and profiles produce identical prompts.
func buildPrompt(cfg Config, routineType RoutineType, profile SkinProfile, products []catalog.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a skincare expert. Build a %s skincare routine for this user using only the products listed below.\n\n", routineType)

	skinType := strings.TrimSpace(profile.SkinType)
	if skinType == "" {
		skinType = "unspecified"
	}
	fmt.Fprintf(&b, "Skin type: %s\n", skinType)
	concerns := "none listed"
	if len(profile.Concerns) > 0 {
		concerns = strings.Join(profile.Concerns, ", ")
	}
	fmt.Fprintf(&b, "Skin concerns: %s\n\n", concerns)

	b.WriteString("Available products:\n")
	for i, product := range products {
		fmt.Fprintf(&b, "%d. %s", i+1, product.Name)
		if product.Brand != "" {
			fmt.Fprintf(&b, " by %s", product.Brand)
		}
		fmt.Fprintf(&b, " (%s)", product.Type)
		if len(product.KeyIngredients) > 0 {
			names := make([]string, 0, len(product.KeyIngredients))
			for _, ing := range product.KeyIngredients {
				names = append(names, ing.Name)
			}
			fmt.Fprintf(&b, " - key ingredients: %s", strings.Join(names, ", "))
		}
		if product.Usage != "" {
			fmt.Fprintf(&b, ". Usage: %s", product.Usage)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRules:\n")
	if routineType == RoutineTypeMorning {
		fmt.Fprintf(&b, "- Apply products in the order %s when those types are present.\n", morningOrderGuidance)
	} else {
		b.WriteString("- Order the steps from thinnest to thickest texture, cleansing first.\n")
	}
	fmt.Fprintf(&b, "- Use between %d and %d steps.\n", cfg.MinSteps, cfg.MaxSteps)
	b.WriteString("- Reference products by their exact names from the list.\n")
	b.WriteString("- Note any ingredient compatibility concerns in compatibilityWarnings.\n")

	b.WriteString("\nRespond with ONLY a JSON object matching this schema, no prose:\n")
	b.WriteString(responseSchema)
	b.WriteString("\n")

	return b.String()
}
