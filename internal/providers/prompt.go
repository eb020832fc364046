package providers

import (
	"fmt"
	"strings"

	"imageforge/internal/domain"
)

// DefaultNegativePrompt captures undesirable artefacts we want a diffusion
// backend to avoid when the caller supplies none.
const DefaultNegativePrompt = "low quality, blurry, distorted"

// buildBananaPrompt appends quality enhancers and per-mode style modifiers
// in the shape the Banana diffusion backend expects. Provider policy, not
// core protocol.
func buildBananaPrompt(p domain.GenerationParams) string {
	prompt := strings.TrimSpace(p.Prompt)

	prompt += ", highly detailed, professional quality, sharp focus"

	switch p.Mode {
	case "studio-portrait":
		prompt += ", studio lighting, professional photography"
	case "cartoonize":
		prompt += ", cartoon style, vibrant colors, clean lines"
	case "add-girlfriend":
		prompt += ", photorealistic, natural lighting"
	}

	return prompt
}

func buildBananaEditPrompt(p domain.EditParams) string {
	return fmt.Sprintf("%s, seamless blend, natural integration, maintain original style", strings.TrimSpace(p.Prompt))
}

// buildGeminiPrompt converts the request into a natural language instruction
// block for a multimodal model.
func buildGeminiPrompt(p domain.GenerationParams) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Generate a high-quality image based on this prompt: %s", strings.TrimSpace(p.Prompt)))
	lines = append(lines, fmt.Sprintf("Style: %s.", p.Mode))
	if aspect := strings.TrimSpace(p.AspectRatio); aspect != "" {
		lines = append(lines, fmt.Sprintf("Aspect ratio: %s.", aspect))
	}
	if negative := strings.TrimSpace(p.NegativePrompt); negative != "" {
		lines = append(lines, fmt.Sprintf("Avoid: %s.", negative))
	}
	lines = append(lines, "Render with sharp focus, professional quality, and no text or watermarks in the image.")

	return strings.Join(lines, "\n")
}

func buildGeminiEditPrompt(p domain.EditParams) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Edit the provided image according to this prompt: %s", strings.TrimSpace(p.Prompt)))
	lines = append(lines, "Apply changes only to the masked areas and blend them naturally with the original.")
	if negative := strings.TrimSpace(p.NegativePrompt); negative != "" {
		lines = append(lines, fmt.Sprintf("Avoid: %s.", negative))
	}

	return strings.Join(lines, "\n")
}
