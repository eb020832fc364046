package domain

import (
	"fmt"
	"strings"
)

// GenerationParams is the request payload for text-to-image generation.
// Immutable once submitted; the boundary sanitizes prompts before dispatch.
type GenerationParams struct {
	Prompt         string   `json:"prompt"`
	NegativePrompt string   `json:"negativePrompt,omitempty"`
	Mode           string   `json:"mode"`
	Size           string   `json:"size,omitempty"`
	AspectRatio    string   `json:"aspectRatio,omitempty"`
	Strength       *float64 `json:"strength,omitempty"`
	Seed           *int     `json:"seed,omitempty"`
}

// EditParams extends GenerationParams with the source image and mask
// locations for image+mask editing.
type EditParams struct {
	GenerationParams
	ImageURL string `json:"imageUrl"`
	MaskURL  string `json:"maskUrl"`
}

// Validate checks required-field presence. Content sanitization happens at
// the boundary, not here.
func (p GenerationParams) Validate() error {
	missing := requiredFields(map[string]string{
		"prompt": p.Prompt,
		"mode":   p.Mode,
	}, []string{"prompt", "mode"})
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidParams, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks required-field presence for edit requests.
func (p EditParams) Validate() error {
	missing := requiredFields(map[string]string{
		"prompt":   p.Prompt,
		"mode":     p.Mode,
		"imageUrl": p.ImageURL,
		"maskUrl":  p.MaskURL,
	}, []string{"prompt", "mode", "imageUrl", "maskUrl"})
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidParams, strings.Join(missing, ", "))
	}
	return nil
}

func requiredFields(values map[string]string, order []string) []string {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
