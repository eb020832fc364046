package handlers

import (
	"regexp"
	"strings"
)

// PII-looking substrings are masked before a prompt reaches any adapter.
var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	cardPattern  = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
)

const maxPromptLength = 500

// sanitizePrompt masks email, phone, and card-like substrings and truncates
// overlong prompts. Adapters assume their inputs already passed through this.
func sanitizePrompt(prompt string) string {
	sanitized := strings.TrimSpace(prompt)

	sanitized = emailPattern.ReplaceAllString(sanitized, "[EMAIL]")
	sanitized = cardPattern.ReplaceAllString(sanitized, "[CARD]")
	sanitized = phonePattern.ReplaceAllString(sanitized, "[PHONE]")

	if len(sanitized) > maxPromptLength {
		sanitized = sanitized[:maxPromptLength] + "..."
	}

	return sanitized
}
