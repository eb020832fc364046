package handlers

import (
	"strings"
	"testing"
)

func TestSanitizePrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "plain prompt untouched",
			prompt: "a watercolor fox in the snow",
			want:   "a watercolor fox in the snow",
		},
		{
			name:   "email masked",
			prompt: "portrait for jane.doe+art@example.co.uk please",
			want:   "portrait for [EMAIL] please",
		},
		{
			name:   "phone masked",
			prompt: "call me at 555-123-4567 when done",
			want:   "call me at [PHONE] when done",
		},
		{
			name:   "dotted phone masked",
			prompt: "my number 555.123.4567",
			want:   "my number [PHONE]",
		},
		{
			name:   "card masked before phone can mangle it",
			prompt: "pay with 4111 1111 1111 1111 thanks",
			want:   "pay with [CARD] thanks",
		},
		{
			name:   "dashed card masked",
			prompt: "use 4111-1111-1111-1111",
			want:   "use [CARD]",
		},
		{
			name:   "multiple kinds in one prompt",
			prompt: "email a@b.io or 555-123-4567",
			want:   "email [EMAIL] or [PHONE]",
		},
		{
			name:   "whitespace trimmed",
			prompt: "  a fox  ",
			want:   "a fox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePrompt(tt.prompt); got != tt.want {
				t.Errorf("sanitizePrompt(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestSanitizePromptTruncatesAfterMasking(t *testing.T) {
	long := strings.Repeat("x", maxPromptLength+50)
	got := sanitizePrompt(long)
	if len(got) != maxPromptLength+len("...") {
		t.Fatalf("len = %d, want %d", len(got), maxPromptLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated prompt missing ellipsis: %q", got[len(got)-10:])
	}
}

func TestSanitizePromptExactLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("x", maxPromptLength)
	if got := sanitizePrompt(exact); got != exact {
		t.Errorf("prompt at the limit was modified (len %d)", len(got))
	}
}
