package enrichment

import (
	"regexp"
	"unicode/utf8"
)

const (
	filtered        = "[filtered]"
	maxFreeTextRune = 500
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above|earlier)`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)system\s*:?\s*prompt`),
	regexp.MustCompile(`(?i)\bdo\s+not\s+follow\b`),
	regexp.MustCompile(`(?i)\boverride\b`),
	regexp.MustCompile(`(?i)\breturn\s+only\b`),
	regexp.MustCompile(`(?i)\bforget\s+(everything|all|your)\b`),
	regexp.MustCompile(`(?i)\bnew\s+instruction`),
	regexp.MustCompile(`(?i)\bact\s+as\b`),
	regexp.MustCompile(`(?i)\bpretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)\binstead\s+of\s+(the\s+)?(above|previous|json)`),
	regexp.MustCompile(`(?i)\bdo\s+not\s+return\s+json\b`),
	regexp.MustCompile(`(?i)\boutput\s+(only|just|the\s+word)`),
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Sanitize neutralises instruction-like phrases in user free text before it
// is placed into a prompt. The result is at most 500 runes.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range injectionPatterns {
		text = re.ReplaceAllString(text, filtered)
	}
	text = controlChars.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	if utf8.RuneCountInString(text) > maxFreeTextRune {
		text = string([]rune(text)[:maxFreeTextRune])
	}
	return text
}
