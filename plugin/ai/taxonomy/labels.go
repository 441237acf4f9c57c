package taxonomy

import (
	"regexp"
	"strings"
)

// FallbackLabel is returned when no readable label can be derived.
const FallbackLabel = "continue with this action"

// verbMap rewrites the leading slug verb into a conversational one.
var verbMap = map[string]string{
	"view":     "show",
	"create":   "add",
	"add":      "add",
	"update":   "update",
	"edit":     "edit",
	"filter":   "filter",
	"search":   "search for",
	"generate": "generate",
	"compare":  "compare",
	"schedule": "schedule",
	"mark":     "mark",
	"run":      "run",
	"list":     "list",
	"open":     "open",
	"submit":   "submit",
	"check":    "check",
}

var allCapsWord = regexp.MustCompile(`^[A-Z0-9]{2,}$`)

// Label returns a human-readable phrase for an intent name, suitable for
// embedding into a clarification prompt ("would you like me to <label>?").
func (idx *Index) Label(intent string) string {
	if intent == "" {
		return FallbackLabel
	}
	if label, ok := idx.labels[intent]; ok {
		return label
	}
	return FallbackLabel
}

func deriveLabel(intent IntentNode) string {
	if label := toSentenceCase(intent.DisplayName); label != "" {
		return label
	}
	if label := toSentenceCase(intent.Description); label != "" {
		return label
	}
	return humanizeSlug(intent.IntentName)
}

func toSentenceCase(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimSuffix(trimmed, ".")

	words := strings.Fields(trimmed)
	for i, word := range words {
		// Keep acronyms (KYC, FNA, YTD) as-is.
		if allCapsWord.MatchString(word) {
			continue
		}
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, " ")
}

var ytdPattern = regexp.MustCompile(`(?i)\b(ytd)\b`)

func humanizeSlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return FallbackLabel
	}

	verb := parts[0]
	if mapped, ok := verbMap[verb]; ok {
		verb = mapped
	}

	object := strings.Join(parts[1:], " ")
	object = ytdPattern.ReplaceAllString(object, "year-to-date")

	phrase := verb
	if object != "" {
		phrase = verb + " " + object
	}
	return strings.ToLower(phrase)
}
