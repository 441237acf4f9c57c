package router

import (
	"strings"

	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

// Confidence tier thresholds. The tier is a monotonic function of the
// adjusted score: >= HighThreshold is high, >= MediumThreshold is medium,
// everything below is low.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.4
)

// Scoring rule weights. Rules are additive and the sum is capped at 1.0.
const (
	directIntentWeight  = 0.30
	exampleWeight       = 0.40
	requiredFieldWeight = 0.10
	moduleMatchWeight   = 0.15
)

// ScoreIntent computes the relevance of one taxonomy entry for a message.
// The message must be non-empty after trimming; the router short-circuits
// empty input before scoring. Each rule that fires appends a reason tag for
// auditability.
func ScoreIntent(message string, reqCtx Context, entry taxonomy.Entry) IntentScore {
	normalized := strings.ToLower(message)
	var score float64
	var reasons []string

	// Rule 1: the intent's own slug appears literally in the message.
	if slug := strings.ReplaceAll(entry.Intent, "_", " "); slug != "" && strings.Contains(normalized, slug) {
		score += directIntentWeight
		reasons = append(reasons, "direct_intent_keyword")
	}

	// Rule 2: best example-phrase token overlap, scaled by the example weight.
	if best := bestPhraseOverlap(normalized, entry.ExamplePhrases); best > 0 {
		score += best * exampleWeight
		reasons = append(reasons, "example_overlap")
	}

	// Rule 3: any required field name mentioned in the message.
	for _, field := range entry.RequiredFields {
		if field == "" {
			continue
		}
		if strings.Contains(normalized, strings.ReplaceAll(field, "_", " ")) {
			score += requiredFieldWeight
			reasons = append(reasons, "required_field_match")
			break
		}
	}

	// Rule 4: the advisor is already in the entry's module.
	if string(reqCtx.Module) == entry.Topic {
		score += moduleMatchWeight
		reasons = append(reasons, "context_module_match")
	}

	adjusted := score
	if adjusted > 1 {
		adjusted = 1
	}

	return IntentScore{
		Intent:        entry.Intent,
		Topic:         entry.Topic,
		Subtopic:      entry.Subtopic,
		BaseScore:     score,
		AdjustedScore: adjusted,
		Reasons:       reasons,
	}
}

// bestPhraseOverlap returns the highest matched/total token ratio across all
// example phrases. Phrases with no alphanumeric tokens contribute 0.
func bestPhraseOverlap(normalizedMessage string, phrases []string) float64 {
	if len(phrases) == 0 {
		return 0
	}

	messageTokens := make(map[string]struct{})
	for _, tok := range tokenize(normalizedMessage) {
		messageTokens[tok] = struct{}{}
	}
	if len(messageTokens) == 0 {
		return 0
	}

	var best float64
	for _, phrase := range phrases {
		phraseTokens := tokenize(strings.ToLower(phrase))
		if len(phraseTokens) == 0 {
			continue
		}
		matched := 0
		for _, tok := range phraseTokens {
			if _, ok := messageTokens[tok]; ok {
				matched++
			}
		}
		if ratio := float64(matched) / float64(len(phraseTokens)); ratio > best {
			best = ratio
		}
	}
	return best
}

// tokenize splits on non-alphanumeric boundaries.
func tokenize(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// TierFor buckets an adjusted score into a confidence tier.
func TierFor(confidence float64) Tier {
	switch {
	case confidence >= HighThreshold:
		return TierHigh
	case confidence >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}
