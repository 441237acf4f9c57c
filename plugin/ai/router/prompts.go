package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

// fewShotExampleLimit caps how many example phrases per intent appear in
// the few-shot block.
const fewShotExampleLimit = 2

// BuildSystemPrompt renders the system prompt for an external LLM adapter
// classifying against the taxonomy.
func BuildSystemPrompt(idx *taxonomy.Index, reqCtx *Context) string {
	contextLine := "Current module unknown."
	if reqCtx != nil {
		contextLine = fmt.Sprintf("Current module: %s. Current page: %s.", reqCtx.Module, reqCtx.Page)
	}

	return strings.TrimSpace(fmt.Sprintf(`You are Mira's intent classifier. Your job is to map an advisor's utterance to the most relevant topic, subtopic, and intent from the provided taxonomy.
- Always return the best matching intent with a confidence score between 0 and 1.
- Consider the current UI context when disambiguating similar intents.
- If no intent matches, return the closest topic but lower the confidence.

%s`, contextLine))
}

// BuildClassificationPrompt renders the per-request classification prompt.
func BuildClassificationPrompt(userMessage string, reqCtx *Context) string {
	contextSection := "Module: unknown\nPage: unknown"
	if reqCtx != nil {
		pageData, _ := json.Marshal(reqCtx.PageData)
		if reqCtx.PageData == nil {
			pageData = []byte("{}")
		}
		contextSection = fmt.Sprintf("Module: %s\nPage: %s\nPage Data: %s", reqCtx.Module, reqCtx.Page, pageData)
	}

	return strings.TrimSpace(fmt.Sprintf(`Classify the following advisor request into the Mira intent taxonomy.

%s

Advisor message:
"""
%s
"""

Return JSON with keys: topic, subtopic, intent, confidence (0-1), reasoning.`, contextSection, userMessage))
}

// BuildFewShotExamples renders one line per intent with up to two example
// phrases, for inclusion in classification prompts.
func BuildFewShotExamples(idx *taxonomy.Index) string {
	if idx == nil {
		return ""
	}

	var lines []string
	for _, entry := range idx.Entries() {
		phrases := entry.ExamplePhrases
		if len(phrases) == 0 {
			continue
		}
		if len(phrases) > fewShotExampleLimit {
			phrases = phrases[:fewShotExampleLimit]
		}
		lines = append(lines, fmt.Sprintf("- Intent %q (%s/%s) -> Examples: %s",
			entry.Intent, entry.Topic, entry.Subtopic, strings.Join(phrases, " | ")))
	}
	return strings.Join(lines, "\n")
}

// BuildClarificationPrompt asks the model to produce a short disambiguating
// question between candidate intents.
func BuildClarificationPrompt(ambiguousIntents []string) string {
	return strings.TrimSpace(fmt.Sprintf(`The previous classification was ambiguous between: %s.
Ask the advisor a short clarifying question to decide between these options.`, strings.Join(ambiguousIntents, ", ")))
}
