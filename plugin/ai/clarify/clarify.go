// Package clarify decides whether a routing decision must be confirmed
// with the advisor before execution, and renders the confirmation prompt.
package clarify

import (
	"fmt"

	"github.com/mirahq/mira/plugin/ai/router"
	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

// NeedsClarification reports whether a confidence tier requires the advisor
// to confirm before the decision is executed. Only a high tier runs
// unprompted; an unknown or empty tier is treated as low.
func NeedsClarification(tier router.Tier) bool {
	return tier != router.TierHigh
}

// MessageInput carries what the prompt renderer needs.
type MessageInput struct {
	Intent string
	Tier   router.Tier
	// TransitionMessage, when set, is a topic-switch confirmation that takes
	// precedence over the confidence-based prompt.
	TransitionMessage string
}

// BuildMessage renders the clarification prompt shown to the advisor.
func BuildMessage(idx *taxonomy.Index, in MessageInput) string {
	if in.TransitionMessage != "" {
		return in.TransitionMessage
	}
	if in.Tier == router.TierMedium {
		return fmt.Sprintf("Just to confirm — would you like me to %s?", label(idx, in.Intent))
	}
	return "I want to make sure I get this right. Could you tell me a bit more about what you need?"
}

// ShouldClarify is the gate applied by the request handler: either a
// sub-high confidence tier or a topic jump is enough to interrupt.
func ShouldClarify(tier router.Tier, transition router.Transition) bool {
	return NeedsClarification(tier) || router.ShouldPromptForSwitch(transition)
}

func label(idx *taxonomy.Index, intent string) string {
	if idx == nil {
		return taxonomy.FallbackLabel
	}
	return idx.Label(intent)
}
