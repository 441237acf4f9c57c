package router

import (
	"context"
	"strings"
)

// MockIntentRouter is a canned-answer implementation of IntentRouter for
// tests in packages that consume the router.
type MockIntentRouter struct {
	// Overrides maps an exact message to a classification returned as-is.
	Overrides map[string]Classification
}

// NewMockIntentRouter creates a new MockIntentRouter.
func NewMockIntentRouter() *MockIntentRouter {
	return &MockIntentRouter{Overrides: make(map[string]Classification)}
}

// ClassifyIntent returns the override for the message when present, else a
// crude keyword classification good enough for wiring tests.
func (m *MockIntentRouter) ClassifyIntent(_ context.Context, message string, reqCtx Context, opts ClassifyOptions) (Classification, error) {
	if c, ok := m.Overrides[message]; ok {
		return c, nil
	}

	topic := string(reqCtx.Module)
	if topic == "" {
		topic = string(ModuleCustomer)
	}

	lower := strings.ToLower(message)
	c := Classification{
		Topic:          topic,
		Subtopic:       fallbackSubtopic,
		Intent:         FallbackIntent,
		Confidence:     0.5,
		ConfidenceTier: TierMedium,
	}

	switch {
	case strings.Contains(lower, "sales") || strings.Contains(lower, "kpi") || strings.Contains(lower, "dashboard"):
		c.Topic = string(ModuleAnalytics)
		c.Intent = "view_sales_trends"
		c.Confidence = 0.8
		c.ConfidenceTier = TierHigh
	case strings.Contains(lower, "task") || strings.Contains(lower, "todo"):
		c.Topic = string(ModuleTodo)
		c.Intent = "list_tasks"
		c.Confidence = 0.8
		c.ConfidenceTier = TierHigh
	case strings.TrimSpace(message) == "":
		c.Confidence = 0
		c.ConfidenceTier = TierLow
	}

	c.CandidateAgents = []CandidateAgentScore{
		{AgentID: AgentForTopic(c.Topic), Score: c.Confidence},
	}
	detection := DetectTopicSwitch(opts.PreviousTopic, c.Topic, c.Confidence)
	c.ShouldSwitchTopic = detection.ShouldSwitch
	return c, nil
}

// SelectAgent mirrors the real service's selection rule.
func (m *MockIntentRouter) SelectAgent(classification Classification) CandidateAgentScore {
	if len(classification.CandidateAgents) > 0 {
		return classification.CandidateAgents[0]
	}
	return CandidateAgentScore{
		AgentID: AgentForTopic(classification.Topic),
		Score:   classification.Confidence,
		Reason:  "fallback_by_topic",
	}
}

// Ensure MockIntentRouter implements IntentRouter.
var _ IntentRouter = (*MockIntentRouter)(nil)
