package router

import (
	"time"

	"github.com/pkg/errors"
)

// Module identifies a workspace module the advisor can be working in.
type Module string

const (
	ModuleCustomer    Module = "customer"
	ModuleNewBusiness Module = "new_business"
	ModuleProduct     Module = "product"
	ModuleAnalytics   Module = "analytics"
	ModuleTodo        Module = "todo"
	ModuleBroadcast   Module = "broadcast"
	ModuleVisualizer  Module = "visualizer"
	ModuleFNA         Module = "fna"
	ModuleKnowledge   Module = "knowledge"
	ModuleOperations  Module = "operations"
	ModuleCompliance  Module = "compliance"
)

var validModules = map[Module]struct{}{
	ModuleCustomer:    {},
	ModuleNewBusiness: {},
	ModuleProduct:     {},
	ModuleAnalytics:   {},
	ModuleTodo:        {},
	ModuleBroadcast:   {},
	ModuleVisualizer:  {},
	ModuleFNA:         {},
	ModuleKnowledge:   {},
	ModuleOperations:  {},
	ModuleCompliance:  {},
}

// ParseModule validates a client-supplied module value. Unknown values are
// rejected at the boundary rather than coerced into a default.
func ParseModule(value string) (Module, error) {
	m := Module(value)
	if _, ok := validModules[m]; !ok {
		return "", errors.Errorf("unknown module %q", value)
	}
	return m, nil
}

// Context is the per-request snapshot of UI state accompanying an utterance.
type Context struct {
	Module     Module
	Page       string
	PageData   map[string]any
	Behavioral *BehavioralContext
}

// NavigationEvent is one page transition recorded by the behavioral tracker.
type NavigationEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	FromPage  string        `json:"from_page"`
	ToPage    string        `json:"to_page"`
	Module    string        `json:"module"`
	Trigger   string        `json:"trigger"`
	TimeSpent time.Duration `json:"time_spent"`
}

// UserAction is one UI interaction recorded by the behavioral tracker.
type UserAction struct {
	Timestamp    time.Time `json:"timestamp"`
	ActionType   string    `json:"action_type"`
	ElementID    string    `json:"element_id,omitempty"`
	ElementType  string    `json:"element_type,omitempty"`
	ElementLabel string    `json:"element_label,omitempty"`
}

// BehavioralContext is the best-effort signal bundle supplied by the
// external session tracker. Every field is optional and untrusted; the
// booster must null-check everything and never treat it as a primary
// signal.
type BehavioralContext struct {
	CurrentModule     string            `json:"current_module,omitempty"`
	NavigationHistory []NavigationEvent `json:"navigation_history,omitempty"`
	RecentActions     []UserAction      `json:"recent_actions,omitempty"`
	DetectedPatterns  []string          `json:"detected_patterns,omitempty"`
	UserIntent        string            `json:"user_intent,omitempty"`
	ConfidenceLevel   float64           `json:"confidence_level,omitempty"`
	SessionID         string            `json:"session_id,omitempty"`
}

// IntentScore is the transient per-entry scoring result. AdjustedScore is
// BaseScore plus behavioral boost, capped at 1.
type IntentScore struct {
	Intent        string
	Topic         string
	Subtopic      string
	BaseScore     float64
	AdjustedScore float64
	Reasons       []string
}

// Tier buckets a continuous confidence score.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// CandidateAgentScore is one agent candidate for a classification.
type CandidateAgentScore struct {
	AgentID string  `json:"agent_id"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
}

// Classification is the externally visible routing decision.
//
// ShouldSwitchTopic is conversation-dependent and is recomputed on every
// request, including cache hits; everything else is cacheable.
type Classification struct {
	Topic             string                `json:"topic"`
	Subtopic          string                `json:"subtopic"`
	Intent            string                `json:"intent"`
	Confidence        float64               `json:"confidence"`
	ConfidenceTier    Tier                  `json:"confidence_tier"`
	CandidateAgents   []CandidateAgentScore `json:"candidate_agents"`
	ShouldSwitchTopic bool                  `json:"should_switch_topic"`
}
