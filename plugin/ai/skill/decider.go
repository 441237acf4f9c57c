// Package skill maps a classification and conversation metadata to the
// concrete (agent, skill) pair that should handle the request.
package skill

import (
	"regexp"
	"strings"

	"github.com/mirahq/mira/plugin/ai/router"
)

// Agent identifiers for skill execution.
const (
	AgentKnowledgeBrain = "mira_knowledge_brain_agent"
	AgentFNAAdvisor     = "mira_fna_advisor_agent"
	AgentOpsTask        = "mira_ops_task_agent"
)

// Skill name prefixes. The prefix determines the executing agent.
const (
	PrefixKnowledge = "kb__"
	PrefixFNA       = "fna__"
	PrefixOps       = "ops__"
)

// Decision is the final routing outcome handed to the execution layer.
type Decision struct {
	NextAgent string `json:"next_agent"`
	NextSkill string `json:"next_skill"`
	Reason    string `json:"reason"`
}

// heuristic is one entry of the ordered regex cascade. Represented as data
// rather than control flow so each entry is independently testable and the
// cascade can grow without touching Decide.
type heuristic struct {
	pattern *regexp.Regexp
	agent   string
	skill   string
	reason  string
}

// heuristics is evaluated in order; the first match wins. Precision over
// recall: misrouting to a specific skill is worse than falling through to
// the generic passthrough, so specific phrasings come first and the
// catch-all task matcher last.
var heuristics = []heuristic{
	{
		pattern: regexp.MustCompile(`\bkb__knowledge_lookup\b|\bkb\s*:|knowledge lookup|lookup knowledge`),
		agent:   AgentKnowledgeBrain, skill: "kb__knowledge_lookup", reason: "knowledge_lookup",
	},
	{
		pattern: regexp.MustCompile(`risk nudge|compliance nudge|nudge`),
		agent:   AgentKnowledgeBrain, skill: "kb__risk_nudge", reason: "risk_nudge",
	},
	{
		pattern: regexp.MustCompile(`sales help|sales script|what to say`),
		agent:   AgentKnowledgeBrain, skill: "kb__sales_help_explicit", reason: "sales_help",
	},
	{
		pattern: regexp.MustCompile(`\bfna\b|needs analysis|recommendation plan|cashflow gap`),
		agent:   AgentFNAAdvisor, skill: "fna__generate_recommendation", reason: "fna_generate",
	},
	{
		pattern: regexp.MustCompile(`case overview|summarize case|snapshot`),
		agent:   AgentFNAAdvisor, skill: "fna__case_overview", reason: "fna_case_overview",
	},
	{
		pattern: regexp.MustCompile(`(?:update|set|change)\s+(?:income|child|kyc|fact[- ]?find|data)`),
		agent:   AgentFNAAdvisor, skill: "fna__capture_update_data", reason: "fna_capture",
	},
	{
		pattern: regexp.MustCompile(`analytics|dashboard|kpi|sales trends|performance snapshot|premium this month|new policies|leads this week`),
		agent:   AgentOpsTask, skill: "ops__analytics_explain", reason: "ops_analytics",
	},
	{
		pattern: regexp.MustCompile(`prepare meeting|prep meeting|meeting agenda`),
		agent:   AgentOpsTask, skill: "ops__prepare_meeting", reason: "ops_prepare_meeting",
	},
	{
		pattern: regexp.MustCompile(`post[- ]?meeting wrap|wrap[- ]?up|follow[- ]?ups?`),
		agent:   AgentOpsTask, skill: "ops__post_meeting_wrap", reason: "ops_post_meeting",
	},
	{
		pattern: regexp.MustCompile(`\btask\b|\btodo\b|follow[- ]?up|\bnote\b`),
		agent:   AgentOpsTask, skill: "ops__agent_passthrough", reason: "ops_task",
	},
}

// topicDefaultSkill is the last-resort mapping when neither a hint nor a
// heuristic applies.
var topicDefaultSkill = map[string]string{
	"analytics":    "ops__analytics_explain",
	"todo":         "ops__agent_passthrough",
	"customer":     "ops__system_help",
	"new_business": "ops__agent_passthrough",
	"product":      "ops__agent_passthrough",
	"broadcast":    "ops__agent_passthrough",
	"visualizer":   "fna__generate_recommendation",
}

const defaultSkill = "ops__agent_passthrough"

// AgentForSkill resolves the agent owning a skill by its prefix, keeping
// the already-selected agent for unprefixed names.
func AgentForSkill(skill, fallbackAgent string) string {
	switch {
	case strings.HasPrefix(skill, PrefixKnowledge):
		return AgentKnowledgeBrain
	case strings.HasPrefix(skill, PrefixFNA):
		return AgentFNAAdvisor
	case strings.HasPrefix(skill, PrefixOps):
		return AgentOpsTask
	default:
		return fallbackAgent
	}
}

// DecideInput bundles everything the decider consults.
type DecideInput struct {
	Classification router.Classification
	AgentSelection router.CandidateAgentScore
	// Metadata is the raw request metadata; a "nextSkill"/"next_skill" hint
	// with a known prefix is trusted verbatim.
	Metadata map[string]any
	// UserMessage is the last user utterance.
	UserMessage string
}

// Decide picks the (agent, skill) pair for a classified request.
// Priority: explicit hint, then the regex cascade, then the topic default.
func Decide(in DecideInput) Decision {
	if hint := hintSkill(in.Metadata); hint != "" {
		return Decision{
			NextAgent: AgentForSkill(hint, in.AgentSelection.AgentID),
			NextSkill: hint,
			Reason:    "hint_skill",
		}
	}

	text := strings.ToLower(in.UserMessage)
	for _, h := range heuristics {
		if h.pattern.MatchString(text) {
			return Decision{NextAgent: h.agent, NextSkill: h.skill, Reason: h.reason}
		}
	}

	chosen, ok := topicDefaultSkill[in.Classification.Topic]
	if !ok {
		chosen = defaultSkill
	}
	return Decision{
		NextAgent: AgentForSkill(chosen, in.AgentSelection.AgentID),
		NextSkill: chosen,
		Reason:    "topic_default",
	}
}

// hintSkill extracts a trusted skill hint from request metadata.
func hintSkill(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	for _, key := range []string{"nextSkill", "next_skill"} {
		raw, ok := metadata[key]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || value == "" {
			continue
		}
		lower := strings.ToLower(value)
		if strings.HasPrefix(lower, PrefixKnowledge) ||
			strings.HasPrefix(lower, PrefixFNA) ||
			strings.HasPrefix(lower, PrefixOps) {
			return value
		}
	}
	return ""
}
