package router

import (
	"regexp"
	"strings"
)

// MaxBehavioralBoost caps the total contribution of behavioral signals.
// Behavioral context is a soft prior: the cap guarantees the text scorer
// always dominates the decision.
const MaxBehavioralBoost = 0.3

// BehavioralBoost computes an additive confidence adjustment for one
// candidate intent from the session's navigation and action history.
// A nil context yields 0. Every sub-heuristic guards independently against
// missing fields and contributes nothing rather than failing.
func BehavioralBoost(intent, topic string, bc *BehavioralContext) (float64, []string) {
	if bc == nil {
		return 0, nil
	}

	var boost float64
	var reasons []string

	if bc.CurrentModule != "" && bc.CurrentModule == topic {
		boost += 0.15
		reasons = append(reasons, "module_match")
	}

	if len(bc.NavigationHistory) > 0 {
		b, r := navigationBoost(bc.NavigationHistory, topic, intent)
		boost += b
		reasons = append(reasons, r...)
	}

	if len(bc.DetectedPatterns) > 0 {
		b, r := patternBoost(bc.DetectedPatterns, topic, intent)
		boost += b
		reasons = append(reasons, r...)
	}

	if len(bc.RecentActions) > 0 {
		b, r := actionBoost(bc.RecentActions, topic, intent)
		boost += b
		reasons = append(reasons, r...)
	}

	if bc.UserIntent != "" {
		b, r := userIntentBoost(bc.UserIntent, intent)
		boost += b
		reasons = append(reasons, r...)
	}

	if bc.ConfidenceLevel > 0.7 {
		boost += 0.05
		reasons = append(reasons, "high_behavioral_confidence")
	}

	if boost > MaxBehavioralBoost {
		boost = MaxBehavioralBoost
	}
	return boost, reasons
}

// navigationBoost inspects the last three navigation events for workflow
// patterns relevant to the candidate topic.
func navigationBoost(history []NavigationEvent, topic, intent string) (float64, []string) {
	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	var boost float64
	var reasons []string

	if topic == string(ModuleNewBusiness) && strings.Contains(intent, "proposal") {
		for _, nav := range recent {
			if strings.Contains(nav.FromPage, "customer") {
				boost += 0.10
				reasons = append(reasons, "proposal_workflow_detected")
				break
			}
		}
	}

	if topic == string(ModuleAnalytics) {
		visits := 0
		for _, nav := range recent {
			if strings.Contains(nav.ToPage, "analytics") {
				visits++
			}
		}
		if visits >= 2 {
			boost += 0.08
			reasons = append(reasons, "analytics_review_pattern")
		}
	}

	if topic == string(ModuleCustomer) {
		transitions := 0
		for _, nav := range recent {
			if strings.Contains(nav.ToPage, "customer") || strings.Contains(nav.FromPage, "customer") {
				transitions++
			}
		}
		if transitions >= 2 {
			boost += 0.07
			reasons = append(reasons, "customer_workflow_pattern")
		}
	}

	return boost, reasons
}

func patternBoost(patterns []string, topic, intent string) (float64, []string) {
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		seen[p] = struct{}{}
	}

	var boost float64
	var reasons []string

	if _, ok := seen["form_struggle"]; ok {
		boost += 0.10
		reasons = append(reasons, "form_struggle_detected")
		if strings.Contains(intent, "help") || strings.Contains(intent, "assist") {
			boost += 0.05
			reasons = append(reasons, "help_intent_with_struggle")
		}
	}

	if _, ok := seen["search_behavior"]; ok {
		boost += 0.08
		reasons = append(reasons, "search_behavior_detected")
		if strings.Contains(intent, "search") || strings.Contains(intent, "find") || strings.Contains(intent, "lookup") {
			boost += 0.05
			reasons = append(reasons, "search_intent_match")
		}
	}

	if _, ok := seen["proposal_creation"]; ok && topic == string(ModuleNewBusiness) {
		boost += 0.12
		reasons = append(reasons, "proposal_creation_pattern")
	}

	if _, ok := seen["analytics_review"]; ok && topic == string(ModuleAnalytics) {
		boost += 0.10
		reasons = append(reasons, "analytics_review_pattern")
	}

	return boost, reasons
}

func actionBoost(actions []UserAction, topic, intent string) (float64, []string) {
	var boost float64
	var reasons []string

	formInputs := 0
	for _, a := range actions {
		if a.ActionType == "form_input" {
			formInputs++
		}
	}
	if formInputs > 5 {
		boost += 0.05
		reasons = append(reasons, "active_form_interaction")
	}

	hasSearchAction := false
	for _, a := range actions {
		if a.ActionType == "search" {
			hasSearchAction = true
			break
		}
		if a.ActionType == "form_input" &&
			(strings.Contains(a.ElementID, "search") || strings.Contains(a.ElementType, "search")) {
			hasSearchAction = true
			break
		}
	}
	if hasSearchAction {
		boost += 0.06
		reasons = append(reasons, "search_action_detected")
		if strings.Contains(intent, "search") || strings.Contains(intent, "find") {
			boost += 0.04
			reasons = append(reasons, "search_intent_alignment")
		}
	}

	intentPrefix := intent
	if i := strings.Index(intent, "__"); i >= 0 {
		intentPrefix = intent[:i]
	}
	for _, a := range actions {
		if a.ActionType != "click" {
			continue
		}
		label := strings.ToLower(a.ElementLabel)
		elementID := strings.ToLower(a.ElementID)
		if containsAny(label, topic, intentPrefix) || containsAny(elementID, topic, intentPrefix) {
			boost += 0.07
			reasons = append(reasons, "relevant_click_detected")
			break
		}
	}

	return boost, reasons
}

var intentKeywordSplit = regexp.MustCompile(`[_\s]+`)

// userIntentBoost compares the tracker's AI-declared intent string with the
// candidate intent, strongest signal first.
func userIntentBoost(userIntent, candidate string) (float64, []string) {
	declared := strings.ToLower(userIntent)
	target := strings.ToLower(candidate)

	if declared == target {
		return 0.15, []string{"exact_intent_match"}
	}
	if strings.Contains(declared, target) || strings.Contains(target, declared) {
		return 0.10, []string{"partial_intent_match"}
	}

	targetTokens := make(map[string]struct{})
	for _, tok := range intentKeywordSplit.Split(target, -1) {
		if tok != "" {
			targetTokens[tok] = struct{}{}
		}
	}
	shared := 0
	for _, tok := range intentKeywordSplit.Split(declared, -1) {
		if _, ok := targetTokens[tok]; ok && tok != "" {
			shared++
		}
	}
	switch {
	case shared >= 2:
		return 0.08, []string{"intent_keyword_match"}
	case shared == 1:
		return 0.04, []string{"single_intent_keyword_match"}
	}
	return 0, nil
}

func containsAny(haystack string, needles ...string) bool {
	if haystack == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
