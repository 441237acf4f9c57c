// Package router implements Mira's intent classification and routing core:
// a deterministic heuristic scorer over a static taxonomy, fused with
// optional behavioral signals, with result caching and topic-switch
// detection. No LLM call is required on the classification path.
package router

import "context"

// IntentRouter is the routing service interface consumed by the request
// handling layer.
type IntentRouter interface {
	// ClassifyIntent maps an advisor utterance plus UI context to the best
	// matching taxonomy intent. It is total: any well-formed input yields a
	// classification, falling back to a low-confidence passthrough decision
	// rather than returning an error for data-shape problems.
	ClassifyIntent(ctx context.Context, message string, reqCtx Context, opts ClassifyOptions) (Classification, error)

	// SelectAgent picks the agent that should handle a classification:
	// the top candidate, or a topic-based fallback when no candidates exist.
	SelectAgent(classification Classification) CandidateAgentScore
}

// ClassifyOptions carries conversation-level state into classification.
type ClassifyOptions struct {
	// PreviousTopic is the last recorded conversation topic, empty when the
	// conversation has no topic history yet.
	PreviousTopic string
}
