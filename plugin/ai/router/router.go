package router

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mirahq/mira/plugin/ai/cache"
	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

// FallbackIntent is the synthesized passthrough intent used when nothing in
// the taxonomy applies.
const FallbackIntent = "ops__agent_passthrough"

const fallbackSubtopic = "general"

// moduleAgentMap maps a topic to the agent owning it.
var moduleAgentMap = map[string]string{
	"customer":     "CustomerAgent",
	"new_business": "NewBusinessAgent",
	"product":      "ProductAgent",
	"analytics":    "AnalyticsAgent",
	"todo":         "ToDoAgent",
	"broadcast":    "BroadcastAgent",
	"visualizer":   "VisualizerAgent",
	"fna":          "mira_fna_advisor_agent",
	"knowledge":    "mira_knowledge_brain_agent",
	"operations":   "mira_ops_task_agent",
	"compliance":   "mira_ops_task_agent",
}

const defaultAgent = "CustomerAgent"

// AgentForTopic resolves the agent owning a topic.
func AgentForTopic(topic string) string {
	if agent, ok := moduleAgentMap[topic]; ok {
		return agent
	}
	return defaultAgent
}

// ServiceConfig wires the router's collaborators. Taxonomy is required;
// Cache and LLM are optional (a nil cache disables result caching, a nil
// classifier disables the LLM fallback).
type ServiceConfig struct {
	Taxonomy *taxonomy.Index
	Cache    *cache.Cache[Classification]
	LLM      *LLMClassifier
	// OnCacheHit and OnLLMRefined, when set, are invoked once per cache hit
	// and per accepted LLM refinement. Used to feed the metrics collector
	// without coupling the router to it.
	OnCacheHit   func()
	OnLLMRefined func()
}

// Service implements IntentRouter over the static taxonomy.
// Classification is deterministic for a fixed taxonomy and input; the only
// process-wide mutable state is the injected cache.
type Service struct {
	taxonomy     *taxonomy.Index
	cache        *cache.Cache[Classification]
	llm          *LLMClassifier
	onCacheHit   func()
	onLLMRefined func()
	group        singleflight.Group
}

// NewService creates a new intent router service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		taxonomy:     cfg.Taxonomy,
		cache:        cfg.Cache,
		llm:          cfg.LLM,
		onCacheHit:   cfg.OnCacheHit,
		onLLMRefined: cfg.OnLLMRefined,
	}
}

// ClassifyIntent implements IntentRouter.
func (s *Service) ClassifyIntent(ctx context.Context, message string, reqCtx Context, opts ClassifyOptions) (Classification, error) {
	start := time.Now()

	text := strings.TrimSpace(message)
	if text == "" {
		return s.buildFallback(reqCtx, opts), nil
	}

	key := cache.Key(text, string(reqCtx.Module), reqCtx.Page)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			// The cached entry never carries a valid topic-switch flag: that
			// state is conversation-level and recomputed on every read.
			detection := DetectTopicSwitch(opts.PreviousTopic, cached.Topic, cached.Confidence)
			cached.ShouldSwitchTopic = detection.ShouldSwitch
			if s.onCacheHit != nil {
				s.onCacheHit()
			}
			slog.Debug("intent classification cache hit",
				"input", truncate(text, 50),
				"intent", cached.Intent,
				"latency_ms", time.Since(start).Milliseconds())
			return cached, nil
		}
	}

	// Concurrent identical misses share one scoring pass. The shared value
	// excludes the topic-switch flag, which is recomputed per caller below.
	result, _, _ := s.group.Do(key, func() (any, error) {
		c := s.classify(ctx, text, reqCtx)
		if s.cache != nil {
			s.cache.Set(key, c)
		}
		return c, nil
	})
	classification := result.(Classification)

	detection := DetectTopicSwitch(opts.PreviousTopic, classification.Topic, classification.Confidence)
	classification.ShouldSwitchTopic = detection.ShouldSwitch

	slog.Debug("intent classified",
		"input", truncate(text, 50),
		"intent", classification.Intent,
		"topic", classification.Topic,
		"confidence", classification.Confidence,
		"tier", classification.ConfidenceTier,
		"latency_ms", time.Since(start).Milliseconds())

	return classification, nil
}

// classify scores every taxonomy entry and assembles the cacheable part of
// the classification.
func (s *Service) classify(ctx context.Context, text string, reqCtx Context) Classification {
	scores := s.scoreAll(text, reqCtx)

	var best *IntentScore
	if len(scores) > 0 {
		best = &scores[0]
	}

	fallbackTopic := string(reqCtx.Module)
	if fallbackTopic == "" {
		fallbackTopic = string(ModuleCustomer)
	}

	classification := Classification{
		Topic:    fallbackTopic,
		Subtopic: fallbackSubtopic,
		Intent:   FallbackIntent,
	}
	if best != nil {
		classification.Topic = best.Topic
		classification.Subtopic = best.Subtopic
		classification.Intent = best.Intent
		classification.Confidence = best.AdjustedScore
	}

	limit := 3
	if len(scores) < limit {
		limit = len(scores)
	}
	for _, score := range scores[:limit] {
		classification.CandidateAgents = append(classification.CandidateAgents, CandidateAgentScore{
			AgentID: AgentForTopic(score.Topic),
			Score:   round3(score.AdjustedScore),
			Reason:  strings.Join(score.Reasons, ","),
		})
	}

	classification.ConfidenceTier = TierFor(classification.Confidence)

	// Optional LLM fallback for utterances the heuristics cannot place.
	// Disabled by default; the deterministic path never depends on it.
	if classification.ConfidenceTier == TierLow && s.llm != nil {
		if refined, ok := s.llm.Refine(ctx, text, reqCtx, classification); ok {
			classification = refined
			if s.onLLMRefined != nil {
				s.onLLMRefined()
			}
		}
	}

	return classification
}

// SelectAgent implements IntentRouter.
func (s *Service) SelectAgent(classification Classification) CandidateAgentScore {
	if len(classification.CandidateAgents) > 0 {
		return classification.CandidateAgents[0]
	}
	return CandidateAgentScore{
		AgentID: AgentForTopic(classification.Topic),
		Score:   classification.Confidence,
		Reason:  "fallback_by_topic",
	}
}

// scoreAll scores every taxonomy entry, applies the behavioral boost, and
// sorts descending by adjusted score. The sort is stable, so equal scores
// keep taxonomy document order.
func (s *Service) scoreAll(text string, reqCtx Context) []IntentScore {
	if s.taxonomy == nil || s.taxonomy.Len() == 0 {
		return nil
	}

	scores := make([]IntentScore, 0, s.taxonomy.Len())
	for _, entry := range s.taxonomy.Entries() {
		score := ScoreIntent(text, reqCtx, entry)

		if boost, _ := BehavioralBoost(entry.Intent, entry.Topic, reqCtx.Behavioral); boost > 0 {
			score.AdjustedScore = math.Min(score.AdjustedScore+boost, 1)
			score.Reasons = append(score.Reasons, fmt.Sprintf("behavioral_boost:%.2f", boost))
		}

		scores = append(scores, score)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AdjustedScore > scores[j].AdjustedScore
	})
	return scores
}

// buildFallback is the deterministic answer for empty input: a
// zero-confidence passthrough pinned to the current module.
func (s *Service) buildFallback(reqCtx Context, opts ClassifyOptions) Classification {
	topic := string(reqCtx.Module)
	if topic == "" {
		topic = opts.PreviousTopic
	}
	if topic == "" {
		topic = string(ModuleCustomer)
	}

	return Classification{
		Topic:          topic,
		Subtopic:       fallbackSubtopic,
		Intent:         FallbackIntent,
		Confidence:     0,
		ConfidenceTier: TierLow,
		CandidateAgents: []CandidateAgentScore{
			{AgentID: AgentForTopic(topic), Score: 0, Reason: "empty_message"},
		},
		ShouldSwitchTopic: false,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// truncate shortens a string for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Ensure Service implements IntentRouter.
var _ IntentRouter = (*Service)(nil)
