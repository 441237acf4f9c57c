package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/mirahq/mira/plugin/ai/clarify"
	"github.com/mirahq/mira/plugin/ai/router"
	"github.com/mirahq/mira/plugin/ai/skill"
	routingerr "github.com/mirahq/mira/server/internal/errors"
	"github.com/mirahq/mira/internal/observability"
	"github.com/mirahq/mira/store"
)

// ClassifyRequest is the body of POST /api/v1/mira/classify.
type ClassifyRequest struct {
	Message        string                    `json:"message"`
	ConversationID string                    `json:"conversation_id,omitempty"`
	Module         string                    `json:"module,omitempty"`
	Page           string                    `json:"page,omitempty"`
	PageData       map[string]any            `json:"page_data,omitempty"`
	Behavioral     *router.BehavioralContext `json:"behavioral_context,omitempty"`
	Metadata       map[string]any            `json:"metadata,omitempty"`
}

// ClassifyResponse is the full routing decision for one utterance.
type ClassifyResponse struct {
	ConversationID       string                     `json:"conversation_id"`
	RequestID            string                     `json:"request_id"`
	Classification       router.Classification      `json:"classification"`
	SelectedAgent        router.CandidateAgentScore `json:"selected_agent"`
	Decision             skill.Decision             `json:"decision"`
	NeedsClarification   bool                       `json:"needs_clarification"`
	ClarificationMessage string                     `json:"clarification_message,omitempty"`
	TransitionMessage    string                     `json:"transition_message,omitempty"`
	TopicHistory         []string                   `json:"topic_history"`
	LatencyMs            int64                      `json:"latency_ms"`
}

// Classify classifies one user utterance and returns the routing decision.
// POST /api/v1/mira/classify
func (s *APIV1Service) Classify(c echo.Context) error {
	req := &ClassifyRequest{}
	if err := c.Bind(req); err != nil {
		return replyError(c, http.StatusBadRequest, routingerr.InvalidArgument("malformed request body"))
	}

	reqCtx := router.Context{
		Page:       req.Page,
		PageData:   req.PageData,
		Behavioral: req.Behavioral,
	}
	if req.Module != "" {
		module, err := router.ParseModule(req.Module)
		if err != nil {
			return replyError(c, http.StatusBadRequest, routingerr.InvalidModule(req.Module))
		}
		reqCtx.Module = module
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = shortuuid.New()
	}

	obs := observability.NewRequestContext(slog.Default(), conversationID, req.Module)

	history := s.topicHistory(conversationID)
	previousTopic := ""
	if len(history) > 0 {
		previousTopic = history[len(history)-1]
	}

	classification, err := s.Router.ClassifyIntent(c.Request().Context(), req.Message, reqCtx, router.ClassifyOptions{
		PreviousTopic: previousTopic,
	})
	if err != nil {
		observability.GlobalMetrics().RecordFailure()
		obs.Error("classification failed", err)
		return replyError(c, http.StatusInternalServerError, routingerr.Internal("classification failed", err))
	}

	selection := s.Router.SelectAgent(classification)
	decision := skill.Decide(skill.DecideInput{
		Classification: classification,
		AgentSelection: selection,
		Metadata:       req.Metadata,
		UserMessage:    req.Message,
	})

	history = s.commitTopic(conversationID, classification.Topic)

	transition := router.DetectTopicSwitch(previousTopic, classification.Topic, classification.Confidence)
	transitionMsg := ""
	if router.ShouldPromptForSwitch(transition) {
		transitionMsg = router.TransitionMessage(previousTopic, classification.Topic)
	}

	needsClarification := clarify.ShouldClarify(classification.ConfidenceTier, transition)
	clarificationMsg := ""
	if needsClarification {
		clarificationMsg = clarify.BuildMessage(s.Taxonomy, clarify.MessageInput{
			Intent:            classification.Intent,
			Tier:              classification.ConfidenceTier,
			TransitionMessage: transitionMsg,
		})
	}

	metrics := observability.GlobalMetrics()
	metrics.RecordClassification(classification.Topic)
	metrics.RecordDuration(classification.Topic, obs.Duration())
	if classification.ConfidenceTier == router.TierLow {
		metrics.RecordLowTier(classification.Topic)
	}

	s.IntentLogger.LogAsync(&store.IntentLog{
		ConversationID: conversationID,
		Topic:          classification.Topic,
		Subtopic:       classification.Subtopic,
		Intent:         classification.Intent,
		Confidence:     classification.Confidence,
		ConfidenceTier: string(classification.ConfidenceTier),
		SelectedAgent:  selection.AgentID,
		SelectedSkill:  decision.NextSkill,
		UserMessage:    req.Message,
		Metadata:       req.Metadata,
	})

	obs.Info("classified",
		slog.String(observability.LogFieldTopic, classification.Topic),
		slog.String(observability.LogFieldIntent, classification.Intent),
		slog.Float64(observability.LogFieldConfidence, classification.Confidence),
		slog.Int64(observability.LogFieldDuration, obs.DurationMs()),
	)

	return c.JSON(http.StatusOK, ClassifyResponse{
		ConversationID:       conversationID,
		RequestID:            obs.RequestID,
		Classification:       classification,
		SelectedAgent:        selection,
		Decision:             decision,
		NeedsClarification:   needsClarification,
		ClarificationMessage: clarificationMsg,
		TransitionMessage:    transitionMsg,
		TopicHistory:         history,
		LatencyMs:            obs.DurationMs(),
	})
}
