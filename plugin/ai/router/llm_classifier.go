package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

// LLMClassifierConfig configures the optional LLM fallback classifier.
type LLMClassifierConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMClassifier refines low-confidence heuristic classifications with an
// LLM call. It is strictly optional: the router works without it, and any
// failure leaves the heuristic result untouched.
type LLMClassifier struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	taxonomy *taxonomy.Index
}

// NewLLMClassifier creates the fallback classifier.
func NewLLMClassifier(cfg LLMClassifierConfig, idx *taxonomy.Index) *LLMClassifier {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &LLMClassifier{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		timeout:  timeout,
		taxonomy: idx,
	}
}

// llmResponse is the expected JSON structure from the model.
type llmResponse struct {
	Topic      string  `json:"topic"`
	Subtopic   string  `json:"subtopic"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Refine asks the model to classify the utterance. Returns the refined
// classification and true only when the model names a known taxonomy intent
// with higher confidence than the heuristic result.
func (c *LLMClassifier) Refine(ctx context.Context, message string, reqCtx Context, heuristic Classification) (Classification, bool) {
	if c.client == nil || c.taxonomy == nil {
		return heuristic, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   256,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(c.taxonomy, &reqCtx)},
			{Role: openai.ChatMessageRoleUser, Content: BuildClassificationPrompt(message, &reqCtx)},
		},
	})
	if err != nil {
		slog.Warn("LLM intent refinement failed", "error", err, "input", truncate(message, 30))
		return heuristic, false
	}
	if len(resp.Choices) == 0 {
		return heuristic, false
	}

	parsed, err := parseLLMResponse(resp.Choices[0].Message.Content)
	if err != nil {
		slog.Warn("LLM intent response unparseable", "error", err)
		return heuristic, false
	}

	entry, ok := c.taxonomy.Find(parsed.Intent)
	if !ok || parsed.Confidence <= heuristic.Confidence {
		return heuristic, false
	}

	confidence := parsed.Confidence
	if confidence > 1 {
		confidence = 1
	}

	return Classification{
		Topic:      entry.Topic,
		Subtopic:   entry.Subtopic,
		Intent:     entry.Intent,
		Confidence: confidence,
		CandidateAgents: []CandidateAgentScore{
			{AgentID: AgentForTopic(entry.Topic), Score: round3(confidence), Reason: "llm_refined"},
		},
		ConfidenceTier: TierFor(confidence),
	}, true
}

// parseLLMResponse tolerates markdown code fences around the JSON body.
func parseLLMResponse(response string) (*llmResponse, error) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		var jsonLines []string
		inJSON := false
		for _, line := range strings.Split(response, "\n") {
			if strings.HasPrefix(line, "```") {
				inJSON = !inJSON
				continue
			}
			if inJSON {
				jsonLines = append(jsonLines, line)
			}
		}
		response = strings.Join(jsonLines, "\n")
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(response), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
