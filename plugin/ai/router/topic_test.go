package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTopicSwitch(t *testing.T) {
	tests := []struct {
		name            string
		previous        string
		current         string
		confidence      float64
		expectedSwitch  bool
		expectedMessage string
	}{
		{
			name:       "no previous topic",
			previous:   "",
			current:    "analytics",
			confidence: 0.9,
		},
		{
			name:       "same topic",
			previous:   "analytics",
			current:    "analytics",
			confidence: 0.9,
		},
		{
			name:            "confident switch at threshold",
			previous:        "customer",
			current:         "analytics",
			confidence:      0.5,
			expectedSwitch:  true,
			expectedMessage: "Switching from customer to analytics.",
		},
		{
			name:            "tentative switch below threshold",
			previous:        "customer",
			current:         "analytics",
			confidence:      0.49,
			expectedSwitch:  false,
			expectedMessage: "Possible switch from customer to analytics, awaiting confirmation.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTopicSwitch(tt.previous, tt.current, tt.confidence)
			assert.Equal(t, tt.expectedSwitch, got.ShouldSwitch)
			assert.Equal(t, tt.expectedMessage, got.Message)
			assert.Equal(t, tt.previous, got.FromTopic)
			assert.Equal(t, tt.current, got.ToTopic)
		})
	}
}

func TestShouldPromptForSwitch(t *testing.T) {
	// Confirmed jump between distinct topics prompts for confirmation.
	assert.True(t, ShouldPromptForSwitch(DetectTopicSwitch("customer", "analytics", 0.8)))
	assert.True(t, ShouldPromptForSwitch(DetectTopicSwitch("customer", "analytics", 0.9)))
	// Below the switch threshold the conversation stays put, no prompt.
	assert.False(t, ShouldPromptForSwitch(DetectTopicSwitch("customer", "analytics", 0.3)))
	// No previous topic never prompts.
	assert.False(t, ShouldPromptForSwitch(DetectTopicSwitch("", "analytics", 0.9)))
	// Unchanged topic never prompts.
	assert.False(t, ShouldPromptForSwitch(DetectTopicSwitch("analytics", "analytics", 0.9)))
}

func TestTransitionMessage(t *testing.T) {
	assert.Equal(t, "Continuing in analytics.", TransitionMessage("analytics", "analytics"))
	assert.Equal(t,
		"It looks like you want to switch from customer to analytics. Would you like me to continue with analytics?",
		TransitionMessage("customer", "analytics"))
}

func TestUpdateTopicHistory(t *testing.T) {
	history := UpdateTopicHistory(nil, "customer")
	assert.Equal(t, []string{"customer"}, history)

	// Consecutive duplicates are collapsed.
	history = UpdateTopicHistory(history, "customer")
	assert.Equal(t, []string{"customer"}, history)

	history = UpdateTopicHistory(history, "analytics")
	assert.Equal(t, []string{"customer", "analytics"}, history)

	// Non-consecutive repeats are kept.
	history = UpdateTopicHistory(history, "customer")
	assert.Equal(t, []string{"customer", "analytics", "customer"}, history)
}

func TestUpdateTopicHistory_Cap(t *testing.T) {
	var history []string
	topics := []string{"customer", "analytics", "fna", "knowledge", "product",
		"todo", "broadcast", "visualizer", "operations", "compliance", "new_business", "customer"}
	for _, topic := range topics {
		history = UpdateTopicHistory(history, topic)
	}
	assert.Len(t, history, 10)
	assert.Equal(t, "fna", history[0], "oldest entries are dropped")
	assert.Equal(t, "customer", history[len(history)-1])
}

func TestUpdateTopicHistory_DoesNotMutateInput(t *testing.T) {
	original := []string{"customer"}
	_ = UpdateTopicHistory(original, "analytics")
	assert.Equal(t, []string{"customer"}, original)
}
