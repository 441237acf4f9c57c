package router

import "fmt"

// topicSwitchThreshold is the confidence needed to register a topic switch.
const topicSwitchThreshold = 0.5

// maxTopicHistory caps the retained conversation topic history.
const maxTopicHistory = 10

// Transition describes a detected topic change between two turns.
type Transition struct {
	FromTopic    string
	ToTopic      string
	ShouldSwitch bool
	Message      string
}

// DetectTopicSwitch compares the newly classified topic against the
// previous conversation topic. No previous topic, or an unchanged topic,
// never yields a switch. Otherwise the switch fires when confidence reaches
// the threshold; below it the transition is still reported with a
// tentative message but does not fire.
func DetectTopicSwitch(previousTopic, currentTopic string, confidence float64) Transition {
	if previousTopic == "" || previousTopic == currentTopic {
		return Transition{FromTopic: previousTopic, ToTopic: currentTopic}
	}

	t := Transition{
		FromTopic:    previousTopic,
		ToTopic:      currentTopic,
		ShouldSwitch: confidence >= topicSwitchThreshold,
	}
	if t.ShouldSwitch {
		t.Message = fmt.Sprintf("Switching from %s to %s.", previousTopic, currentTopic)
	} else {
		t.Message = fmt.Sprintf("Possible switch from %s to %s, awaiting confirmation.", previousTopic, currentTopic)
	}
	return t
}

// TransitionMessage renders the confirmation text shown to the advisor
// before a topic jump is executed.
func TransitionMessage(fromTopic, toTopic string) string {
	if fromTopic == toTopic {
		return fmt.Sprintf("Continuing in %s.", toTopic)
	}
	return fmt.Sprintf(
		"It looks like you want to switch from %s to %s. Would you like me to continue with %s?",
		fromTopic, toTopic, toTopic,
	)
}

// UpdateTopicHistory appends a topic to the conversation history unless it
// matches the last recorded entry, keeping at most maxTopicHistory entries.
func UpdateTopicHistory(history []string, topic string) []string {
	next := make([]string, len(history))
	copy(next, history)
	if len(next) == 0 || next[len(next)-1] != topic {
		next = append(next, topic)
	}
	if len(next) > maxTopicHistory {
		next = next[len(next)-maxTopicHistory:]
	}
	return next
}

// ShouldPromptForSwitch is the gate the router uses to decide whether a
// topic jump must be confirmed with the advisor before execution. A
// confirmed switch between two distinct topics prompts; below the
// threshold the conversation stays where it is without interruption.
func ShouldPromptForSwitch(t Transition) bool {
	return t.ShouldSwitch && t.FromTopic != "" && t.FromTopic != t.ToTopic
}
