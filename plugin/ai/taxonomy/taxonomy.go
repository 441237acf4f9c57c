// Package taxonomy holds the static intent taxonomy consumed by the Mira
// intent router. The taxonomy is loaded once at startup from a YAML document
// and is immutable afterwards.
package taxonomy

import (
	"github.com/pkg/errors"
)

// Entry describes one routable intent and its position in the
// topic/subtopic hierarchy.
type Entry struct {
	Topic          string
	Subtopic       string
	Intent         string
	DisplayName    string
	Description    string
	ExamplePhrases []string
	RequiredFields []string
	OptionalFields []string
}

// Document is the on-disk taxonomy shape.
type Document struct {
	Topics []TopicNode `yaml:"topics"`
}

// TopicNode groups subtopics under a topic.
type TopicNode struct {
	Topic       string         `yaml:"topic"`
	DisplayName string         `yaml:"display_name,omitempty"`
	Subtopics   []SubtopicNode `yaml:"subtopics"`
}

// SubtopicNode groups intents under a subtopic.
type SubtopicNode struct {
	Subtopic    string       `yaml:"subtopic"`
	DisplayName string       `yaml:"display_name,omitempty"`
	Intents     []IntentNode `yaml:"intents"`
}

// IntentNode is one intent definition in the document.
type IntentNode struct {
	IntentName     string   `yaml:"intent_name"`
	DisplayName    string   `yaml:"display_name,omitempty"`
	Description    string   `yaml:"description,omitempty"`
	ExamplePhrases []string `yaml:"example_phrases,omitempty"`
	RequiredFields []string `yaml:"required_fields,omitempty"`
	OptionalFields []string `yaml:"optional_fields,omitempty"`
}

// Index is the flattened, validated taxonomy. Entries keep document order,
// which is the scoring tie-break order.
type Index struct {
	entries  []Entry
	byIntent map[string]int
	labels   map[string]string
}

// FromDocument flattens and validates a taxonomy document.
// Intent names must be globally unique; violations fail the load.
func FromDocument(doc *Document) (*Index, error) {
	if doc == nil {
		return nil, errors.New("taxonomy document is nil")
	}

	idx := &Index{
		byIntent: make(map[string]int),
		labels:   make(map[string]string),
	}

	for _, topic := range doc.Topics {
		if topic.Topic == "" {
			return nil, errors.New("taxonomy topic with empty name")
		}
		for _, subtopic := range topic.Subtopics {
			if subtopic.Subtopic == "" {
				return nil, errors.Errorf("topic %q has a subtopic with empty name", topic.Topic)
			}
			for _, intent := range subtopic.Intents {
				if intent.IntentName == "" {
					return nil, errors.Errorf("subtopic %s/%s has an intent with empty name", topic.Topic, subtopic.Subtopic)
				}
				if _, exists := idx.byIntent[intent.IntentName]; exists {
					return nil, errors.Errorf("duplicate intent name %q", intent.IntentName)
				}

				entry := Entry{
					Topic:          topic.Topic,
					Subtopic:       subtopic.Subtopic,
					Intent:         intent.IntentName,
					DisplayName:    intent.DisplayName,
					Description:    intent.Description,
					ExamplePhrases: intent.ExamplePhrases,
					RequiredFields: intent.RequiredFields,
					OptionalFields: intent.OptionalFields,
				}
				idx.byIntent[entry.Intent] = len(idx.entries)
				idx.entries = append(idx.entries, entry)
				idx.labels[entry.Intent] = deriveLabel(intent)
			}
		}
	}

	return idx, nil
}

// Entries returns all entries in document order. Callers must not mutate
// the returned slice.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Find returns the entry for an intent name.
func (idx *Index) Find(intent string) (Entry, bool) {
	i, ok := idx.byIntent[intent]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// Len returns the number of intents in the taxonomy.
func (idx *Index) Len() int {
	return len(idx.entries)
}
