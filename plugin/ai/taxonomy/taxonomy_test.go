package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *Document {
	return &Document{
		Topics: []TopicNode{
			{
				Topic: "analytics",
				Subtopics: []SubtopicNode{
					{
						Subtopic: "performance",
						Intents: []IntentNode{
							{
								IntentName:     "view_sales_trends",
								DisplayName:    "View sales trends",
								ExamplePhrases: []string{"show my sales trends"},
							},
							{IntentName: "view_conversion_funnel"},
						},
					},
				},
			},
			{
				Topic: "fna",
				Subtopics: []SubtopicNode{
					{
						Subtopic: "capture",
						Intents: []IntentNode{
							{IntentName: "fna__capture_update_data", RequiredFields: []string{"field_name"}},
						},
					},
				},
			},
		},
	}
}

func TestFromDocument(t *testing.T) {
	idx, err := FromDocument(testDocument())
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())

	// Entries keep document order.
	entries := idx.Entries()
	assert.Equal(t, "view_sales_trends", entries[0].Intent)
	assert.Equal(t, "analytics", entries[0].Topic)
	assert.Equal(t, "performance", entries[0].Subtopic)
	assert.Equal(t, "fna__capture_update_data", entries[2].Intent)

	entry, ok := idx.Find("fna__capture_update_data")
	require.True(t, ok)
	assert.Equal(t, []string{"field_name"}, entry.RequiredFields)

	_, ok = idx.Find("nonexistent")
	assert.False(t, ok)
}

func TestFromDocument_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr string
	}{
		{
			name:    "nil document",
			mutate:  nil,
			wantErr: "nil",
		},
		{
			name: "duplicate intent across topics",
			mutate: func(doc *Document) {
				doc.Topics[1].Subtopics[0].Intents = append(doc.Topics[1].Subtopics[0].Intents,
					IntentNode{IntentName: "view_sales_trends"})
			},
			wantErr: "duplicate intent",
		},
		{
			name: "empty topic name",
			mutate: func(doc *Document) {
				doc.Topics[0].Topic = ""
			},
			wantErr: "empty name",
		},
		{
			name: "empty intent name",
			mutate: func(doc *Document) {
				doc.Topics[0].Subtopics[0].Intents[0].IntentName = ""
			},
			wantErr: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc *Document
			if tt.mutate != nil {
				doc = testDocument()
				tt.mutate(doc)
			}
			_, err := FromDocument(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBytes(t *testing.T) {
	raw := []byte(`
topics:
  - topic: customer
    subtopics:
      - subtopic: profile
        intents:
          - intent_name: view_customer_profile
            example_phrases:
              - "show me this customer"
`)
	idx, err := LoadBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	_, err = LoadBytes([]byte("topics: [nonsense"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	idx, err := Default()
	require.NoError(t, err)
	assert.Greater(t, idx.Len(), 20)

	// The embedded taxonomy carries the intents the skill layer depends on.
	for _, intent := range []string{
		"view_sales_trends",
		"fna__capture_update_data",
		"fna__generate_recommendation",
		"kb__knowledge_lookup",
		"ops__prepare_meeting",
		"ops__agent_passthrough",
	} {
		_, ok := idx.Find(intent)
		assert.True(t, ok, "missing intent %s", intent)
	}

	// Default is memoized.
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, idx, again)
}

func TestLabel(t *testing.T) {
	idx, err := FromDocument(testDocument())
	require.NoError(t, err)

	tests := []struct {
		intent   string
		expected string
	}{
		// Display name wins, lowercased.
		{"view_sales_trends", "view sales trends"},
		// No display name: derived from the slug with verb rewriting.
		{"view_conversion_funnel", "show conversion funnel"},
		// Unknown intents fall back to the generic label.
		{"nonexistent", FallbackLabel},
		{"", FallbackLabel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, idx.Label(tt.intent), "intent %q", tt.intent)
	}
}

func TestHumanizeSlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected string
	}{
		{"view_kpi_dashboard", "show kpi dashboard"},
		{"search_customer", "search for customer"},
		{"create_task", "add task"},
		{"view_ytd_production", "show year-to-date production"},
		{"unmappedverb_thing", "unmappedverb thing"},
		{"", FallbackLabel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, humanizeSlug(tt.slug), "slug %q", tt.slug)
	}
}

func TestToSentenceCase_KeepsAcronyms(t *testing.T) {
	assert.Equal(t, "update KYC details", toSentenceCase("Update KYC Details"))
	assert.Equal(t, "", toSentenceCase("   "))
}
