package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

func TestBuildSystemPrompt(t *testing.T) {
	idx, err := taxonomy.Default()
	require.NoError(t, err)

	prompt := BuildSystemPrompt(idx, &Context{Module: "analytics", Page: "dashboard"})
	assert.Contains(t, prompt, "Current module: analytics. Current page: dashboard.")

	prompt = BuildSystemPrompt(idx, nil)
	assert.Contains(t, prompt, "Current module unknown.")
}

func TestBuildClassificationPrompt(t *testing.T) {
	prompt := BuildClassificationPrompt("show my pipeline", &Context{
		Module:   "customer",
		Page:     "list",
		PageData: map[string]any{"customerId": "c-1"},
	})
	assert.Contains(t, prompt, "Module: customer")
	assert.Contains(t, prompt, "Page: list")
	assert.Contains(t, prompt, `"customerId":"c-1"`)
	assert.Contains(t, prompt, "show my pipeline")

	prompt = BuildClassificationPrompt("hello", nil)
	assert.Contains(t, prompt, "Module: unknown")
	assert.Contains(t, prompt, "Page: unknown")
}

func TestBuildFewShotExamples(t *testing.T) {
	assert.Empty(t, BuildFewShotExamples(nil))

	idx, err := taxonomy.Default()
	require.NoError(t, err)
	out := BuildFewShotExamples(idx)
	require.NotEmpty(t, out)

	for _, line := range strings.Split(out, "\n") {
		assert.True(t, strings.HasPrefix(line, "- Intent "), "line %q", line)
		_, examples, ok := strings.Cut(line, "Examples: ")
		require.True(t, ok, "line %q", line)
		assert.LessOrEqual(t, strings.Count(examples, " | "), fewShotExampleLimit-1)
	}
}

func TestBuildClarificationPrompt(t *testing.T) {
	prompt := BuildClarificationPrompt([]string{"view_sales_trends", "view_kpi_dashboard"})
	assert.Contains(t, prompt, "view_sales_trends, view_kpi_dashboard")
}
