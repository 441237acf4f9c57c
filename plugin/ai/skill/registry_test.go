package skill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRegistry(t *testing.T) {
	registry := NewInMemoryRegistry()
	assert.False(t, registry.HasSkill("ops__system_help"))

	registry.Register("ops__system_help", func(ctx context.Context, payload map[string]any) (*Result, error) {
		return &Result{Content: "ask me about the crm, " + payload["user"].(string)}, nil
	})
	require.True(t, registry.HasSkill("ops__system_help"))

	result, err := registry.ExecuteSkill(context.Background(), "ops__system_help", map[string]any{"user": "alex"})
	require.NoError(t, err)
	assert.Equal(t, "ask me about the crm, alex", result.Content)

	_, err = registry.ExecuteSkill(context.Background(), "ops__unknown", nil)
	assert.Error(t, err)
}
