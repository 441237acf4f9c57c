package skill

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Result is the outcome of executing a skill or module agent.
type Result struct {
	Content string `json:"content"`
	Actions []any  `json:"actions,omitempty"`
}

// Handler executes one skill.
type Handler func(ctx context.Context, payload map[string]any) (*Result, error)

// Registry is the skill execution boundary. The routing core only decides
// which skill name to invoke; implementations live outside the core.
type Registry interface {
	HasSkill(name string) bool
	ExecuteSkill(ctx context.Context, name string, payload map[string]any) (*Result, error)
}

// ModuleAgentRegistry is the module-agent execution boundary, selected in
// preference to plain skill execution when an agent is bound to the module.
type ModuleAgentRegistry interface {
	HasModuleAgent(agentID, module string) bool
	ExecuteModuleAgent(ctx context.Context, agentID, module string, payload map[string]any) (*Result, error)
}

// InMemoryRegistry is a map-backed Registry for tests and the demo CLI.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a skill name.
func (r *InMemoryRegistry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// HasSkill implements Registry.
func (r *InMemoryRegistry) HasSkill(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// ExecuteSkill implements Registry.
func (r *InMemoryRegistry) ExecuteSkill(ctx context.Context, name string, payload map[string]any) (*Result, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("skill %q is not registered", name)
	}
	return handler(ctx, payload)
}

// Ensure InMemoryRegistry implements Registry.
var _ Registry = (*InMemoryRegistry)(nil)
