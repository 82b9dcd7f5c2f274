package plugin

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Command is a chat command. Run reports failures as errors; the plugin
// turns them into a single user-facing message.
type Command struct {
	Name        string
	Usage       string
	Description string
	Run         func(ctx context.Context, args string, emit Emitter) error
}

// Tool is a function exposed to the LLM integration layer.
type Tool struct {
	Spec ToolSpec
	Call func(ctx context.Context, args map[string]any) (string, error)
}

type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
}

type registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	tools    map[string]*Tool
}

func newRegistry() *registry {
	return &registry{
		commands: map[string]*Command{},
		tools:    map[string]*Tool{},
	}
}

func (r *registry) addCommand(c *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[strings.ToLower(c.Name)] = c
}

func (r *registry) addTool(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Spec.Name] = t
}

func (r *registry) command(name string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[strings.ToLower(name)]
}

func (r *registry) tool(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

func (r *registry) allCommands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (r *registry) allTools() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ToolSpec, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t.Spec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
