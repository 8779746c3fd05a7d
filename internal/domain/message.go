package domain

// Chat message roles as exchanged with the model backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a model-issued request to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatMessage is one entry in an orchestrator thread. Tool-result
// messages carry the ToolCallID they answer.
type ChatMessage struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// HasToolCalls reports whether the message requests tool invocations.
func (m ChatMessage) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
