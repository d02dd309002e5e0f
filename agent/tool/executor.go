package tool

import (
	"context"
	"fmt"

	contractx "github.com/naruebet/voiceline/agent/contract"
)

// Executor runs one named tool against the session's state. Implementations
// never abort the conversation: domain failures come back inside the
// ToolResult.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// DefaultExecutor answers for tools that are not registered for the
// persona.
func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("%s: %s is unavailable for agent=%s", contractx.ErrUnknownTool, tool, agentType),
		}, nil
	}
}
