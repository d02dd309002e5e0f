package contract

type AgentType string

const (
	AgentTypeGameMaster AgentType = "gamemaster"
	AgentTypeFoodOrder  AgentType = "foodorder"
	AgentTypeSDR        AgentType = "sdr"
)

// ParseAgentType maps a config string to a known persona.
func ParseAgentType(s string) (AgentType, bool) {
	switch AgentType(s) {
	case AgentTypeGameMaster, AgentTypeFoodOrder, AgentTypeSDR:
		return AgentType(s), true
	default:
		return "", false
	}
}

// ToolRequest is a single tool invocation selected by the dialogue policy.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries the outcome back to the dialogue policy. Result holds
// the spoken confirmation string; Error is reserved for malformed argument
// payloads. Domain failures (item not found, empty cart, missing lead
// fields) go into Result so the conversation can recover.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
