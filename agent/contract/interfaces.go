package contract

import "context"

// ToolGateway executes tool requests on behalf of the dialogue policy.
// Execution is sequential; the policy awaits each result before issuing
// the next request.
type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolRequest) ([]ToolResult, error)
}

// Sink persists finalized records. Write stores one record under its own
// id (one file/row per record); Append adds the record to a growing
// collection.
type Sink interface {
	Write(ctx context.Context, collection, id string, record any) error
	Append(ctx context.Context, collection string, record any) error
}
