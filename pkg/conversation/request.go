// Package conversation provides the request and response types of a Watson
// Conversation v1 compatible message API, and a client for it.
package conversation

// ChatRequest is the body the browser client posts to the relay.
type ChatRequest struct {
	Context map[string]any `json:"context,omitempty"` // Dialog state, carried through unmodified
	Input   map[string]any `json:"input,omitempty"`   // User input, typically {"text": "..."}
}

// Payload is a message call against a single workspace.
type Payload struct {
	WorkspaceID string         `json:"workspace_id"`
	Context     map[string]any `json:"context"`
	Input       map[string]any `json:"input"`
}

// NewPayload merges the workspace id with the request's context and input,
// defaulting either to an empty map.
func NewPayload(workspaceID string, req ChatRequest) Payload {
	p := Payload{
		WorkspaceID: workspaceID,
		Context:     req.Context,
		Input:       req.Input,
	}
	if p.Context == nil {
		p.Context = map[string]any{}
	}
	if p.Input == nil {
		p.Input = map[string]any{}
	}
	return p
}

// messageBody is what goes on the wire; the workspace id travels in the path.
type messageBody struct {
	Input   map[string]any `json:"input"`
	Context map[string]any `json:"context"`
}
