package protocol

import "context"

// GenerateRequest asks the model collaborator for a completion. When
// ResponseSchema is set the collaborator returns a structured object shaped by
// it; otherwise plain text.
type GenerateRequest struct {
	Model          string         `json:"model"`
	SystemPrompt   string         `json:"system_prompt,omitempty"`
	Prompt         string         `json:"prompt"`
	ResponseSchema map[string]any `json:"response_schema,omitempty"`
}

// GenerateResult carries either text or a structured object, never both.
type GenerateResult struct {
	Text   string         `json:"text,omitempty"`
	Object map[string]any `json:"object,omitempty"`
}

// ModelClient is the model-generation capability the llm node consumes. The
// engine never talks to a provider API directly.
type ModelClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// ToolDispatcher resolves a tool by name and invokes it. Backed by the
// platform's tool registry (out of scope here); tool-level failures come back
// as ordinary errors and become node failures, not run crashes.
type ToolDispatcher interface {
	CallTool(ctx context.Context, name string, input map[string]any) (map[string]any, error)
}
