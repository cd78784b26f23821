package ai

import "context"

// Runtime is a minimal interface implemented by model runtimes such as a
// local Ollama server.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used across the CLI for selection.
const (
	ProviderOllama = "ollama"
)
