// Package models abstracts the hosted model backends behind one interface so
// the agent loop and direct analysis do not care which provider is active.
package models

import (
	"context"
	"fmt"
	"os"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/chat"
)

// Default models. Haiku keeps demo runs cheap; set PDFDESK_MODEL=sonnet (or a
// full model name) to override.
const (
	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
	SonnetModel           = "claude-sonnet-4-5-20250929"
	DefaultGeminiModel    = "gemini-2.0-flash-exp"
)

// ToolSpec describes one capability offered to the model: a name, a
// description, and a JSON-schema parameter object.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Request is one completion call: an ordered turn sequence plus the
// capability table available for this call.
type Request struct {
	System    string
	Messages  []chat.Message
	Tools     []ToolSpec
	MaxTokens int
}

// Response is the model's reply. The message may hold text blocks, tool-use
// blocks, or both; ToolUse reports whether the model stopped to invoke a
// capability.
type Response struct {
	Message chat.Message
	ToolUse bool
}

// Model is an opaque remote completion capability.
type Model interface {
	// Complete sends the request and returns the model's next turn. Failures
	// are wrapped in apperrors.ErrRemoteCall and never retried here.
	Complete(ctx context.Context, req Request) (*Response, error)
	// Name reports the concrete model in use.
	Name() string
}

// ResolveModelName applies the env override convention: explicit name wins,
// then PDFDESK_MODEL ("sonnet" is an alias for the production model), then
// the provider default.
func ResolveModelName(explicit, fallback string) string {
	name := explicit
	if name == "" {
		name = os.Getenv("PDFDESK_MODEL")
	}
	switch name {
	case "":
		return fallback
	case "sonnet":
		return SonnetModel
	default:
		return name
	}
}

func remoteErr(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrRemoteCall, provider, err)
}
