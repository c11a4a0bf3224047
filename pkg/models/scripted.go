package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/duynguyendang/pdfdesk/pkg/chat"
)

// ScriptedModel replays a fixed sequence of responses. Useful for local
// testing of the agent loop without API calls.
type ScriptedModel struct {
	mu       sync.Mutex
	script   []Response
	Requests []Request
}

// NewScriptedModel builds a model that returns the given responses in order.
func NewScriptedModel(script ...Response) *ScriptedModel {
	return &ScriptedModel{script: script}
}

func (s *ScriptedModel) Name() string { return "scripted" }

// Complete records the request and pops the next scripted response.
func (s *ScriptedModel) Complete(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if len(s.script) == 0 {
		return nil, fmt.Errorf("scripted model exhausted after %d calls", len(s.Requests))
	}
	next := s.script[0]
	s.script = s.script[1:]
	return &next, nil
}

// Calls reports how many completions have been served.
func (s *ScriptedModel) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// ToolCallResponse is a convenience for scripting a capability invocation.
func ToolCallResponse(id, name string, input map[string]any) Response {
	return Response{
		Message: chat.Message{
			Role: chat.RoleAssistant,
			Blocks: []chat.Block{{
				Type:    chat.BlockToolUse,
				ToolUse: &chat.ToolUseBlock{ID: id, Name: name, Input: input},
			}},
		},
		ToolUse: true,
	}
}

// TextResponse is a convenience for scripting a plain answer.
func TextResponse(text string) Response {
	return Response{Message: chat.AssistantText(text)}
}

var _ Model = (*ScriptedModel)(nil)
