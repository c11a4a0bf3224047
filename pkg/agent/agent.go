// Package agent runs the load-then-analyze conversation protocol: round one
// lets the model pull a document into the cache through a capability, the
// injector places every cached document in front of the conversation, and
// round two lets the model answer from the injected content.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duynguyendang/pdfdesk/pkg/chat"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

const defaultMaxRounds = 6

// Agent orchestrates model calls, the document cache, and the capability
// table.
type Agent struct {
	model        models.Model
	store        *docstore.Store
	caps         *Capabilities
	injector     *Injector
	systemPrompt string
	maxRounds    int
	logger       *slog.Logger
}

// Options configure a new Agent.
type Options struct {
	Model  models.Model
	Loader *loader.Loader
	// SystemPrompt overrides the embedded analyst prompt when non-empty.
	SystemPrompt string
	// MaxRounds bounds the completion loop. This is the host-side step
	// limit; the protocol itself does not count rounds.
	MaxRounds int
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("agent requires a model")
	}
	if opts.Loader == nil {
		return nil, fmt.Errorf("agent requires a loader")
	}

	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		rendered, err := DefaultPrompt().Execute(nil)
		if err != nil {
			return nil, err
		}
		systemPrompt = rendered
	}

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	store := opts.Loader.Store()
	return &Agent{
		model:        opts.Model,
		store:        store,
		caps:         NewCapabilities(opts.Loader),
		injector:     NewInjector(store),
		systemPrompt: systemPrompt,
		maxRounds:    maxRounds,
		logger:       slog.Default().With("component", "agent"),
	}, nil
}

// Store exposes the shared document cache.
func (a *Agent) Store() *docstore.Store {
	return a.store
}

// Ask is the single-question convenience over Invoke: it wraps the question
// in a user turn and returns the text of the final assistant turn.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	messages, err := a.Invoke(ctx, []chat.Message{chat.UserText(question)})
	if err != nil {
		return "", err
	}
	return messages[len(messages)-1].Text(), nil
}

// Invoke runs the conversation protocol over the given turns and returns the
// full final turn sequence, including injected document turns, capability
// invocations, and tool results.
//
// The injector runs before every completion and its output is regenerated
// from the cache each time; injected turns are never folded back into the
// running conversation state. Model-call failures propagate unwrapped — a
// failed completion has no meaningful continuation here.
func (a *Agent) Invoke(ctx context.Context, messages []chat.Message) ([]chat.Message, error) {
	conv := make([]chat.Message, len(messages))
	copy(conv, messages)

	for round := 1; round <= a.maxRounds; round++ {
		call := a.injector.Inject(conv)

		resp, err := a.model.Complete(ctx, models.Request{
			System:   a.systemPrompt,
			Messages: call,
			Tools:    a.caps.Specs(),
		})
		if err != nil {
			return nil, err
		}

		if !resp.ToolUse {
			a.logger.Debug("agent finished", "rounds", round, "turns", len(call)+1)
			return append(call, resp.Message), nil
		}

		conv = append(conv, resp.Message)
		for _, use := range resp.Message.ToolUses() {
			a.logger.Info("capability invoked", "tool", use.Name, "round", round)
			outcome, isErr := a.caps.Invoke(ctx, use.Name, use.Input)
			conv = append(conv, chat.ToolResult(use.ID, outcome, isErr))
		}
	}

	return a.injector.Inject(conv), fmt.Errorf("model did not produce a final answer within %d rounds", a.maxRounds)
}
