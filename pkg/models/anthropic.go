package models

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/chat"
)

// AnthropicModel implements Model using Anthropic's Messages API. This is the
// primary backend: it understands PDF document blocks natively and honors the
// ephemeral cache marker on injected documents.
type AnthropicModel struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicModel constructs the client. It reads ANTHROPIC_API_KEY from
// the env and fails fast when it is absent.
func NewAnthropicModel(model string) (*AnthropicModel, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY must be set (get a key from https://console.anthropic.com/)",
			apperrors.ErrConfiguration)
	}

	cl := anthropic.NewClient(anthropicopt.WithAPIKey(key))
	return &AnthropicModel{
		client:    &cl,
		model:     ResolveModelName(model, DefaultAnthropicModel),
		maxTokens: 2048,
	}, nil
}

func (a *AnthropicModel) Name() string { return a.model }

// Complete translates the neutral request into a Messages API call and the
// reply back into neutral blocks.
func (a *AnthropicModel) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages:  toAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, spec := range req.Tools {
		params.Tools = append(params.Tools, toAnthropicTool(spec))
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, remoteErr("anthropic", err)
	}

	out := chat.Message{Role: chat.RoleAssistant}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.Blocks = append(out.Blocks, chat.TextBlock(b.Text))
		case anthropic.ToolUseBlock:
			var input map[string]any
			if err := json.Unmarshal(b.Input, &input); err != nil {
				input = map[string]any{}
			}
			out.Blocks = append(out.Blocks, chat.Block{
				Type:    chat.BlockToolUse,
				ToolUse: &chat.ToolUseBlock{ID: b.ID, Name: b.Name, Input: input},
			})
		}
	}

	return &Response{
		Message: out,
		ToolUse: msg.StopReason == anthropic.StopReasonToolUse,
	}, nil
}

func toAnthropicMessages(messages []chat.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		var blocks []anthropic.ContentBlockParamUnion
		for _, b := range m.Blocks {
			switch b.Type {
			case chat.BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case chat.BlockDocument:
				doc := anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: b.Document.Data})
				if b.Document.Ephemeral {
					doc.OfDocument.CacheControl = anthropic.NewCacheControlEphemeralParam()
				}
				blocks = append(blocks, doc)
			case chat.BlockToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(b.ToolUse.ID, b.ToolUse.Input, b.ToolUse.Name))
			case chat.BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.ToolResult.ToolUseID, b.ToolResult.Content, b.ToolResult.IsError))
			}
		}
		if m.Role == chat.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func toAnthropicTool(spec ToolSpec) anthropic.ToolUnionParam {
	var required []string
	if raw, ok := spec.InputSchema["required"].([]string); ok {
		required = raw
	}
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: spec.InputSchema["properties"],
				Required:   required,
			},
		},
	}
}

var _ Model = (*AnthropicModel)(nil)
