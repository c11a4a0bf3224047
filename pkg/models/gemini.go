package models

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/chat"
)

// GeminiModel implements Model using the Gemini API. Gemini ingests PDFs as
// inline blobs; the ephemeral cache marker has no equivalent there and is
// ignored, which the marker's advisory contract allows. Tool-use IDs are
// synthesized from function names since Gemini function calls carry none.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel constructs the client. It reads GEMINI_API_KEY from the env.
func NewGeminiModel(ctx context.Context, model string) (*GeminiModel, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY must be set", apperrors.ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", apperrors.ErrConfiguration, err)
	}

	name := ResolveModelName(model, DefaultGeminiModel)
	return &GeminiModel{client: client, model: name}, nil
}

func (g *GeminiModel) Name() string { return g.model }

// Close releases the underlying client.
func (g *GeminiModel) Close() error {
	return g.client.Close()
}

func (g *GeminiModel) Complete(ctx context.Context, req Request) (*Response, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, spec := range req.Tools {
			decls = append(decls, toGeminiFunction(spec))
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	history, last := toGeminiContents(req.Messages)
	if last == nil {
		return nil, fmt.Errorf("%w: gemini: empty message sequence", apperrors.ErrRemoteCall)
	}

	cs := model.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, remoteErr("gemini", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: gemini returned no candidates", apperrors.ErrRemoteCall)
	}

	out := chat.Message{Role: chat.RoleAssistant}
	toolUse := false
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			out.Blocks = append(out.Blocks, chat.TextBlock(string(p)))
		case genai.FunctionCall:
			toolUse = true
			out.Blocks = append(out.Blocks, chat.Block{
				Type:    chat.BlockToolUse,
				ToolUse: &chat.ToolUseBlock{ID: p.Name, Name: p.Name, Input: p.Args},
			})
		}
	}

	return &Response{Message: out, ToolUse: toolUse}, nil
}

// toGeminiContents splits the turn sequence into history plus the final turn
// the chat session sends.
func toGeminiContents(messages []chat.Message) (history []*genai.Content, last *genai.Content) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == chat.RoleAssistant {
			role = "model"
		}

		var parts []genai.Part
		for _, b := range m.Blocks {
			switch b.Type {
			case chat.BlockText:
				parts = append(parts, genai.Text(b.Text))
			case chat.BlockDocument:
				raw, err := base64.StdEncoding.DecodeString(b.Document.Data)
				if err != nil {
					continue
				}
				mediaType := b.Document.MediaType
				if mediaType == "" {
					mediaType = "application/pdf"
				}
				parts = append(parts, genai.Blob{MIMEType: mediaType, Data: raw})
			case chat.BlockToolUse:
				parts = append(parts, genai.FunctionCall{Name: b.ToolUse.Name, Args: b.ToolUse.Input})
			case chat.BlockToolResult:
				parts = append(parts, genai.FunctionResponse{
					Name:     b.ToolResult.ToolUseID,
					Response: map[string]any{"result": b.ToolResult.Content, "is_error": b.ToolResult.IsError},
				})
			}
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	if len(contents) == 0 {
		return nil, nil
	}
	return contents[:len(contents)-1], contents[len(contents)-1]
}

func toGeminiFunction(spec ToolSpec) *genai.FunctionDeclaration {
	params := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
	}
	if props, ok := spec.InputSchema["properties"].(map[string]any); ok {
		for name, raw := range props {
			prop := &genai.Schema{Type: genai.TypeString}
			if m, ok := raw.(map[string]any); ok {
				if desc, ok := m["description"].(string); ok {
					prop.Description = desc
				}
			}
			params.Properties[name] = prop
		}
	}
	if required, ok := spec.InputSchema["required"].([]string); ok {
		params.Required = required
	}
	return &genai.FunctionDeclaration{
		Name:        spec.Name,
		Description: spec.Description,
		Parameters:  params,
	}
}

var _ Model = (*GeminiModel)(nil)
