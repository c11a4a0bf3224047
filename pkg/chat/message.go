// Package chat defines the provider-neutral conversation model shared by the
// agent loop and the model backends. Each backend translates these types into
// its own wire format; nothing here is persisted beyond one invocation.
package chat

import "strings"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockType discriminates the content block union.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockDocument   BlockType = "document"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// DocumentBlock embeds a full document into a message.
type DocumentBlock struct {
	// Data is the base64-encoded document payload.
	Data string
	// MediaType of the underlying bytes, e.g. "application/pdf".
	MediaType string
	// Ephemeral asks the provider to cache this block short-term. Advisory;
	// backends that have no such notion ignore it.
	Ephemeral bool
}

// ToolUseBlock is a capability invocation requested by the model.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResultBlock reports the textual outcome of a capability invocation.
type ToolResultBlock struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// Block is one content block. Exactly one of the pointer fields matching Type
// is set (Text rides along for BlockText).
type Block struct {
	Type       BlockType
	Text       string
	Document   *DocumentBlock
	ToolUse    *ToolUseBlock
	ToolResult *ToolResultBlock
}

// Message is one conversation turn.
type Message struct {
	Role   Role
	Blocks []Block
}

// TextBlock builds a plain text block.
func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

// UserText builds a single-text user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Blocks: []Block{TextBlock(text)}}
}

// AssistantText builds a single-text assistant message.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Blocks: []Block{TextBlock(text)}}
}

// ToolResult builds the user-role message carrying one tool outcome.
func ToolResult(toolUseID, content string, isErr bool) Message {
	return Message{Role: RoleUser, Blocks: []Block{{
		Type:       BlockToolResult,
		ToolResult: &ToolResultBlock{ToolUseID: toolUseID, Content: content, IsError: isErr},
	}}}
}

// Text concatenates the text blocks of a message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, b := range m.Blocks {
		if b.Type == BlockText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// ToolUses returns the capability invocations requested in this message.
func (m Message) ToolUses() []ToolUseBlock {
	var uses []ToolUseBlock
	for _, b := range m.Blocks {
		if b.Type == BlockToolUse && b.ToolUse != nil {
			uses = append(uses, *b.ToolUse)
		}
	}
	return uses
}
