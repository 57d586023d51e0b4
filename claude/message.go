package claude

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Message is one element of a query stream. The set of implementations is
// closed: AssistantMessage, UserMessage, SystemMessage, ResultMessage and
// UnknownMessage.
type Message interface {
	messageType() string
}

// AssistantMessage is a complete response from the model.
type AssistantMessage struct {
	Model string
	// ParentToolUseID is set when the message comes from a subagent.
	ParentToolUseID string
	Content         []Block
}

// UserMessage is input echoed back by the CLI, mostly tool results.
type UserMessage struct {
	ParentToolUseID string
	Content         []Block
}

// SystemMessage is a CLI notice; subtype "init" opens every session.
type SystemMessage struct {
	Subtype        string
	SessionID      string
	Model          string
	CWD            string
	PermissionMode PermissionMode
	Tools          []string
}

// ResultMessage ends a query. TotalCostUSD is not Valid when the CLI did
// not report a cost.
type ResultMessage struct {
	Subtype       string
	SessionID     string
	Result        string
	TotalCostUSD  decimal.NullDecimal
	NumTurns      int
	DurationMs    int64
	DurationAPIMs int64
	IsError       bool
}

// UnknownMessage carries a message type this package does not model.
type UnknownMessage struct {
	Type string
	Raw  json.RawMessage
}

func (AssistantMessage) messageType() string { return "assistant" }
func (UserMessage) messageType() string      { return "user" }
func (SystemMessage) messageType() string    { return "system" }
func (ResultMessage) messageType() string    { return "result" }
func (m UnknownMessage) messageType() string { return m.Type }

// Block is one piece of message content. The set of implementations is
// closed: TextBlock, ThinkingBlock, ToolUseBlock, ToolResultBlock and
// UnknownBlock.
type Block interface {
	blockType() string
}

// TextBlock is plain model output.
type TextBlock struct {
	Text string
}

// ThinkingBlock is the model's extended thinking.
type ThinkingBlock struct {
	Thinking string
}

// ToolUseBlock is a tool call requested by the model.
type ToolUseBlock struct {
	Input map[string]interface{}
	ID    string
	Name  string
}

// ToolResultBlock is the output of a tool call. Content is a string for
// plain output; otherwise it holds the decoded JSON value ([]interface{}
// of content blocks in practice), or nil when absent.
type ToolResultBlock struct {
	Content   interface{}
	ToolUseID string
	IsError   bool
}

// UnknownBlock carries a block type this package does not model.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (TextBlock) blockType() string       { return "text" }
func (ThinkingBlock) blockType() string   { return "thinking" }
func (ToolUseBlock) blockType() string    { return "tool_use" }
func (ToolResultBlock) blockType() string { return "tool_result" }
func (b UnknownBlock) blockType() string  { return b.Type }
