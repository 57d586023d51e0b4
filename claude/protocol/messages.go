// Package protocol holds the wire types of the Claude Code CLI stream-json
// output and decodes them one NDJSON line at a time.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MessageType discriminates between message kinds.
type MessageType string

const (
	MessageTypeSystem    MessageType = "system"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeUser      MessageType = "user"
	MessageTypeResult    MessageType = "result"
)

// Message is the interface for all decoded stream messages.
type Message interface {
	MsgType() MessageType
}

// SystemMessage carries session initialization and other system notices.
type SystemMessage struct {
	Type           MessageType `json:"type"`
	Subtype        string      `json:"subtype"`
	SessionID      string      `json:"session_id"`
	UUID           string      `json:"uuid"`
	Model          string      `json:"model,omitempty"`
	CWD            string      `json:"cwd,omitempty"`
	PermissionMode string      `json:"permissionMode,omitempty"`
	Tools          []string    `json:"tools,omitempty"`
}

// MsgType returns the message type.
func (m SystemMessage) MsgType() MessageType { return MessageTypeSystem }

// MessageContent is the inner API message of assistant and user lines.
type MessageContent struct {
	StopReason *string         `json:"stop_reason"`
	Model      string          `json:"model,omitempty"`
	ID         string          `json:"id,omitempty"`
	Role       string          `json:"role"`
	Content    FlexibleContent `json:"content"`
}

// AssistantMessage is a complete model response.
type AssistantMessage struct {
	ParentToolUseID *string        `json:"parent_tool_use_id"`
	Type            MessageType    `json:"type"`
	SessionID       string         `json:"session_id"`
	UUID            string         `json:"uuid"`
	Message         MessageContent `json:"message"`
}

// MsgType returns the message type.
func (m AssistantMessage) MsgType() MessageType { return MessageTypeAssistant }

// UserMessage echoes user input and tool results back from the CLI.
type UserMessage struct {
	ParentToolUseID *string        `json:"parent_tool_use_id"`
	Type            MessageType    `json:"type"`
	SessionID       string         `json:"session_id"`
	UUID            string         `json:"uuid"`
	Message         MessageContent `json:"message"`
}

// MsgType returns the message type.
func (m UserMessage) MsgType() MessageType { return MessageTypeUser }

// ResultMessage closes a query with its metrics.
// TotalCostUSD is invalid when the CLI omits the field or sends null.
type ResultMessage struct {
	Type          MessageType         `json:"type"`
	Subtype       string              `json:"subtype"`
	SessionID     string              `json:"session_id"`
	UUID          string              `json:"uuid"`
	Result        string              `json:"result"`
	TotalCostUSD  decimal.NullDecimal `json:"total_cost_usd"`
	NumTurns      int                 `json:"num_turns"`
	DurationMs    int64               `json:"duration_ms"`
	DurationAPIMs int64               `json:"duration_api_ms"`
	IsError       bool                `json:"is_error"`
}

// MsgType returns the message type.
func (m ResultMessage) MsgType() MessageType { return MessageTypeResult }

// UnknownMessage keeps a line whose type this package does not model
// (stream_event, control_request, types added by newer CLIs).
type UnknownMessage struct {
	Type MessageType
	Raw  json.RawMessage
}

// MsgType returns the type found on the wire.
func (m UnknownMessage) MsgType() MessageType { return m.Type }

// rawMessage is used for initial type discrimination.
type rawMessage struct {
	Type MessageType `json:"type"`
}

// ParseMessage decodes a single NDJSON line. Malformed JSON, or a known type
// whose body does not match its schema, is an error. Unknown types are not.
func ParseMessage(line []byte) (Message, error) {
	var raw rawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse message type: %w", err)
	}

	switch raw.Type {
	case MessageTypeSystem:
		var msg SystemMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("failed to parse system message: %w", err)
		}
		return msg, nil

	case MessageTypeAssistant:
		var msg AssistantMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("failed to parse assistant message: %w", err)
		}
		return msg, nil

	case MessageTypeUser:
		var msg UserMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("failed to parse user message: %w", err)
		}
		return msg, nil

	case MessageTypeResult:
		var msg ResultMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("failed to parse result message: %w", err)
		}
		return msg, nil

	default:
		return UnknownMessage{Type: raw.Type, Raw: append(json.RawMessage(nil), line...)}, nil
	}
}
