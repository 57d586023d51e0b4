package protocol

import (
	"encoding/json"
	"fmt"
)

// ContentBlockType identifies the kind of content block.
type ContentBlockType string

const (
	ContentBlockTypeText       ContentBlockType = "text"
	ContentBlockTypeThinking   ContentBlockType = "thinking"
	ContentBlockTypeToolUse    ContentBlockType = "tool_use"
	ContentBlockTypeToolResult ContentBlockType = "tool_result"
)

// ContentBlock is the interface for all content blocks.
type ContentBlock interface {
	BlockType() ContentBlockType
}

// TextBlock is plain model output.
type TextBlock struct {
	Type ContentBlockType `json:"type"`
	Text string           `json:"text"`
}

// BlockType returns the block type.
func (b TextBlock) BlockType() ContentBlockType { return ContentBlockTypeText }

// ThinkingBlock is extended-thinking output.
type ThinkingBlock struct {
	Type      ContentBlockType `json:"type"`
	Thinking  string           `json:"thinking"`
	Signature string           `json:"signature,omitempty"`
}

// BlockType returns the block type.
func (b ThinkingBlock) BlockType() ContentBlockType { return ContentBlockTypeThinking }

// ToolUseBlock is a tool invocation requested by the model.
type ToolUseBlock struct {
	Input map[string]interface{} `json:"input"`
	Type  ContentBlockType       `json:"type"`
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
}

// BlockType returns the block type.
func (b ToolUseBlock) BlockType() ContentBlockType { return ContentBlockTypeToolUse }

// ToolResultBlock is the output of an executed tool. Content is either a
// string or an array of blocks.
type ToolResultBlock struct {
	IsError   *bool            `json:"is_error,omitempty"`
	Type      ContentBlockType `json:"type"`
	ToolUseID string           `json:"tool_use_id"`
	Content   FlexibleContent  `json:"content"`
}

// BlockType returns the block type.
func (b ToolResultBlock) BlockType() ContentBlockType { return ContentBlockTypeToolResult }

// UnknownBlock keeps a block of a type this package does not model
// (image, server_tool_use, redacted_thinking, ...).
type UnknownBlock struct {
	Type ContentBlockType
	Raw  json.RawMessage
}

// BlockType returns the type found on the wire.
func (b UnknownBlock) BlockType() ContentBlockType { return b.Type }

// UnmarshalContentBlock decodes one block, discriminating on its type field.
func UnmarshalContentBlock(data json.RawMessage) (ContentBlock, error) {
	var base struct {
		Type ContentBlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, err
	}

	switch base.Type {
	case ContentBlockTypeText:
		var b TextBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("text block: %w", err)
		}
		return b, nil
	case ContentBlockTypeThinking:
		var b ThinkingBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("thinking block: %w", err)
		}
		return b, nil
	case ContentBlockTypeToolUse:
		var b ToolUseBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("tool_use block: %w", err)
		}
		return b, nil
	case ContentBlockTypeToolResult:
		var b ToolResultBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("tool_result block: %w", err)
		}
		return b, nil
	default:
		return UnknownBlock{Type: base.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

// ContentBlocks is an ordered list of content blocks.
type ContentBlocks []ContentBlock

// UnmarshalJSON implements json.Unmarshaler.
func (cb *ContentBlocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	blocks := make(ContentBlocks, 0, len(raws))
	for i, raw := range raws {
		b, err := UnmarshalContentBlock(raw)
		if err != nil {
			return fmt.Errorf("content block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	*cb = blocks
	return nil
}

// FlexibleContent is either a JSON string or an array of content blocks.
// Decoding is deferred until the caller asks for one shape or the other.
type FlexibleContent struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	fc.raw = append(fc.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (fc FlexibleContent) MarshalJSON() ([]byte, error) {
	if fc.raw == nil {
		return []byte("null"), nil
	}
	return fc.raw, nil
}

// IsString reports whether the content is a JSON string.
func (fc FlexibleContent) IsString() bool {
	return len(fc.raw) > 0 && fc.raw[0] == '"'
}

// AsString returns the content as a string, if it is one.
func (fc FlexibleContent) AsString() (string, bool) {
	if !fc.IsString() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(fc.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// IsArray reports whether the content is a JSON array.
func (fc FlexibleContent) IsArray() bool {
	return len(fc.raw) > 0 && fc.raw[0] == '['
}

// AsBlocks returns the content as typed blocks, if it is an array.
func (fc FlexibleContent) AsBlocks() (ContentBlocks, error) {
	if !fc.IsArray() {
		return nil, fmt.Errorf("content is not a block array")
	}
	var blocks ContentBlocks
	if err := json.Unmarshal(fc.raw, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Value decodes the content generically: a string, a []interface{}, a
// map, or nil when the field was absent or null.
func (fc FlexibleContent) Value() (interface{}, error) {
	if len(fc.raw) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(fc.raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
