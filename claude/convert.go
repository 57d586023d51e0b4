package claude

import (
	"fmt"

	"github.com/bazelment/claude-cli/claude/protocol"
)

// fromWire converts a decoded protocol message into its public variant.
func fromWire(msg protocol.Message) (Message, error) {
	switch m := msg.(type) {
	case protocol.AssistantMessage:
		blocks, err := contentBlocks(m.Message.Content)
		if err != nil {
			return nil, fmt.Errorf("assistant content: %w", err)
		}
		return AssistantMessage{
			Model:           m.Message.Model,
			ParentToolUseID: deref(m.ParentToolUseID),
			Content:         blocks,
		}, nil

	case protocol.UserMessage:
		blocks, err := contentBlocks(m.Message.Content)
		if err != nil {
			return nil, fmt.Errorf("user content: %w", err)
		}
		return UserMessage{
			ParentToolUseID: deref(m.ParentToolUseID),
			Content:         blocks,
		}, nil

	case protocol.SystemMessage:
		return SystemMessage{
			Subtype:        m.Subtype,
			SessionID:      m.SessionID,
			Model:          m.Model,
			CWD:            m.CWD,
			PermissionMode: PermissionMode(m.PermissionMode),
			Tools:          m.Tools,
		}, nil

	case protocol.ResultMessage:
		return ResultMessage{
			Subtype:       m.Subtype,
			SessionID:     m.SessionID,
			Result:        m.Result,
			TotalCostUSD:  m.TotalCostUSD,
			NumTurns:      m.NumTurns,
			DurationMs:    m.DurationMs,
			DurationAPIMs: m.DurationAPIMs,
			IsError:       m.IsError,
		}, nil

	case protocol.UnknownMessage:
		return UnknownMessage{Type: string(m.Type), Raw: m.Raw}, nil

	default:
		return nil, fmt.Errorf("unhandled message type %q", msg.MsgType())
	}
}

// contentBlocks converts message content. A bare string becomes a single
// TextBlock; null or absent content has no blocks.
func contentBlocks(fc protocol.FlexibleContent) ([]Block, error) {
	if s, ok := fc.AsString(); ok {
		return []Block{TextBlock{Text: s}}, nil
	}
	if !fc.IsArray() {
		return nil, nil
	}

	wire, err := fc.AsBlocks()
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, len(wire))
	for _, b := range wire {
		switch wb := b.(type) {
		case protocol.TextBlock:
			blocks = append(blocks, TextBlock{Text: wb.Text})
		case protocol.ThinkingBlock:
			blocks = append(blocks, ThinkingBlock{Thinking: wb.Thinking})
		case protocol.ToolUseBlock:
			blocks = append(blocks, ToolUseBlock{ID: wb.ID, Name: wb.Name, Input: wb.Input})
		case protocol.ToolResultBlock:
			content, err := toolResultContent(wb.Content)
			if err != nil {
				return nil, fmt.Errorf("tool_result %s: %w", wb.ToolUseID, err)
			}
			blocks = append(blocks, ToolResultBlock{
				ToolUseID: wb.ToolUseID,
				Content:   content,
				IsError:   wb.IsError != nil && *wb.IsError,
			})
		case protocol.UnknownBlock:
			blocks = append(blocks, UnknownBlock{Type: string(wb.Type), Raw: wb.Raw})
		}
	}
	return blocks, nil
}

func toolResultContent(fc protocol.FlexibleContent) (interface{}, error) {
	if s, ok := fc.AsString(); ok {
		return s, nil
	}
	return fc.Value()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
