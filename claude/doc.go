// Package claude drives the Claude Code CLI as a subprocess and exposes its
// stream-json output as a single-pass stream of typed messages.
//
// # Quick Start
//
//	client := claude.NewClient()
//	stream, err := client.Query(ctx, "What is 2+2?", claude.Options{
//	    Model:          "claude-opus-4-5-20251101",
//	    PermissionMode: claude.PermissionModeAcceptEdits,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for stream.Next() {
//	    switch m := stream.Current().(type) {
//	    case claude.AssistantMessage:
//	        for _, b := range m.Content {
//	            if t, ok := b.(claude.TextBlock); ok {
//	                fmt.Print(t.Text)
//	            }
//	        }
//	    case claude.ResultMessage:
//	        fmt.Printf("\nsession %s\n", m.SessionID)
//	    }
//	}
//	if err := stream.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Query and Stream.Err report three driver failures as typed errors, to be
// matched with errors.As: *CLINotFoundError when the binary cannot be
// started, *ProcessError when it exits non-zero, and *ProtocolError when a
// line of its output cannot be decoded. Cancelling the context stops the
// CLI and surfaces the context's error.
//
// # Variants
//
// Message and Block are closed sets. Types the CLI may add later arrive as
// UnknownMessage and UnknownBlock, so a type switch with no default case
// ignores them.
package claude
